package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/booksphere/booksphere-server/internal/domain"
)

// CreateUser stores a new user account. Emails are normalized before the
// unique index check, so lookups are case-insensitive.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	user.Email = normalizeEmail(user.Email)
	user.InitTimestamps()

	if err := s.Users.Create(ctx, user.ID, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID. Soft-deleted users are treated as absent.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.Users.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user.IsDeleted() {
		return nil, fmt.Errorf("get user: %w", ErrNotFound)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.Users.GetByIndex(ctx, "email", normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if user.IsDeleted() {
		return nil, fmt.Errorf("get user by email: %w", ErrNotFound)
	}
	return user, nil
}

// UpdateUser replaces an existing user record.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	user.Email = normalizeEmail(user.Email)
	user.Touch()

	if err := s.Users.Update(ctx, user.ID, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// ListUsers returns all non-deleted users, for the admin view.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	for user, err := range s.Users.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		if user.IsDeleted() {
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

// normalizeEmail lowercases and trims an email address for consistent
// index lookups.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
