package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/booksphere/booksphere-server/internal/domain"
	"github.com/booksphere/booksphere-server/internal/id"
)

// AppendAudit records one audit entry. Failures are returned but callers
// on hot paths typically log instead of aborting.
func (s *Store) AppendAudit(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = id.MustGenerate("aud")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	if err := s.Audit.Create(ctx, entry.ID, entry); err != nil {
		return fmt.Errorf("append audit: %w", err)
	}
	return nil
}

// AuditForUser returns a user's audit entries, newest first, capped at limit.
// A limit of zero or less means no cap.
func (s *Store) AuditForUser(ctx context.Context, userID string, limit int) ([]*domain.AuditEntry, error) {
	entries, err := s.Audit.ListByIndex(ctx, "user", userID)
	if err != nil {
		return nil, fmt.Errorf("audit for user: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
