// Package service contains the application services sitting between the
// transports (HTTP, websocket) and the store.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/booksphere/booksphere-server/internal/auth"
	"github.com/booksphere/booksphere-server/internal/domain"
	domainerrors "github.com/booksphere/booksphere-server/internal/errors"
	"github.com/booksphere/booksphere-server/internal/id"
	"github.com/booksphere/booksphere-server/internal/store"
	"github.com/booksphere/booksphere-server/internal/validation"
)

// validate is the shared request validator for all services.
var validate = validation.New()

// AuthService handles registration, login, and token verification.
type AuthService struct {
	store        *store.Store
	tokenService *auth.TokenService
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(s *store.Store, tokenService *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{store: s, tokenService: tokenService, logger: logger}
}

// RegisterRequest contains new account data.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=2,max=64"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
	Role     string `json:"role" validate:"omitempty,oneof=reader creator"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned on successful registration or login.
type AuthResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// Register creates a new user account. Admins are never self-registered;
// the role defaults to reader.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "hash password")
	}

	role := domain.RoleReader
	if req.Role != "" {
		role = domain.Role(req.Role)
	}

	user := &domain.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Role:         role,
		Settings:     domain.DefaultUserSettings(),
	}
	user.ID = id.MustGenerate("user")

	if err := s.store.CreateUser(ctx, user); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("an account with this email already exists")
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "create user")
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return s.issueToken(user)
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "lookup user")
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "verify password")
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return s.issueToken(user)
}

// VerifyAccessToken validates a bearer token and loads the account behind
// it. Used by both the HTTP middleware and the websocket upgrade.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokenService.VerifyAccessToken(token)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired token").WithCause(err)
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domainerrors.Unauthorized("account no longer exists")
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "load user")
	}
	return user, nil
}

func (s *AuthService) issueToken(user *domain.User) (*AuthResponse, error) {
	token, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate token")
	}
	return &AuthResponse{
		User:        user,
		AccessToken: token,
		ExpiresAt:   time.Now().Add(s.tokenService.AccessTokenDuration()),
	}, nil
}
