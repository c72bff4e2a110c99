package service

import (
	"context"
	"log/slog"

	"github.com/booksphere/booksphere-server/internal/domain"
	domainerrors "github.com/booksphere/booksphere-server/internal/errors"
	"github.com/booksphere/booksphere-server/internal/store"
)

// SettingsService reads and updates per-user playback settings.
type SettingsService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(s *store.Store, logger *slog.Logger) *SettingsService {
	return &SettingsService{store: s, logger: logger}
}

// UpdateSettingsRequest contains setting fields to change. Nil pointers
// leave the current value untouched.
type UpdateSettingsRequest struct {
	MoodSensitivity   *float64 `json:"mood_sensitivity"`
	MusicVolume       *int     `json:"music_volume" validate:"omitempty,min=0,max=100"`
	DynamicBackground *bool    `json:"dynamic_background"`
	Theme             *string  `json:"theme" validate:"omitempty,oneof=light dark"`
}

// GetSettings returns a user's settings.
func (s *SettingsService) GetSettings(ctx context.Context, userID string) (domain.UserSettings, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if store.IsNotFound(err) {
			return domain.UserSettings{}, domainerrors.NotFoundf("user %s not found", userID)
		}
		return domain.UserSettings{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "get settings")
	}
	return user.Settings, nil
}

// UpdateSettings applies partial setting changes. Sensitivity values are
// clamped into [0.1, 2.0] rather than rejected, matching how the resolver
// treats out-of-range values.
func (s *SettingsService) UpdateSettings(ctx context.Context, userID string, req UpdateSettingsRequest) (domain.UserSettings, error) {
	if err := validate.Validate(req); err != nil {
		return domain.UserSettings{}, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if store.IsNotFound(err) {
			return domain.UserSettings{}, domainerrors.NotFoundf("user %s not found", userID)
		}
		return domain.UserSettings{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "get user")
	}

	if req.MoodSensitivity != nil {
		user.Settings.MoodSensitivity = domain.ClampSensitivity(*req.MoodSensitivity)
	}
	if req.MusicVolume != nil {
		user.Settings.MusicVolume = *req.MusicVolume
	}
	if req.DynamicBackground != nil {
		user.Settings.DynamicBackground = *req.DynamicBackground
	}
	if req.Theme != nil {
		user.Settings.Theme = domain.Theme(*req.Theme)
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return domain.UserSettings{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "update settings")
	}

	s.logger.Info("settings updated", "user_id", userID)
	return user.Settings, nil
}
