package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/booksphere/booksphere-server/internal/domain"
	"github.com/booksphere/booksphere-server/internal/service"
)

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSettings",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me/settings",
		Summary:     "Get playback settings",
		Tags:        []string{"Settings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSettings",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me/settings",
		Summary:     "Update playback settings",
		Description: "Updates settings fields. Mood sensitivity is clamped to [0.1, 2.0] rather than rejected.",
		Tags:        []string{"Settings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateSettings)
}

// UpdateSettingsRequest is the request body for updating settings.
// Omitted fields keep their current value.
type UpdateSettingsRequest struct {
	MoodSensitivity   *float64 `json:"mood_sensitivity,omitempty" doc:"Tempo scaling factor, clamped to [0.1, 2.0]"`
	MusicVolume       *int     `json:"music_volume,omitempty" validate:"omitempty,min=0,max=100" doc:"Playback volume 0-100"`
	DynamicBackground *bool    `json:"dynamic_background,omitempty" doc:"Whether background images change with mood"`
	Theme             *string  `json:"theme,omitempty" validate:"omitempty,oneof=light dark" doc:"UI theme"`
}

// UpdateSettingsInput wraps the settings update request for Huma.
type UpdateSettingsInput struct {
	Body UpdateSettingsRequest
}

// SettingsOutput wraps a settings response for Huma.
type SettingsOutput struct {
	Body UserSettingsResponse
}

func (s *Server) handleGetSettings(ctx context.Context, _ *struct{}) (*SettingsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := s.services.Settings.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &SettingsOutput{Body: mapSettings(settings)}, nil
}

func (s *Server) handleUpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*SettingsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := s.services.Settings.UpdateSettings(ctx, userID, service.UpdateSettingsRequest{
		MoodSensitivity:   input.Body.MoodSensitivity,
		MusicVolume:       input.Body.MusicVolume,
		DynamicBackground: input.Body.DynamicBackground,
		Theme:             input.Body.Theme,
	})
	if err != nil {
		return nil, err
	}

	return &SettingsOutput{Body: mapSettings(settings)}, nil
}

func mapSettings(settings domain.UserSettings) UserSettingsResponse {
	return UserSettingsResponse{
		MoodSensitivity:   settings.MoodSensitivity,
		MusicVolume:       settings.MusicVolume,
		DynamicBackground: settings.DynamicBackground,
		Theme:             string(settings.Theme),
	}
}
