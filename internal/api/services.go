package api

import (
	"github.com/booksphere/booksphere-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth     *service.AuthService
	Preset   *service.PresetService
	Mood     *service.MoodService
	Settings *service.SettingsService
	Sync     *service.SyncService
}
