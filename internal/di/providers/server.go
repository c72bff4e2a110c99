package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/booksphere/booksphere-server/internal/api"
	"github.com/booksphere/booksphere-server/internal/config"
	"github.com/booksphere/booksphere-server/internal/logger"
	"github.com/booksphere/booksphere-server/internal/realtime"
	"github.com/booksphere/booksphere-server/internal/service"
	"github.com/booksphere/booksphere-server/internal/signedurl"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	hubHandle := do.MustInvoke[*HubHandle](i)
	wsHandler := do.MustInvoke[*realtime.Handler](i)
	signer := do.MustInvoke[*signedurl.Signer](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:     do.MustInvoke[*service.AuthService](i),
		Preset:   do.MustInvoke[*service.PresetService](i),
		Mood:     do.MustInvoke[*service.MoodService](i),
		Settings: do.MustInvoke[*service.SettingsService](i),
		Sync:     do.MustInvoke[*service.SyncService](i),
	}

	handler := api.NewServer(storeHandle.Store, services, wsHandler, hubHandle.Hub, signer, cfg, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
