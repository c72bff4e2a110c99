package providers

import (
	"github.com/samber/do/v2"

	"github.com/booksphere/booksphere-server/internal/config"
	"github.com/booksphere/booksphere-server/internal/logger"
	"github.com/booksphere/booksphere-server/internal/mood"
	"github.com/booksphere/booksphere-server/internal/ratelimit"
	"github.com/booksphere/booksphere-server/internal/realtime"
	"github.com/booksphere/booksphere-server/internal/service"
	"github.com/booksphere/booksphere-server/internal/signedurl"
	"github.com/booksphere/booksphere-server/internal/syncbuf"
)

// HubHandle wraps the websocket hub with shutdown capability.
type HubHandle struct {
	*realtime.Hub
}

// Shutdown implements do.Shutdownable.
func (h *HubHandle) Shutdown() error {
	h.CloseAll()
	return nil
}

// ProvideHub provides the websocket client hub.
func ProvideHub(i do.Injector) (*HubHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	return &HubHandle{Hub: realtime.NewHub(log.Logger)}, nil
}

// ProvideDispatcher provides the websocket message dispatcher.
func ProvideDispatcher(i do.Injector) (*realtime.Dispatcher, error) {
	cfg := do.MustInvoke[*config.Config](i)
	hubHandle := do.MustInvoke[*HubHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	resolver := do.MustInvoke[*mood.Resolver](i)
	reconciler := do.MustInvoke[*syncbuf.Reconciler](i)
	settingsService := do.MustInvoke[*service.SettingsService](i)
	signer := do.MustInvoke[*signedurl.Signer](i)
	log := do.MustInvoke[*logger.Logger](i)

	limiter := ratelimit.New(cfg.Realtime.MessageRate, cfg.Realtime.MessageBurst)

	return realtime.NewDispatcher(
		hubHandle.Hub,
		storeHandle.Store,
		resolver,
		reconciler,
		settingsService,
		signer,
		limiter,
		log.Logger,
	), nil
}

// ProvideRealtimeHandler provides the websocket upgrade endpoint.
func ProvideRealtimeHandler(i do.Injector) (*realtime.Handler, error) {
	cfg := do.MustInvoke[*config.Config](i)
	hubHandle := do.MustInvoke[*HubHandle](i)
	dispatcher := do.MustInvoke[*realtime.Dispatcher](i)
	authService := do.MustInvoke[*service.AuthService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return realtime.NewHandler(
		hubHandle.Hub,
		dispatcher,
		authService,
		cfg.Realtime,
		cfg.Server.CORSOrigin,
		log.Logger,
	), nil
}
