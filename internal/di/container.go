// Package di provides dependency injection configuration for the BookSphere server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/booksphere/booksphere-server/internal/auth"
	"github.com/booksphere/booksphere-server/internal/config"
	"github.com/booksphere/booksphere-server/internal/di/providers"
	"github.com/booksphere/booksphere-server/internal/logger"
	"github.com/booksphere/booksphere-server/internal/mood"
	"github.com/booksphere/booksphere-server/internal/realtime"
	"github.com/booksphere/booksphere-server/internal/service"
	"github.com/booksphere/booksphere-server/internal/signedurl"
	"github.com/booksphere/booksphere-server/internal/syncbuf"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideSigner)

	// Domain engines
	do.Provide(injector, providers.ProvideResolver)
	do.Provide(injector, providers.ProvideSyncBuffer)
	do.Provide(injector, providers.ProvideReconciler)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvidePresetService)
	do.Provide(injector, providers.ProvideMoodService)
	do.Provide(injector, providers.ProvideSettingsService)
	do.Provide(injector, providers.ProvideSyncService)

	// Realtime layer
	do.Provide(injector, providers.ProvideHub)
	do.Provide(injector, providers.ProvideDispatcher)
	do.Provide(injector, providers.ProvideRealtimeHandler)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*signedurl.Signer](injector)
	_ = do.MustInvoke[*mood.Resolver](injector)
	_ = do.MustInvoke[*syncbuf.MemoryStore](injector)
	_ = do.MustInvoke[*syncbuf.Reconciler](injector)

	// Business services
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.PresetService](injector)
	_ = do.MustInvoke[*service.MoodService](injector)
	_ = do.MustInvoke[*service.SettingsService](injector)
	_ = do.MustInvoke[*service.SyncService](injector)

	// Realtime layer
	_ = do.MustInvoke[*providers.HubHandle](injector)
	_ = do.MustInvoke[*realtime.Dispatcher](injector)
	_ = do.MustInvoke[*realtime.Handler](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
