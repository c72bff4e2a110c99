package providers

import (
	"github.com/samber/do/v2"

	"github.com/booksphere/booksphere-server/internal/auth"
	"github.com/booksphere/booksphere-server/internal/config"
	"github.com/booksphere/booksphere-server/internal/logger"
	"github.com/booksphere/booksphere-server/internal/mood"
	"github.com/booksphere/booksphere-server/internal/service"
	"github.com/booksphere/booksphere-server/internal/signedurl"
	"github.com/booksphere/booksphere-server/internal/syncbuf"
)

// ProvideResolver provides the mood trigger resolver.
func ProvideResolver(i do.Injector) (*mood.Resolver, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return mood.NewResolver(storeHandle.Store, log.Logger), nil
}

// ProvideSyncBuffer provides the in-memory per-user sync event buffer.
func ProvideSyncBuffer(i do.Injector) (*syncbuf.MemoryStore, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return syncbuf.NewMemoryStore(cfg.Sync.BufferCapacity), nil
}

// ProvideReconciler provides the sync event reconciler shared by the HTTP
// and websocket transports.
func ProvideReconciler(i do.Injector) (*syncbuf.Reconciler, error) {
	buf := do.MustInvoke[*syncbuf.MemoryStore](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return syncbuf.NewReconciler(buf, storeHandle.Store, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvidePresetService provides the preset service.
func ProvidePresetService(i do.Injector) (*service.PresetService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPresetService(storeHandle.Store, log.Logger), nil
}

// ProvideMoodService provides the mood service.
func ProvideMoodService(i do.Injector) (*service.MoodService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	resolver := do.MustInvoke[*mood.Resolver](i)
	signer := do.MustInvoke[*signedurl.Signer](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMoodService(storeHandle.Store, resolver, signer, log.Logger), nil
}

// ProvideSettingsService provides the user settings service.
func ProvideSettingsService(i do.Injector) (*service.SettingsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSettingsService(storeHandle.Store, log.Logger), nil
}

// ProvideSyncService provides the sync service.
func ProvideSyncService(i do.Injector) (*service.SyncService, error) {
	reconciler := do.MustInvoke[*syncbuf.Reconciler](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSyncService(reconciler, log.Logger), nil
}
