package providers

import (
	"path/filepath"
	"time"

	"github.com/samber/do/v2"

	"github.com/booksphere/booksphere-server/internal/config"
	"github.com/booksphere/booksphere-server/internal/logger"
	"github.com/booksphere/booksphere-server/internal/store"
)

// badgerGCInterval is how often value log garbage collection runs.
const badgerGCInterval = 10 * time.Minute

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
	stopGC chan struct{}
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	close(h.stopGC)
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "db")
	db, err := store.New(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	stopGC := make(chan struct{})
	go db.StartGCLoop(badgerGCInterval, stopGC)

	return &StoreHandle{Store: db, stopGC: stopGC}, nil
}
