// Package store provides Badger-backed persistence for the BookSphere
// server: users, mood references, presets, trigger rules, and mood-map
// breakpoints. The volatile sync buffers live elsewhere (internal/syncbuf);
// this package holds only durable data.
package store

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/booksphere/booksphere-server/internal/domain"
)

// Store wraps a Badger database instance and exposes typed entity stores.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	Users       *Entity[domain.User]
	Moods       *Entity[domain.Mood]
	Backgrounds *Entity[domain.Background]
	Presets     *Entity[domain.Preset]
	Triggers    *Entity[domain.Trigger]
	MapEntries  *Entity[domain.MapEntry]
	Audit       *Entity[domain.AuditEntry]
}

// New creates a new Store instance at the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Sync writes to disk to survive crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		db:     db,
		logger: logger,
	}

	s.Users = NewEntity[domain.User](s, "user:").
		WithUniqueIndex("email", func(u *domain.User) string { return u.Email })
	s.Moods = NewEntity[domain.Mood](s, "mood:").
		WithUniqueIndex("name", func(m *domain.Mood) string { return m.Name })
	s.Backgrounds = NewEntity[domain.Background](s, "bg:").
		WithIndex("mood", func(b *domain.Background) string { return b.MoodID })
	s.Presets = NewEntity[domain.Preset](s, "preset:").
		WithIndex("book", func(p *domain.Preset) string { return p.BookID }).
		WithIndex("creator", func(p *domain.Preset) string { return p.CreatorID })
	s.Triggers = NewEntity[domain.Trigger](s, "trigger:").
		WithIndex("preset", func(t *domain.Trigger) string { return t.PresetID })
	s.MapEntries = NewEntity[domain.MapEntry](s, "mapentry:").
		WithIndex("preset", func(e *domain.MapEntry) string { return e.PresetID })
	s.Audit = NewEntity[domain.AuditEntry](s, "audit:").
		WithIndex("user", func(a *domain.AuditEntry) string { return a.UserID })

	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.logger.Info("closing store")
	return s.db.Close()
}

// RunGC triggers a Badger value log garbage collection pass. Safe to call
// periodically from a background job; returns badger.ErrNoRewrite when
// nothing needed collecting.
func (s *Store) RunGC() error {
	return s.db.RunValueLogGC(0.5)
}

// StartGCLoop runs value log GC on the given interval until stop is closed.
func (s *Store) StartGCLoop(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.RunGC(); err != nil && err != badger.ErrNoRewrite {
				s.logger.Warn("badger gc failed", "error", err)
			}
		case <-stop:
			return
		}
	}
}
