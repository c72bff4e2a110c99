// Package syncbuf holds the volatile per-user reconciliation buffers.
// Events live only in process memory: a restart empties every buffer and
// clients are expected to tolerate the resulting gap.
package syncbuf

import (
	"context"
	"sync"

	"github.com/booksphere/booksphere-server/internal/domain"
)

// DefaultCapacity is the per-user event cap when none is configured.
const DefaultCapacity = 1000

// Stats summarizes one user's buffer.
type Stats struct {
	EventCount  int   `json:"event_count"`
	OldestEvent int64 `json:"oldest_event,omitempty"`
	NewestEvent int64 `json:"newest_event,omitempty"`
}

// Delta is the reconciliation answer for a client: every buffered event
// newer than its last sync point, plus the server time to use as the next
// sync point.
type Delta struct {
	Events       []domain.SyncEvent `json:"events"`
	LastSyncTime int64              `json:"last_sync_timestamp"`
}

// Store buffers sync events per user. Implementations must be safe for
// concurrent use.
type Store interface {
	Record(ctx context.Context, event domain.SyncEvent) error
	Delta(ctx context.Context, userID string, sinceMillis int64, nowMillis int64) (Delta, error)
	Stats(ctx context.Context, userID string) (Stats, error)
	Clear(ctx context.Context, userID string) error
}

// MemoryStore is the in-memory Store: one bounded FIFO slice per user.
// Oldest events are evicted first once the cap is reached.
type MemoryStore struct {
	mu       sync.RWMutex
	capacity int
	events   map[string][]domain.SyncEvent
}

// NewMemoryStore creates a MemoryStore with the given per-user capacity.
// A capacity of zero or less falls back to DefaultCapacity.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{
		capacity: capacity,
		events:   make(map[string][]domain.SyncEvent),
	}
}

// Record appends an event to the user's buffer, evicting the oldest
// entries past the capacity.
func (m *MemoryStore) Record(ctx context.Context, event domain.SyncEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	buf := append(m.events[event.UserID], event)
	if overflow := len(buf) - m.capacity; overflow > 0 {
		buf = buf[overflow:]
	}
	m.events[event.UserID] = buf
	return nil
}

// Delta returns the user's events strictly newer than sinceMillis. The
// returned slice is a copy; callers may mutate it freely.
func (m *MemoryStore) Delta(ctx context.Context, userID string, sinceMillis int64, nowMillis int64) (Delta, error) {
	if err := ctx.Err(); err != nil {
		return Delta{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.SyncEvent
	for _, ev := range m.events[userID] {
		if ev.Timestamp > sinceMillis {
			out = append(out, ev)
		}
	}
	if out == nil {
		out = []domain.SyncEvent{}
	}

	return Delta{Events: out, LastSyncTime: nowMillis}, nil
}

// Stats reports the user's buffer size and timestamp extremes.
func (m *MemoryStore) Stats(ctx context.Context, userID string) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	buf := m.events[userID]
	if len(buf) == 0 {
		return Stats{}, nil
	}

	stats := Stats{
		EventCount:  len(buf),
		OldestEvent: buf[0].Timestamp,
		NewestEvent: buf[0].Timestamp,
	}
	for _, ev := range buf[1:] {
		if ev.Timestamp < stats.OldestEvent {
			stats.OldestEvent = ev.Timestamp
		}
		if ev.Timestamp > stats.NewestEvent {
			stats.NewestEvent = ev.Timestamp
		}
	}
	return stats, nil
}

// Clear drops the user's entire buffer.
func (m *MemoryStore) Clear(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.events, userID)
	return nil
}
