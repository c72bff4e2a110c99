package syncbuf_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booksphere/booksphere-server/internal/domain"
	"github.com/booksphere/booksphere-server/internal/syncbuf"
)

func event(userID string, n int) domain.SyncEvent {
	return domain.SyncEvent{
		ID:        fmt.Sprintf("evt-%d", n),
		Type:      domain.SyncEventProgress,
		Timestamp: int64(1000 + n),
		UserID:    userID,
	}
}

func TestMemoryStore_RecordAndDelta(t *testing.T) {
	buf := syncbuf.NewMemoryStore(0)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, buf.Record(ctx, event("user-1", i)))
	}

	// Everything after timestamp 1002
	delta, err := buf.Delta(ctx, "user-1", 1002, 99999)
	require.NoError(t, err)
	require.Len(t, delta.Events, 3)
	assert.Equal(t, "evt-3", delta.Events[0].ID)
	assert.Equal(t, int64(99999), delta.LastSyncTime)

	// No event at or below the sync point comes back
	for _, ev := range delta.Events {
		assert.Greater(t, ev.Timestamp, int64(1002))
	}
}

func TestMemoryStore_DeltaSinceZeroReturnsAll(t *testing.T) {
	buf := syncbuf.NewMemoryStore(0)
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		require.NoError(t, buf.Record(ctx, event("user-1", i)))
	}

	delta, err := buf.Delta(ctx, "user-1", 0, 99999)
	require.NoError(t, err)
	assert.Len(t, delta.Events, 10)
}

func TestMemoryStore_CapacityEvictsOldestFirst(t *testing.T) {
	buf := syncbuf.NewMemoryStore(1000)
	ctx := context.Background()

	for i := 1; i <= 1200; i++ {
		require.NoError(t, buf.Record(ctx, event("user-1", i)))
	}

	stats, err := buf.Stats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1000, stats.EventCount)

	// The 200 oldest events are gone; the most recent 1000 remain
	delta, err := buf.Delta(ctx, "user-1", 0, 99999)
	require.NoError(t, err)
	require.Len(t, delta.Events, 1000)
	assert.Equal(t, "evt-201", delta.Events[0].ID)
	assert.Equal(t, "evt-1200", delta.Events[999].ID)
}

func TestMemoryStore_BuffersAreIsolatedPerUser(t *testing.T) {
	buf := syncbuf.NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, buf.Record(ctx, event("user-1", 1)))
	require.NoError(t, buf.Record(ctx, event("user-2", 2)))

	delta, err := buf.Delta(ctx, "user-1", 0, 99999)
	require.NoError(t, err)
	require.Len(t, delta.Events, 1)
	assert.Equal(t, "evt-1", delta.Events[0].ID)
}

func TestMemoryStore_Stats(t *testing.T) {
	buf := syncbuf.NewMemoryStore(0)
	ctx := context.Background()

	stats, err := buf.Stats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, syncbuf.Stats{}, stats)

	for _, n := range []int{5, 2, 9} {
		require.NoError(t, buf.Record(ctx, event("user-1", n)))
	}

	stats, err = buf.Stats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.EventCount)
	assert.Equal(t, int64(1002), stats.OldestEvent)
	assert.Equal(t, int64(1009), stats.NewestEvent)
}

func TestMemoryStore_Clear(t *testing.T) {
	buf := syncbuf.NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, buf.Record(ctx, event("user-1", 1)))
	require.NoError(t, buf.Clear(ctx, "user-1"))

	stats, err := buf.Stats(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, stats.EventCount)
}
