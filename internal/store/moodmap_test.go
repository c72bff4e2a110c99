package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/booksphere/booksphere-server/internal/domain"
	"github.com/booksphere/booksphere-server/internal/id"
	"github.com/booksphere/booksphere-server/internal/store"
)

func seedMapEntry(t *testing.T, s *store.Store, presetID string, chapter int, frac float64, moodID string) *domain.MapEntry {
	t.Helper()
	entry := &domain.MapEntry{
		PresetID:     presetID,
		Chapter:      chapter,
		PageFraction: frac,
		MoodID:       moodID,
	}
	entry.ID = id.MustGenerate("map")
	require.NoError(t, s.CreateMapEntry(context.Background(), entry))
	return entry
}

func TestFindMapEntryForProgress_LatestNotAfter(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	preset := newPreset("book-1", false)
	require.NoError(t, s.CreatePreset(ctx, preset))

	seedMapEntry(t, s, preset.ID, 1, 0.0, "mood-calm")
	seedMapEntry(t, s, preset.ID, 3, 0.5, "mood-tense")
	seedMapEntry(t, s, preset.ID, 7, 0.0, "mood-joy")

	cases := []struct {
		chapter int
		frac    float64
		want    string
	}{
		{1, 0.0, "mood-calm"},  // exactly on the first breakpoint
		{2, 0.9, "mood-calm"},  // between first and second
		{3, 0.5, "mood-tense"}, // exactly on the second
		{3, 0.4, "mood-calm"},  // same chapter, before the fraction
		{5, 0.0, "mood-tense"}, // later chapter, before the third
		{9, 0.2, "mood-joy"},   // past everything
	}

	for _, tc := range cases {
		entry, err := s.FindMapEntryForProgress(ctx, preset.ID, tc.chapter, tc.frac)
		require.NoError(t, err)
		require.Equal(t, tc.want, entry.MoodID, "chapter=%d frac=%v", tc.chapter, tc.frac)
	}
}

func TestFindMapEntryForProgress_BeforeFirstBreakpoint(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	preset := newPreset("book-1", false)
	require.NoError(t, s.CreatePreset(ctx, preset))

	seedMapEntry(t, s, preset.ID, 3, 0.0, "mood-tense")

	_, err := s.FindMapEntryForProgress(ctx, preset.ID, 1, 0.5)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMapEntriesForPreset_Ordering(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	preset := newPreset("book-1", false)
	require.NoError(t, s.CreatePreset(ctx, preset))

	// Insert out of order
	seedMapEntry(t, s, preset.ID, 5, 0.0, "c")
	seedMapEntry(t, s, preset.ID, 1, 0.7, "b")
	seedMapEntry(t, s, preset.ID, 1, 0.2, "a")

	entries, err := s.MapEntriesForPreset(ctx, preset.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "a", entries[0].MoodID)
	require.Equal(t, "b", entries[1].MoodID)
	require.Equal(t, "c", entries[2].MoodID)
}
