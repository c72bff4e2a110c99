package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/booksphere/booksphere-server/internal/domain"
	"github.com/booksphere/booksphere-server/internal/id"
	"github.com/booksphere/booksphere-server/internal/store"
)

func seedTrigger(t *testing.T, s *store.Store, presetID string, priority int, active bool, rng *domain.PageRange) *domain.Trigger {
	t.Helper()
	trig := &domain.Trigger{
		PresetID: presetID,
		MoodID:   "mood-1",
		IsActive: active,
		Priority: priority,
		Condition: domain.TriggerCondition{
			PageRange: rng,
		},
	}
	trig.ID = id.MustGenerate("trig")
	require.NoError(t, s.CreateTrigger(context.Background(), trig))
	return trig
}

func TestTriggersForPreset_OrderAndFiltering(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	preset := newPreset("book-1", false)
	require.NoError(t, s.CreatePreset(ctx, preset))

	low := seedTrigger(t, s, preset.ID, 1, true, nil)
	seedTrigger(t, s, preset.ID, 5, false, nil) // inactive, filtered out
	high := seedTrigger(t, s, preset.ID, 9, true, nil)

	triggers, err := s.TriggersForPreset(ctx, preset.ID)
	require.NoError(t, err)
	require.Len(t, triggers, 2)
	require.Equal(t, low.ID, triggers[0].ID)
	require.Equal(t, high.ID, triggers[1].ID)
}

func TestTriggersForPreset_UnknownPresetEmpty(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	triggers, err := s.TriggersForPreset(context.Background(), "preset-missing")
	require.NoError(t, err)
	require.Empty(t, triggers)
}

func TestTriggerForPosition_PageRangeMatch(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	preset := newPreset("book-1", false)
	require.NoError(t, s.CreatePreset(ctx, preset))

	early := seedTrigger(t, s, preset.ID, 1, true, &domain.PageRange{From: 1, To: 50})
	late := seedTrigger(t, s, preset.ID, 2, true, &domain.PageRange{From: 51, To: 100})

	got, err := s.TriggerForPosition(ctx, preset.ID, 30)
	require.NoError(t, err)
	require.Equal(t, early.ID, got.ID)

	got, err = s.TriggerForPosition(ctx, preset.ID, 51)
	require.NoError(t, err)
	require.Equal(t, late.ID, got.ID)

	_, err = s.TriggerForPosition(ctx, preset.ID, 200)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTriggerForPosition_NilRangeMatchesEverywhere(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	preset := newPreset("book-1", false)
	require.NoError(t, s.CreatePreset(ctx, preset))

	universal := seedTrigger(t, s, preset.ID, 5, true, nil)

	got, err := s.TriggerForPosition(ctx, preset.ID, 9999)
	require.NoError(t, err)
	require.Equal(t, universal.ID, got.ID)
}

func TestCreateTrigger_RequiresPreset(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	trig := &domain.Trigger{PresetID: "preset-missing", MoodID: "mood-1", IsActive: true}
	trig.ID = id.MustGenerate("trig")

	err := s.CreateTrigger(context.Background(), trig)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateTrigger_DefaultsTransitionDuration(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	preset := newPreset("book-1", false)
	require.NoError(t, s.CreatePreset(ctx, preset))

	trig := seedTrigger(t, s, preset.ID, 1, true, nil)

	got, err := s.GetTrigger(ctx, trig.ID)
	require.NoError(t, err)
	require.Equal(t, domain.DefaultTransitionDurationMs, got.TransitionDurationMs)
}
