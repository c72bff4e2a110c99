package realtime

import (
	"context"
	"crypto/rand"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booksphere/booksphere-server/internal/domain"
	"github.com/booksphere/booksphere-server/internal/id"
	"github.com/booksphere/booksphere-server/internal/mood"
	"github.com/booksphere/booksphere-server/internal/ratelimit"
	"github.com/booksphere/booksphere-server/internal/service"
	"github.com/booksphere/booksphere-server/internal/signedurl"
	"github.com/booksphere/booksphere-server/internal/store"
	"github.com/booksphere/booksphere-server/internal/syncbuf"
)

type dispatchFixture struct {
	hub        *Hub
	dispatcher *Dispatcher
	store      *store.Store
}

func setupDispatcher(t *testing.T) (*dispatchFixture, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "dispatch-test-*")
	require.NoError(t, err)

	s, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)
	signer, err := signedurl.NewSigner(key, time.Hour)
	require.NoError(t, err)

	logger := slog.Default()
	hub := NewHub(logger)
	resolver := mood.NewResolver(s, logger)
	reconciler := syncbuf.NewReconciler(syncbuf.NewMemoryStore(0), s, logger)
	settings := service.NewSettingsService(s, logger)
	limiter := ratelimit.New(100, 100)

	d := NewDispatcher(hub, s, resolver, reconciler, settings, signer, limiter, logger)

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}
	return &dispatchFixture{hub: hub, dispatcher: d, store: s}, cleanup
}

func (f *dispatchFixture) connect(t *testing.T, username string) *Client {
	t.Helper()
	u := &domain.User{
		Email:    username + "@example.com",
		Username: username,
		Role:     domain.RoleReader,
		Settings: domain.DefaultUserSettings(),
	}
	u.ID = id.MustGenerate("user")
	require.NoError(t, f.store.CreateUser(context.Background(), u))

	c := &Client{
		ID:   id.MustGenerate("ws"),
		User: u,
		send: make(chan []byte, 32),
	}
	f.hub.Register(c)
	return c
}

func (f *dispatchFixture) seedMoodMap(t *testing.T) (*domain.Preset, *domain.Mood) {
	t.Helper()
	ctx := context.Background()

	m := &domain.Mood{
		Name:            "tense",
		TempoElectronic: 140,
		TempoClassical:  120,
		TempoLofi:       100,
	}
	m.ID = id.MustGenerate("mood")
	require.NoError(t, f.store.CreateMood(ctx, m))

	p := &domain.Preset{CreatorID: "user-x", BookID: "book-42", Name: "test"}
	p.ID = id.MustGenerate("preset")
	require.NoError(t, f.store.CreatePreset(ctx, p))

	entry := &domain.MapEntry{PresetID: p.ID, Chapter: 1, PageFraction: 0.0, MoodID: m.ID}
	entry.ID = id.MustGenerate("map")
	require.NoError(t, f.store.CreateMapEntry(ctx, entry))

	return p, m
}

func envelope(t *testing.T, msgType string, payload any) Envelope {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return Envelope{Type: msgType, Data: jsontext.Value(data)}
}

func TestDispatch_ProgressUpdateTriggersMood(t *testing.T) {
	f, cleanup := setupDispatcher(t)
	defer cleanup()
	ctx := context.Background()

	preset, _ := f.seedMoodMap(t)

	reader := f.connect(t, "reader")
	listener := f.connect(t, "listener")
	f.hub.Join(reader, "book-42")
	f.hub.Join(listener, "book-42")
	drain(t, reader)
	drain(t, listener)

	f.dispatcher.Dispatch(ctx, reader, envelope(t, MsgProgressUpdate, ProgressUpdate{
		BookID:       "book-42",
		PresetID:     preset.ID,
		Chapter:      2,
		PageFraction: 0.5,
		Timestamp:    nowMillis(),
	}))

	// Originator gets the trigger
	envs := drain(t, reader)
	require.Len(t, envs, 1)
	require.Equal(t, MsgMoodTrigger, envs[0].Type)

	var trigger MoodTrigger
	require.NoError(t, json.Unmarshal(envs[0].Data, &trigger))
	assert.Equal(t, "tense", trigger.MoodName)
	assert.Equal(t, 140, trigger.Tempo)
	assert.Equal(t, "fade", trigger.TransitionType)

	// Room members get the same trigger
	envs = drain(t, listener)
	require.Len(t, envs, 1)
	assert.Equal(t, MsgMoodTrigger, envs[0].Type)
}

func TestDispatch_ProgressBeforeFirstBreakpointTriggersNothing(t *testing.T) {
	f, cleanup := setupDispatcher(t)
	defer cleanup()
	ctx := context.Background()

	// Mood map starts at chapter 5
	m := &domain.Mood{Name: "calm", TempoElectronic: 80, TempoClassical: 60, TempoLofi: 70}
	m.ID = id.MustGenerate("mood")
	require.NoError(t, f.store.CreateMood(ctx, m))
	p := &domain.Preset{CreatorID: "user-x", BookID: "book-42", Name: "test"}
	p.ID = id.MustGenerate("preset")
	require.NoError(t, f.store.CreatePreset(ctx, p))
	entry := &domain.MapEntry{PresetID: p.ID, Chapter: 5, MoodID: m.ID}
	entry.ID = id.MustGenerate("map")
	require.NoError(t, f.store.CreateMapEntry(ctx, entry))

	reader := f.connect(t, "reader")
	f.dispatcher.Dispatch(ctx, reader, envelope(t, MsgProgressUpdate, ProgressUpdate{
		BookID:       "book-42",
		PresetID:     p.ID,
		Chapter:      1,
		PageFraction: 0.5,
	}))

	// No trigger, no error; the progress is still buffered for sync
	assert.Empty(t, messageTypes(t, reader))

	delta, err := f.dispatcher.reconciler.Delta(ctx, reader.User.ID, 0)
	require.NoError(t, err)
	assert.Len(t, delta.Events, 1)
	assert.Equal(t, domain.SyncEventProgress, delta.Events[0].Type)
}

func TestDispatch_ProgressScalesTempoBySensitivity(t *testing.T) {
	f, cleanup := setupDispatcher(t)
	defer cleanup()
	ctx := context.Background()

	preset, _ := f.seedMoodMap(t)
	reader := f.connect(t, "reader")

	// Crank the stored sensitivity
	user, err := f.store.GetUser(ctx, reader.User.ID)
	require.NoError(t, err)
	user.Settings.MoodSensitivity = 1.5
	require.NoError(t, f.store.UpdateUser(ctx, user))

	f.dispatcher.Dispatch(ctx, reader, envelope(t, MsgProgressUpdate, ProgressUpdate{
		BookID:       "book-42",
		PresetID:     preset.ID,
		Chapter:      2,
		PageFraction: 0.5,
	}))

	envs := drain(t, reader)
	require.Len(t, envs, 1)
	var trigger MoodTrigger
	require.NoError(t, json.Unmarshal(envs[0].Data, &trigger))
	assert.Equal(t, 210, trigger.Tempo) // 140 * 1.5, not clamped
}

func TestDispatch_InvalidProgressPayload(t *testing.T) {
	f, cleanup := setupDispatcher(t)
	defer cleanup()

	reader := f.connect(t, "reader")

	// page_fraction out of range
	f.dispatcher.Dispatch(context.Background(), reader, envelope(t, MsgProgressUpdate, ProgressUpdate{
		BookID:       "book-42",
		PresetID:     "preset-1",
		Chapter:      1,
		PageFraction: 2.0,
	}))

	envs := drain(t, reader)
	require.Len(t, envs, 1)
	assert.Equal(t, MsgError, envs[0].Type)
}

func TestDispatch_SyncEventAndRecovery(t *testing.T) {
	f, cleanup := setupDispatcher(t)
	defer cleanup()
	ctx := context.Background()

	reader := f.connect(t, "reader")

	f.dispatcher.Dispatch(ctx, reader, envelope(t, MsgSyncEvent, domain.SyncEvent{
		ID:        "evt-1",
		Type:      domain.SyncEventProgress,
		Timestamp: 5000,
		BookID:    "book-42",
	}))

	envs := drain(t, reader)
	require.Len(t, envs, 1)
	assert.Equal(t, MsgSyncStatus, envs[0].Type)

	f.dispatcher.Dispatch(ctx, reader, envelope(t, MsgSyncRecover, SyncRecover{
		LastSyncTimestamp: 0,
	}))

	envs = drain(t, reader)
	require.Len(t, envs, 1)
	require.Equal(t, MsgSyncRecovery, envs[0].Type)

	var recovery SyncRecovery
	require.NoError(t, json.Unmarshal(envs[0].Data, &recovery))
	require.Len(t, recovery.Events, 1)
	assert.Equal(t, "evt-1", recovery.Events[0].ID)

	// Nothing at or before the returned sync point comes back again
	f.dispatcher.Dispatch(ctx, reader, envelope(t, MsgSyncRecover, SyncRecover{
		LastSyncTimestamp: recovery.Timestamp,
	}))
	envs = drain(t, reader)
	require.Len(t, envs, 1)
	require.NoError(t, json.Unmarshal(envs[0].Data, &recovery))
	assert.Empty(t, recovery.Events)
}

func TestDispatch_SyncEventFillsMissingFields(t *testing.T) {
	f, cleanup := setupDispatcher(t)
	defer cleanup()
	ctx := context.Background()

	reader := f.connect(t, "reader")

	f.dispatcher.Dispatch(ctx, reader, envelope(t, MsgSyncEvent, map[string]any{
		"type": "progress",
	}))
	drain(t, reader)

	delta, err := f.dispatcher.reconciler.Delta(ctx, reader.User.ID, 0)
	require.NoError(t, err)
	require.Len(t, delta.Events, 1)
	assert.NotEmpty(t, delta.Events[0].ID)
	assert.NotZero(t, delta.Events[0].Timestamp)
	assert.Equal(t, reader.User.ID, delta.Events[0].UserID)
}

func TestDispatch_SettingsUpdatePersistsAndClamps(t *testing.T) {
	f, cleanup := setupDispatcher(t)
	defer cleanup()
	ctx := context.Background()

	reader := f.connect(t, "reader")

	high := 9.0
	f.dispatcher.Dispatch(ctx, reader, envelope(t, MsgSettingsUpdate, SettingsUpdate{
		MoodSensitivity: &high,
	}))

	envs := drain(t, reader)
	require.Len(t, envs, 1)
	assert.Equal(t, MsgSyncStatus, envs[0].Type)

	user, err := f.store.GetUser(ctx, reader.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, user.Settings.MoodSensitivity)
}

func TestDispatch_StatusRequestReportsPending(t *testing.T) {
	f, cleanup := setupDispatcher(t)
	defer cleanup()
	ctx := context.Background()

	reader := f.connect(t, "reader")

	f.dispatcher.Dispatch(ctx, reader, envelope(t, MsgSyncStatusRequest, struct{}{}))

	envs := drain(t, reader)
	require.Len(t, envs, 1)
	require.Equal(t, MsgSyncStatus, envs[0].Type)

	var status SyncStatus
	require.NoError(t, json.Unmarshal(envs[0].Data, &status))
	assert.Equal(t, SyncStatusConnected, status.Status)
	assert.Equal(t, "0 events pending", status.Message)
}

func TestDispatch_PingPong(t *testing.T) {
	f, cleanup := setupDispatcher(t)
	defer cleanup()

	reader := f.connect(t, "reader")
	f.dispatcher.Dispatch(context.Background(), reader, Envelope{Type: MsgPing})

	assert.Equal(t, []string{MsgPong}, messageTypes(t, reader))
}

func TestDispatch_UnknownType(t *testing.T) {
	f, cleanup := setupDispatcher(t)
	defer cleanup()

	reader := f.connect(t, "reader")
	f.dispatcher.Dispatch(context.Background(), reader, Envelope{Type: "mood:banana"})

	envs := drain(t, reader)
	require.Len(t, envs, 1)
	assert.Equal(t, MsgError, envs[0].Type)
}

func TestDispatch_ProgressBuffersDerivedTriggerEvent(t *testing.T) {
	f, cleanup := setupDispatcher(t)
	defer cleanup()
	ctx := context.Background()

	preset, _ := f.seedMoodMap(t)
	reader := f.connect(t, "reader")

	f.dispatcher.Dispatch(ctx, reader, envelope(t, MsgProgressUpdate, ProgressUpdate{
		BookID:       "book-42",
		PresetID:     preset.ID,
		Chapter:      2,
		PageFraction: 0.5,
	}))

	// A collaborator's device recovering via delta sync sees the trigger,
	// not just the progress that caused it.
	delta, err := f.dispatcher.reconciler.Delta(ctx, reader.User.ID, 0)
	require.NoError(t, err)
	require.Len(t, delta.Events, 2)

	byType := make(map[domain.SyncEventType]domain.SyncEvent, len(delta.Events))
	for _, ev := range delta.Events {
		byType[ev.Type] = ev
	}
	require.Contains(t, byType, domain.SyncEventProgress)
	require.Contains(t, byType, domain.SyncEventMoodTrigger)

	trigger := byType[domain.SyncEventMoodTrigger]
	assert.Equal(t, "book-42", trigger.BookID)
	assert.Equal(t, preset.ID, trigger.PresetID)
	assert.Equal(t, "tense", trigger.Data["mood"])
	assert.Equal(t, 140, trigger.Data["tempo"])
	assert.Equal(t, "fade", trigger.Data["transition_type"])
}

func TestDispatch_SettingsUpdateRecordsSettingsChangeEvent(t *testing.T) {
	f, cleanup := setupDispatcher(t)
	defer cleanup()
	ctx := context.Background()

	reader := f.connect(t, "reader")

	high := 9.0
	volume := 30
	f.dispatcher.Dispatch(ctx, reader, envelope(t, MsgSettingsUpdate, SettingsUpdate{
		MoodSensitivity: &high,
		MusicVolume:     &volume,
	}))
	drain(t, reader)

	delta, err := f.dispatcher.reconciler.Delta(ctx, reader.User.ID, 0)
	require.NoError(t, err)
	require.Len(t, delta.Events, 1)

	ev := delta.Events[0]
	assert.Equal(t, domain.SyncEventSettingsChange, ev.Type)
	assert.Equal(t, 2.0, ev.Data["mood_sensitivity"], "the recorded value is the clamped one")
	assert.Equal(t, 30, ev.Data["music_volume"])
}

func TestDispatch_ProgressLeavesAuditTrail(t *testing.T) {
	f, cleanup := setupDispatcher(t)
	defer cleanup()
	ctx := context.Background()

	preset, _ := f.seedMoodMap(t)
	reader := f.connect(t, "reader")

	f.dispatcher.Dispatch(ctx, reader, envelope(t, MsgProgressUpdate, ProgressUpdate{
		BookID:       "book-42",
		PresetID:     preset.ID,
		Chapter:      2,
		PageFraction: 0.5,
	}))

	entries, err := f.store.AuditForUser(ctx, reader.User.ID, 0)
	require.NoError(t, err)

	actions := make([]string, 0, len(entries))
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	assert.Contains(t, actions, domain.AuditReadingProgress)
	assert.Contains(t, actions, domain.AuditMoodTriggered)
}

func TestDispatch_SyncEventWithoutTypeReportsSyncError(t *testing.T) {
	f, cleanup := setupDispatcher(t)
	defer cleanup()

	reader := f.connect(t, "reader")

	f.dispatcher.Dispatch(context.Background(), reader, envelope(t, MsgSyncEvent, map[string]any{
		"data": map[string]any{"chapter": 3},
	}))

	envs := drain(t, reader)
	require.Len(t, envs, 1)
	require.Equal(t, MsgSyncStatus, envs[0].Type)

	var status SyncStatus
	require.NoError(t, json.Unmarshal(envs[0].Data, &status))
	assert.Equal(t, SyncStatusError, status.Status)
}
