package realtime

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"

	"github.com/booksphere/booksphere-server/internal/domain"
	"github.com/booksphere/booksphere-server/internal/mood"
	"github.com/booksphere/booksphere-server/internal/ratelimit"
	"github.com/booksphere/booksphere-server/internal/service"
	"github.com/booksphere/booksphere-server/internal/signedurl"
	"github.com/booksphere/booksphere-server/internal/store"
	"github.com/booksphere/booksphere-server/internal/syncbuf"
	"github.com/booksphere/booksphere-server/internal/validation"
)

var validate = validation.New()

// Dispatcher routes inbound envelopes to their handlers. Handler failures
// are reported to the client as error messages; the connection stays up.
type Dispatcher struct {
	hub        *Hub
	store      *store.Store
	resolver   *mood.Resolver
	reconciler *syncbuf.Reconciler
	settings   *service.SettingsService
	signer     *signedurl.Signer
	limiter    *ratelimit.KeyedRateLimiter
	logger     *slog.Logger
}

// NewDispatcher wires the message pipeline.
func NewDispatcher(
	hub *Hub,
	s *store.Store,
	resolver *mood.Resolver,
	reconciler *syncbuf.Reconciler,
	settings *service.SettingsService,
	signer *signedurl.Signer,
	limiter *ratelimit.KeyedRateLimiter,
	logger *slog.Logger,
) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		hub:        hub,
		store:      s,
		resolver:   resolver,
		reconciler: reconciler,
		settings:   settings,
		signer:     signer,
		limiter:    limiter,
		logger:     logger,
	}
}

// Dispatch handles one inbound envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, c *Client, env Envelope) {
	switch env.Type {
	case MsgProgressUpdate:
		d.handleProgress(ctx, c, env)
	case MsgRoomJoin:
		d.handleRoomJoin(c, env)
	case MsgRoomLeave:
		d.handleRoomLeave(c, env)
	case MsgSettingsUpdate:
		d.handleSettingsUpdate(ctx, c, env)
	case MsgSyncEvent:
		d.handleSyncEvent(ctx, c, env)
	case MsgSyncStatusRequest:
		d.handleSyncStatusRequest(ctx, c)
	case MsgSyncRecover:
		d.handleSyncRecover(ctx, c, env)
	case MsgPing:
		d.hub.Send(c, MsgPong, struct{}{})
	default:
		d.hub.SendError(c, fmt.Sprintf("unknown message type %q", env.Type), "UNKNOWN_TYPE")
	}
}

// handleProgress is the trigger pipeline: validate the position, look up
// the user's sensitivity, resolve the mood, and fan the trigger out to the
// originator and their book room. The progress event is also buffered for
// reconciliation.
func (d *Dispatcher) handleProgress(ctx context.Context, c *Client, env Envelope) {
	var req ProgressUpdate
	if !d.decode(c, env, &req, "PROGRESS_UPDATE_ERROR") {
		return
	}

	// Settings may have changed on another device since connect.
	sensitivity := 1.0
	user, err := d.store.GetUser(ctx, c.User.ID)
	if err != nil {
		d.logger.Warn("settings lookup failed, using default sensitivity",
			"user_id", c.User.ID, "error", err)
	} else {
		sensitivity = user.Settings.MoodSensitivity
	}

	outcome, err := d.resolver.Resolve(ctx, req.PresetID, req.Chapter, req.PageFraction, domain.GenreElectronic, sensitivity)
	if err != nil {
		d.logger.Error("mood resolution failed",
			"user_id", c.User.ID, "preset_id", req.PresetID, "error", err)
		d.hub.SendError(c, "failed to process progress update", "PROGRESS_UPDATE_ERROR")
		return
	}

	if outcome != nil {
		trigger := MoodTrigger{
			MoodName:       outcome.Mood.Name,
			Tempo:          outcome.Tempo,
			TransitionType: outcome.TransitionType,
			Timestamp:      nowMillis(),
		}
		if outcome.Background != nil {
			trigger.BackgroundImageURL = d.signer.Sign(outcome.Background.Path, c.User.ID)
		}

		d.hub.Send(c, MsgMoodTrigger, trigger)
		d.hub.Broadcast(RoomName(req.BookID), MsgMoodTrigger, trigger, c)

		d.auditTrigger(ctx, c.User.ID, req, outcome)

		// Other devices learn about the trigger through delta sync.
		d.record(ctx, c.User.ID, domain.SyncEvent{
			ID:        fmt.Sprintf("%s-trigger-%d", c.User.ID, trigger.Timestamp),
			Type:      domain.SyncEventMoodTrigger,
			Timestamp: trigger.Timestamp,
			BookID:    req.BookID,
			PresetID:  req.PresetID,
			Data: map[string]any{
				"mood":                 outcome.Mood.Name,
				"tempo":                outcome.Tempo,
				"transition_type":      outcome.TransitionType,
				"background_image_url": trigger.BackgroundImageURL,
			},
		})
	}

	d.record(ctx, c.User.ID, domain.SyncEvent{
		ID:        fmt.Sprintf("%s-%d", c.User.ID, nowMillis()),
		Type:      domain.SyncEventProgress,
		Timestamp: nonZeroMillis(req.Timestamp),
		BookID:    req.BookID,
		PresetID:  req.PresetID,
		Data: map[string]any{
			"chapter":       req.Chapter,
			"page_fraction": req.PageFraction,
		},
	})

	d.appendAudit(ctx, &domain.AuditEntry{
		UserID:     c.User.ID,
		Action:     domain.AuditReadingProgress,
		EntityType: "book",
		EntityID:   req.BookID,
		Details: map[string]any{
			"preset_id":     req.PresetID,
			"chapter":       req.Chapter,
			"page_fraction": req.PageFraction,
		},
	})
}

func (d *Dispatcher) handleRoomJoin(c *Client, env Envelope) {
	var req RoomJoin
	if !d.decode(c, env, &req, "ROOM_JOIN_ERROR") {
		return
	}
	d.hub.Join(c, req.BookID)
}

func (d *Dispatcher) handleRoomLeave(c *Client, env Envelope) {
	var req RoomLeave
	if !d.decode(c, env, &req, "ROOM_LEAVE_ERROR") {
		return
	}
	d.hub.Leave(c, req.BookID)
}

func (d *Dispatcher) handleSettingsUpdate(ctx context.Context, c *Client, env Envelope) {
	var req SettingsUpdate
	if !d.decode(c, env, &req, "SETTINGS_UPDATE_ERROR") {
		return
	}

	settings, err := d.settings.UpdateSettings(ctx, c.User.ID, service.UpdateSettingsRequest{
		MoodSensitivity:   req.MoodSensitivity,
		MusicVolume:       req.MusicVolume,
		DynamicBackground: req.DynamicBackground,
		Theme:             req.Theme,
	})
	if err != nil {
		d.logger.Error("settings update failed", "user_id", c.User.ID, "error", err)
		d.hub.SendError(c, "failed to update settings", "SETTINGS_UPDATE_ERROR")
		return
	}
	c.User.Settings = settings

	d.record(ctx, c.User.ID, domain.SyncEvent{
		ID:        fmt.Sprintf("%s-settings-%d", c.User.ID, nowMillis()),
		Type:      domain.SyncEventSettingsChange,
		Timestamp: nowMillis(),
		Data: map[string]any{
			"mood_sensitivity":   settings.MoodSensitivity,
			"music_volume":       settings.MusicVolume,
			"dynamic_background": settings.DynamicBackground,
			"theme":              settings.Theme,
		},
	})

	d.hub.Send(c, MsgSyncStatus, SyncStatus{
		Status:    SyncStatusSyncing,
		Message:   "settings updated",
		Timestamp: nowMillis(),
	})
}

func (d *Dispatcher) handleSyncEvent(ctx context.Context, c *Client, env Envelope) {
	var ev domain.SyncEvent
	if err := json.Unmarshal(env.Data, &ev); err != nil {
		d.hub.SendError(c, "malformed sync event", "SYNC_EVENT_ERROR")
		return
	}

	// Fill the fields optimistic clients leave out.
	if ev.ID == "" {
		ev.ID = fmt.Sprintf("%s-%d", c.User.ID, nowMillis())
	}
	ev.Timestamp = nonZeroMillis(ev.Timestamp)

	if err := d.reconciler.Record(ctx, c.User.ID, ev); err != nil {
		d.logger.Error("sync event buffering failed", "user_id", c.User.ID, "error", err)
		d.sendSyncError(c, "failed to process sync event")
		return
	}

	d.hub.Send(c, MsgSyncStatus, SyncStatus{
		Status:    SyncStatusSyncing,
		Message:   "event synchronized",
		Timestamp: nowMillis(),
	})
}

func (d *Dispatcher) handleSyncStatusRequest(ctx context.Context, c *Client) {
	stats, err := d.reconciler.Stats(ctx, c.User.ID)
	if err != nil {
		d.sendSyncError(c, "failed to get sync status")
		return
	}

	d.hub.Send(c, MsgSyncStatus, SyncStatus{
		Status:    SyncStatusConnected,
		Message:   fmt.Sprintf("%d events pending", stats.EventCount),
		Timestamp: nowMillis(),
	})
}

func (d *Dispatcher) handleSyncRecover(ctx context.Context, c *Client, env Envelope) {
	var req SyncRecover
	if !d.decode(c, env, &req, "SYNC_RECOVERY_ERROR") {
		return
	}

	delta, err := d.reconciler.Delta(ctx, c.User.ID, req.LastSyncTimestamp)
	if err != nil {
		d.logger.Error("sync recovery failed", "user_id", c.User.ID, "error", err)
		d.sendSyncError(c, "failed to recover sync data")
		return
	}

	d.hub.Send(c, MsgSyncRecovery, SyncRecovery{
		Events:    delta.Events,
		Timestamp: delta.LastSyncTime,
	})

	d.logger.Debug("sync recovery completed",
		"user_id", c.User.ID,
		"since", req.LastSyncTimestamp,
		"recovered", len(delta.Events),
	)
}

// decode unmarshals and validates an inbound payload, reporting failures
// to the client. Returns false when the message should be discarded.
func (d *Dispatcher) decode(c *Client, env Envelope, out any, errCode string) bool {
	if err := json.Unmarshal(env.Data, out); err != nil {
		d.hub.SendError(c, "malformed payload", errCode)
		return false
	}
	if err := validate.Validate(out); err != nil {
		d.hub.SendError(c, err.Error(), errCode)
		return false
	}
	return true
}

// record buffers a server-derived event for delta sync. Buffering failures
// are logged; the triggering operation already succeeded.
func (d *Dispatcher) record(ctx context.Context, userID string, ev domain.SyncEvent) {
	if err := d.reconciler.Record(ctx, userID, ev); err != nil {
		d.logger.Warn("sync event buffering failed",
			"user_id", userID, "type", ev.Type, "error", err)
	}
}

// sendSyncError reports a failed sync operation through the sync status
// channel.
func (d *Dispatcher) sendSyncError(c *Client, message string) {
	d.hub.Send(c, MsgSyncStatus, SyncStatus{
		Status:    SyncStatusError,
		Message:   message,
		Timestamp: nowMillis(),
	})
}

func (d *Dispatcher) auditTrigger(ctx context.Context, userID string, req ProgressUpdate, outcome *mood.TriggerOutcome) {
	d.appendAudit(ctx, &domain.AuditEntry{
		UserID:     userID,
		Action:     domain.AuditMoodTriggered,
		EntityType: "preset",
		EntityID:   req.PresetID,
		Details: map[string]any{
			"book_id":       req.BookID,
			"chapter":       req.Chapter,
			"page_fraction": req.PageFraction,
			"mood":          outcome.Mood.Name,
			"tempo":         outcome.Tempo,
			"transition":    outcome.TransitionType,
		},
	})
}

func (d *Dispatcher) appendAudit(ctx context.Context, entry *domain.AuditEntry) {
	if err := d.store.AppendAudit(ctx, entry); err != nil {
		d.logger.Warn("audit append failed", "action", entry.Action, "error", err)
	}
}

func nonZeroMillis(ts int64) int64 {
	if ts != 0 {
		return ts
	}
	return nowMillis()
}
