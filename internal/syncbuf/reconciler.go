package syncbuf

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/booksphere/booksphere-server/internal/domain"
)

// Auditor records the audit side effects of sync processing. Satisfied by
// *store.Store.
type Auditor interface {
	AppendAudit(ctx context.Context, entry *domain.AuditEntry) error
}

// Reconciler processes client-submitted sync batches against the buffer
// and answers delta queries. One instance is shared by the websocket
// handlers and the HTTP sync surface so both see the same buffers.
type Reconciler struct {
	buf     Store
	auditor Auditor
	logger  *slog.Logger
}

// NewReconciler creates a Reconciler over the given buffer store.
func NewReconciler(buf Store, auditor Auditor, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{buf: buf, auditor: auditor, logger: logger}
}

// Record buffers a single event without batch validation. The event's
// UserID is forced to the authenticated user.
func (r *Reconciler) Record(ctx context.Context, userID string, event domain.SyncEvent) error {
	event.UserID = userID
	if !event.Valid() {
		return fmt.Errorf("sync event missing id, type, or timestamp")
	}
	return r.buf.Record(ctx, event)
}

// ProcessBatch validates and buffers a batch of client events. Malformed
// events are skipped with a warning rather than failing the batch; known
// event types additionally produce an audit record.
func (r *Reconciler) ProcessBatch(ctx context.Context, userID string, events []domain.SyncEvent) (int, error) {
	processed := 0
	for _, ev := range events {
		ev.UserID = userID
		if !ev.Valid() {
			r.logger.Warn("skipping invalid sync event",
				"user_id", userID, "event_id", ev.ID, "type", ev.Type)
			continue
		}

		if err := r.buf.Record(ctx, ev); err != nil {
			return processed, fmt.Errorf("record sync event: %w", err)
		}
		processed++

		r.audit(ctx, userID, ev)
	}

	r.logger.Info("sync batch processed",
		"user_id", userID, "received", len(events), "processed", processed)
	return processed, nil
}

// Delta returns the user's buffered events newer than sinceMillis, stamped
// with the current server time as the client's next sync point.
func (r *Reconciler) Delta(ctx context.Context, userID string, sinceMillis int64) (Delta, error) {
	return r.buf.Delta(ctx, userID, sinceMillis, time.Now().UnixMilli())
}

// Stats reports the user's buffer state.
func (r *Reconciler) Stats(ctx context.Context, userID string) (Stats, error) {
	return r.buf.Stats(ctx, userID)
}

// Clear drops the user's buffer and leaves an audit record.
func (r *Reconciler) Clear(ctx context.Context, userID string) error {
	if err := r.buf.Clear(ctx, userID); err != nil {
		return err
	}

	if r.auditor != nil {
		entry := &domain.AuditEntry{
			UserID:     userID,
			Action:     domain.AuditSyncCleared,
			EntityType: "sync",
			EntityID:   userID,
		}
		if err := r.auditor.AppendAudit(ctx, entry); err != nil {
			r.logger.Warn("audit append failed", "action", entry.Action, "error", err)
		}
	}

	r.logger.Info("sync buffer cleared", "user_id", userID)
	return nil
}

// audit writes the per-event audit record for recognized event types.
// Unknown types are buffered but not audited.
func (r *Reconciler) audit(ctx context.Context, userID string, ev domain.SyncEvent) {
	if r.auditor == nil {
		return
	}

	var entry *domain.AuditEntry
	switch ev.Type {
	case domain.SyncEventProgress:
		entry = &domain.AuditEntry{
			UserID:     userID,
			Action:     domain.AuditReadingProgress,
			EntityType: "book",
			EntityID:   ev.BookID,
			Details: map[string]any{
				"preset_id": ev.PresetID,
				"timestamp": ev.Timestamp,
			},
		}
	case domain.SyncEventMoodTrigger:
		entry = &domain.AuditEntry{
			UserID:     userID,
			Action:     domain.AuditMoodTriggered,
			EntityType: "sync",
			EntityID:   ev.ID,
			Details:    ev.Data,
		}
	case domain.SyncEventSettingsChange:
		entry = &domain.AuditEntry{
			UserID:     userID,
			Action:     domain.AuditSettingsChanged,
			EntityType: "user",
			EntityID:   userID,
			Details:    ev.Data,
		}
	default:
		r.logger.Warn("unknown sync event type", "type", ev.Type, "user_id", userID)
		return
	}

	if err := r.auditor.AppendAudit(ctx, entry); err != nil {
		r.logger.Warn("audit append failed", "action", entry.Action, "error", err)
	}
}
