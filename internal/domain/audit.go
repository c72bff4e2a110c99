package domain

import "time"

// Audit actions recorded by the server. This is operational history, not a
// reconciliation aid; the sync buffer is separate and volatile.
const (
	AuditMoodTriggered   = "MOOD_TRIGGERED"
	AuditReadingProgress = "READING_PROGRESS"
	AuditSettingsChanged = "SETTINGS_CHANGED"
	AuditSyncProcessed   = "SYNC_PROCESSED"
	AuditSyncCleared     = "SYNC_CLEARED"
)

// AuditEntry is one append-only audit record.
type AuditEntry struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type,omitempty"`
	EntityID   string         `json:"entity_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
