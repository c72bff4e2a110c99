package domain

// SyncEventType classifies client-originated sync events.
type SyncEventType string

// Recognized sync event types. Unknown types are buffered for delta
// delivery but trigger no server-side processing.
const (
	SyncEventProgress       SyncEventType = "progress"
	SyncEventMoodTrigger    SyncEventType = "mood_trigger"
	SyncEventSettingsChange SyncEventType = "settings_change"
)

// SyncEvent is one entry in a user's reconciliation buffer. Timestamps are
// client-supplied Unix milliseconds, monotonically advancing per client but
// not comparable across clients. Events live only in memory; a process
// restart loses them and clients must tolerate the gap.
type SyncEvent struct {
	ID        string         `json:"id"`
	Type      SyncEventType  `json:"type"`
	Timestamp int64          `json:"timestamp"`
	UserID    string         `json:"user_id"`
	BookID    string         `json:"book_id,omitempty"`
	PresetID  string         `json:"preset_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Valid reports whether the event carries the three mandatory fields.
func (e *SyncEvent) Valid() bool {
	return e.ID != "" && e.Type != "" && e.Timestamp != 0
}
