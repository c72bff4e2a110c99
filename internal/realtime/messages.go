// Package realtime implements the websocket transport: book rooms,
// per-connection pumps, and the inbound message pipeline that turns
// progress updates into mood triggers.
package realtime

import (
	"encoding/json/jsontext"
	"time"

	"github.com/booksphere/booksphere-server/internal/domain"
)

// Inbound message types.
const (
	MsgProgressUpdate    = "progress:update"
	MsgRoomJoin          = "room:join"
	MsgRoomLeave         = "room:leave"
	MsgSettingsUpdate    = "settings:update"
	MsgSyncEvent         = "sync:event"
	MsgSyncStatusRequest = "sync:status_request"
	MsgSyncRecover       = "sync:recover"
	MsgPing              = "ping"
)

// Outbound message types.
const (
	MsgMoodTrigger  = "mood:trigger"
	MsgSyncStatus   = "sync:status"
	MsgUserJoined   = "user:joined"
	MsgUserLeft     = "user:left"
	MsgSyncRecovery = "sync:recovery"
	MsgPong         = "pong"
	MsgError        = "error"
)

// Envelope is the wire frame for every message in both directions.
type Envelope struct {
	Type string         `json:"type"`
	Data jsontext.Value `json:"data,omitempty"`
}

// ProgressUpdate reports a reading position.
type ProgressUpdate struct {
	BookID       string  `json:"book_id" validate:"required"`
	PresetID     string  `json:"preset_id" validate:"required"`
	Chapter      int     `json:"chapter" validate:"min=0"`
	PageFraction float64 `json:"page_fraction" validate:"min=0,max=1"`
	Timestamp    int64   `json:"timestamp"`
}

// RoomJoin asks to enter a book's broadcast room.
type RoomJoin struct {
	BookID   string `json:"book_id" validate:"required"`
	PresetID string `json:"preset_id"`
}

// RoomLeave asks to leave a book's broadcast room.
type RoomLeave struct {
	BookID string `json:"book_id" validate:"required"`
}

// SettingsUpdate carries partial playback setting changes over the socket.
type SettingsUpdate struct {
	MoodSensitivity   *float64 `json:"mood_sensitivity"`
	MusicVolume       *int     `json:"music_volume" validate:"omitempty,min=0,max=100"`
	DynamicBackground *bool    `json:"dynamic_background"`
	Theme             *string  `json:"theme" validate:"omitempty,oneof=light dark"`
}

// SyncRecover asks for every buffered event since the client's last sync
// point.
type SyncRecover struct {
	LastSyncTimestamp int64 `json:"last_sync_timestamp" validate:"min=0"`
}

// MoodTrigger tells clients to shift music and background.
type MoodTrigger struct {
	MoodName           string `json:"mood_name"`
	Tempo              int    `json:"tempo"`
	BackgroundImageURL string `json:"background_image_url,omitempty"`
	TransitionType     string `json:"transition_type"`
	Timestamp          int64  `json:"timestamp"`
}

// SyncStatus reports the connection's sync state.
type SyncStatus struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Sync status values.
const (
	SyncStatusConnected = "connected"
	SyncStatusSyncing   = "syncing"
	SyncStatusError     = "error"
)

// RoomPresence announces a user entering or leaving a book room.
type RoomPresence struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Timestamp int64  `json:"timestamp"`
}

// SyncRecovery delivers the missed events after a reconnect.
type SyncRecovery struct {
	Events    []domain.SyncEvent `json:"events"`
	Timestamp int64              `json:"timestamp"`
}

// ErrorMessage reports a failed inbound message without closing the
// connection.
type ErrorMessage struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
