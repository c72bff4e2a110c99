package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/booksphere/booksphere-server/internal/domain"
)

func (s *Server) registerSyncRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "submitSyncEvents",
		Method:      http.MethodPost,
		Path:        "/api/v1/sync/events",
		Summary:     "Submit sync events",
		Description: "Buffers a batch of client events for delta delivery to the user's other devices. Malformed events are skipped.",
		Tags:        []string{"Sync"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSubmitSyncEvents)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSyncDelta",
		Method:      http.MethodGet,
		Path:        "/api/v1/sync/delta",
		Summary:     "Get sync delta",
		Description: "Returns buffered events newer than the client's last sync point, plus the server time to use as the next sync point",
		Tags:        []string{"Sync"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetSyncDelta)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSyncStatus",
		Method:      http.MethodGet,
		Path:        "/api/v1/sync/status",
		Summary:     "Get sync buffer status",
		Tags:        []string{"Sync"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetSyncStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearSyncBuffer",
		Method:      http.MethodDelete,
		Path:        "/api/v1/sync/events",
		Summary:     "Clear sync buffer",
		Description: "Drops all buffered events for the user",
		Tags:        []string{"Sync"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleClearSyncBuffer)
}

// === DTOs ===

// SyncEventRequest is one client event in a batch submission.
type SyncEventRequest struct {
	ID        string         `json:"id" validate:"required,max=128" doc:"Client-assigned event ID"`
	Type      string         `json:"type" validate:"required,max=64" doc:"Event type (progress, mood_trigger, settings_change, or client-defined)"`
	Timestamp int64          `json:"timestamp" validate:"required" doc:"Client clock, Unix milliseconds"`
	BookID    string         `json:"book_id,omitempty" doc:"Related book"`
	PresetID  string         `json:"preset_id,omitempty" doc:"Related preset"`
	Data      map[string]any `json:"data,omitempty" doc:"Event payload"`
}

// SubmitSyncEventsInput wraps a batch submission for Huma.
type SubmitSyncEventsInput struct {
	Body struct {
		Events []SyncEventRequest `json:"events" validate:"required,max=1000" doc:"Events to buffer"`
	}
}

// SubmitSyncEventsOutput reports how many events were accepted.
type SubmitSyncEventsOutput struct {
	Body struct {
		Processed int `json:"processed" doc:"Events accepted into the buffer"`
		Rejected  int `json:"rejected" doc:"Malformed events skipped"`
	}
}

// GetSyncDeltaInput contains the client's last sync point.
type GetSyncDeltaInput struct {
	Since int64 `query:"since" minimum:"0" doc:"Last sync point, Unix milliseconds; zero returns everything buffered"`
}

// SyncDeltaResponse contains the reconciliation answer for a client.
type SyncDeltaResponse struct {
	Events            []domain.SyncEvent `json:"events" doc:"Buffered events newer than the sync point"`
	LastSyncTimestamp int64              `json:"last_sync_timestamp" doc:"Server time to use as the next sync point"`
}

// SyncDeltaOutput wraps the delta response for Huma.
type SyncDeltaOutput struct {
	Body SyncDeltaResponse
}

// SyncStatusResponse describes the user's buffer state.
type SyncStatusResponse struct {
	EventCount  int   `json:"event_count" doc:"Buffered events"`
	OldestEvent int64 `json:"oldest_event,omitempty" doc:"Oldest buffered timestamp"`
	NewestEvent int64 `json:"newest_event,omitempty" doc:"Newest buffered timestamp"`
}

// SyncStatusOutput wraps the status response for Huma.
type SyncStatusOutput struct {
	Body SyncStatusResponse
}

// === Handlers ===

func (s *Server) handleSubmitSyncEvents(ctx context.Context, input *SubmitSyncEventsInput) (*SubmitSyncEventsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]domain.SyncEvent, 0, len(input.Body.Events))
	for _, e := range input.Body.Events {
		events = append(events, domain.SyncEvent{
			ID:        e.ID,
			Type:      domain.SyncEventType(e.Type),
			Timestamp: e.Timestamp,
			BookID:    e.BookID,
			PresetID:  e.PresetID,
			Data:      e.Data,
		})
	}

	processed, err := s.services.Sync.SubmitBatch(ctx, userID, events)
	if err != nil {
		return nil, err
	}

	out := &SubmitSyncEventsOutput{}
	out.Body.Processed = processed
	out.Body.Rejected = len(events) - processed
	return out, nil
}

func (s *Server) handleGetSyncDelta(ctx context.Context, input *GetSyncDeltaInput) (*SyncDeltaOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	delta, err := s.services.Sync.Delta(ctx, userID, input.Since)
	if err != nil {
		return nil, err
	}

	return &SyncDeltaOutput{
		Body: SyncDeltaResponse{
			Events:            delta.Events,
			LastSyncTimestamp: delta.LastSyncTime,
		},
	}, nil
}

func (s *Server) handleGetSyncStatus(ctx context.Context, _ *struct{}) (*SyncStatusOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Sync.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &SyncStatusOutput{
		Body: SyncStatusResponse{
			EventCount:  stats.EventCount,
			OldestEvent: stats.OldestEvent,
			NewestEvent: stats.NewestEvent,
		},
	}, nil
}

func (s *Server) handleClearSyncBuffer(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Sync.Clear(ctx, userID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Sync buffer cleared"}}, nil
}
