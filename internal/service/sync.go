package service

import (
	"context"
	"log/slog"

	"github.com/booksphere/booksphere-server/internal/domain"
	domainerrors "github.com/booksphere/booksphere-server/internal/errors"
	"github.com/booksphere/booksphere-server/internal/syncbuf"
)

// SyncService fronts the reconciler for the HTTP sync surface. The
// websocket handlers share the same reconciler, so both transports see one
// set of buffers.
type SyncService struct {
	reconciler *syncbuf.Reconciler
	logger     *slog.Logger
}

// NewSyncService creates a new sync service.
func NewSyncService(reconciler *syncbuf.Reconciler, logger *slog.Logger) *SyncService {
	return &SyncService{reconciler: reconciler, logger: logger}
}

// SubmitBatch buffers a batch of client events for the user. Malformed
// events are skipped; the count of accepted events is returned.
func (s *SyncService) SubmitBatch(ctx context.Context, userID string, events []domain.SyncEvent) (int, error) {
	processed, err := s.reconciler.ProcessBatch(ctx, userID, events)
	if err != nil {
		return processed, domainerrors.Wrap(err, domainerrors.CodeInternal, "process sync batch")
	}
	return processed, nil
}

// Delta returns the user's buffered events newer than sinceMillis.
func (s *SyncService) Delta(ctx context.Context, userID string, sinceMillis int64) (syncbuf.Delta, error) {
	delta, err := s.reconciler.Delta(ctx, userID, sinceMillis)
	if err != nil {
		return syncbuf.Delta{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "sync delta")
	}
	return delta, nil
}

// Stats reports the user's buffer state.
func (s *SyncService) Stats(ctx context.Context, userID string) (syncbuf.Stats, error) {
	stats, err := s.reconciler.Stats(ctx, userID)
	if err != nil {
		return syncbuf.Stats{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "sync stats")
	}
	return stats, nil
}

// Clear drops the user's buffer.
func (s *SyncService) Clear(ctx context.Context, userID string) error {
	if err := s.reconciler.Clear(ctx, userID); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "clear sync buffer")
	}
	return nil
}
