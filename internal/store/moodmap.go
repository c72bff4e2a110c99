package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/booksphere/booksphere-server/internal/domain"
)

// CreateMapEntry stores a new mood breakpoint. The referenced preset must
// exist.
func (s *Store) CreateMapEntry(ctx context.Context, entry *domain.MapEntry) error {
	if _, err := s.Presets.Get(ctx, entry.PresetID); err != nil {
		return fmt.Errorf("create map entry: preset %s: %w", entry.PresetID, err)
	}
	entry.InitTimestamps()

	if err := s.MapEntries.Create(ctx, entry.ID, entry); err != nil {
		return fmt.Errorf("create map entry: %w", err)
	}
	return nil
}

// GetMapEntry retrieves a mood breakpoint by ID.
func (s *Store) GetMapEntry(ctx context.Context, id string) (*domain.MapEntry, error) {
	entry, err := s.MapEntries.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get map entry: %w", err)
	}
	return entry, nil
}

// UpdateMapEntry replaces a mood breakpoint.
func (s *Store) UpdateMapEntry(ctx context.Context, entry *domain.MapEntry) error {
	entry.Touch()
	if err := s.MapEntries.Update(ctx, entry.ID, entry); err != nil {
		return fmt.Errorf("update map entry: %w", err)
	}
	return nil
}

// DeleteMapEntry removes a mood breakpoint. Idempotent.
func (s *Store) DeleteMapEntry(ctx context.Context, id string) error {
	if err := s.MapEntries.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete map entry: %w", err)
	}
	return nil
}

// MapEntriesForPreset returns a preset's breakpoints ordered by
// (chapter, page_fraction). Unknown presets yield an empty slice.
func (s *Store) MapEntriesForPreset(ctx context.Context, presetID string) ([]*domain.MapEntry, error) {
	entries, err := s.MapEntries.ListByIndex(ctx, "preset", presetID)
	if err != nil {
		return nil, fmt.Errorf("map entries for preset: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Chapter != entries[j].Chapter {
			return entries[i].Chapter < entries[j].Chapter
		}
		return entries[i].PageFraction < entries[j].PageFraction
	})

	return entries, nil
}

// FindMapEntryForProgress returns the latest breakpoint at or before the
// given reading position, or ErrNotFound when the position precedes every
// breakpoint of the preset.
func (s *Store) FindMapEntryForProgress(ctx context.Context, presetID string, chapter int, pageFraction float64) (*domain.MapEntry, error) {
	entries, err := s.MapEntriesForPreset(ctx, presetID)
	if err != nil {
		return nil, err
	}

	var match *domain.MapEntry
	for _, e := range entries {
		if !e.Before(chapter, pageFraction) {
			break
		}
		match = e
	}
	if match == nil {
		return nil, fmt.Errorf("map entry for progress: %w", ErrNotFound)
	}
	return match, nil
}
