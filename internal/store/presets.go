package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/booksphere/booksphere-server/internal/domain"
)

// CreatePreset stores a new preset. When the preset is marked default it
// displaces any existing default for the same book.
func (s *Store) CreatePreset(ctx context.Context, preset *domain.Preset) error {
	preset.InitTimestamps()

	if preset.IsDefault {
		if err := s.clearDefaultPreset(ctx, preset.BookID, preset.ID); err != nil {
			return err
		}
	}

	if err := s.Presets.Create(ctx, preset.ID, preset); err != nil {
		return fmt.Errorf("create preset: %w", err)
	}
	return nil
}

// GetPreset retrieves a preset by ID.
func (s *Store) GetPreset(ctx context.Context, id string) (*domain.Preset, error) {
	preset, err := s.Presets.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get preset: %w", err)
	}
	return preset, nil
}

// UpdatePreset replaces a preset, keeping the one-default-per-book rule.
func (s *Store) UpdatePreset(ctx context.Context, preset *domain.Preset) error {
	preset.Touch()

	if preset.IsDefault {
		if err := s.clearDefaultPreset(ctx, preset.BookID, preset.ID); err != nil {
			return err
		}
	}

	if err := s.Presets.Update(ctx, preset.ID, preset); err != nil {
		return fmt.Errorf("update preset: %w", err)
	}
	return nil
}

// DeletePreset removes a preset together with its trigger rules and mood
// map entries. Idempotent on the preset itself.
func (s *Store) DeletePreset(ctx context.Context, id string) error {
	triggers, err := s.Triggers.ListByIndex(ctx, "preset", id)
	if err != nil {
		return fmt.Errorf("delete preset triggers: %w", err)
	}
	for _, t := range triggers {
		if err := s.Triggers.Delete(ctx, t.ID); err != nil {
			return fmt.Errorf("delete preset triggers: %w", err)
		}
	}

	entries, err := s.MapEntries.ListByIndex(ctx, "preset", id)
	if err != nil {
		return fmt.Errorf("delete preset map entries: %w", err)
	}
	for _, e := range entries {
		if err := s.MapEntries.Delete(ctx, e.ID); err != nil {
			return fmt.Errorf("delete preset map entries: %w", err)
		}
	}

	if err := s.Presets.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	return nil
}

// PresetsForBook returns all presets for a book, default first, then by
// creation time.
func (s *Store) PresetsForBook(ctx context.Context, bookID string) ([]*domain.Preset, error) {
	presets, err := s.Presets.ListByIndex(ctx, "book", bookID)
	if err != nil {
		return nil, fmt.Errorf("presets for book: %w", err)
	}

	sort.SliceStable(presets, func(i, j int) bool {
		if presets[i].IsDefault != presets[j].IsDefault {
			return presets[i].IsDefault
		}
		return presets[i].CreatedAt.Before(presets[j].CreatedAt)
	})

	return presets, nil
}

// PresetsByCreator returns all presets owned by a creator.
func (s *Store) PresetsByCreator(ctx context.Context, creatorID string) ([]*domain.Preset, error) {
	presets, err := s.Presets.ListByIndex(ctx, "creator", creatorID)
	if err != nil {
		return nil, fmt.Errorf("presets by creator: %w", err)
	}
	return presets, nil
}

// DefaultPresetForBook returns the book's default preset, or ErrNotFound
// when none is marked default.
func (s *Store) DefaultPresetForBook(ctx context.Context, bookID string) (*domain.Preset, error) {
	presets, err := s.Presets.ListByIndex(ctx, "book", bookID)
	if err != nil {
		return nil, fmt.Errorf("default preset for book: %w", err)
	}
	for _, p := range presets {
		if p.IsDefault {
			return p, nil
		}
	}
	return nil, fmt.Errorf("default preset for book: %w", ErrNotFound)
}

// clearDefaultPreset unmarks any default preset for the book other than
// the one identified by keepID.
func (s *Store) clearDefaultPreset(ctx context.Context, bookID, keepID string) error {
	presets, err := s.Presets.ListByIndex(ctx, "book", bookID)
	if err != nil {
		return fmt.Errorf("clear default preset: %w", err)
	}
	for _, p := range presets {
		if !p.IsDefault || p.ID == keepID {
			continue
		}
		p.IsDefault = false
		p.Touch()
		if err := s.Presets.Update(ctx, p.ID, p); err != nil {
			return fmt.Errorf("clear default preset: %w", err)
		}
	}
	return nil
}
