package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/booksphere/booksphere-server/internal/domain"
)

// CreateTrigger stores a new trigger rule. The referenced preset must exist.
func (s *Store) CreateTrigger(ctx context.Context, trigger *domain.Trigger) error {
	if _, err := s.Presets.Get(ctx, trigger.PresetID); err != nil {
		return fmt.Errorf("create trigger: preset %s: %w", trigger.PresetID, err)
	}

	if trigger.TransitionDurationMs <= 0 {
		trigger.TransitionDurationMs = domain.DefaultTransitionDurationMs
	}
	trigger.InitTimestamps()

	if err := s.Triggers.Create(ctx, trigger.ID, trigger); err != nil {
		return fmt.Errorf("create trigger: %w", err)
	}
	return nil
}

// GetTrigger retrieves a trigger rule by ID.
func (s *Store) GetTrigger(ctx context.Context, id string) (*domain.Trigger, error) {
	trigger, err := s.Triggers.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get trigger: %w", err)
	}
	return trigger, nil
}

// UpdateTrigger replaces a trigger rule.
func (s *Store) UpdateTrigger(ctx context.Context, trigger *domain.Trigger) error {
	trigger.Touch()
	if err := s.Triggers.Update(ctx, trigger.ID, trigger); err != nil {
		return fmt.Errorf("update trigger: %w", err)
	}
	return nil
}

// DeleteTrigger removes a trigger rule. Idempotent.
func (s *Store) DeleteTrigger(ctx context.Context, id string) error {
	if err := s.Triggers.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete trigger: %w", err)
	}
	return nil
}

// TriggersForPreset returns the active trigger rules for a preset, ordered
// by ascending priority with creation time breaking ties. Unknown presets
// yield an empty slice, not an error.
func (s *Store) TriggersForPreset(ctx context.Context, presetID string) ([]*domain.Trigger, error) {
	triggers, err := s.Triggers.ListByIndex(ctx, "preset", presetID)
	if err != nil {
		return nil, fmt.Errorf("triggers for preset: %w", err)
	}

	active := triggers[:0]
	for _, t := range triggers {
		if t.IsActive {
			active = append(active, t)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Priority != active[j].Priority {
			return active[i].Priority < active[j].Priority
		}
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})

	return active, nil
}

// TriggerForPosition returns the first active trigger of the preset whose
// condition matches the absolute page, or ErrNotFound when no rule matches.
func (s *Store) TriggerForPosition(ctx context.Context, presetID string, page int) (*domain.Trigger, error) {
	triggers, err := s.TriggersForPreset(ctx, presetID)
	if err != nil {
		return nil, err
	}
	for _, t := range triggers {
		if t.Condition.MatchesPage(page) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("trigger for position: %w", ErrNotFound)
}

// IsNotFound reports whether an error chain ends in ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
