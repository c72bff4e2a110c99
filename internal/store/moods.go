package store

import (
	"context"
	"fmt"

	"github.com/booksphere/booksphere-server/internal/domain"
)

// ErrInvalidTempo is returned when a mood carries a base tempo outside
// the allowed range.
var ErrInvalidTempo = fmt.Errorf("tempo out of range [%d,%d]", domain.MinTempo, domain.MaxTempo)

// CreateMood stores a new mood reference entry after checking its base
// tempos. A zero custom tempo means "not authored" and is allowed.
func (s *Store) CreateMood(ctx context.Context, mood *domain.Mood) error {
	if err := validateMoodTempos(mood); err != nil {
		return err
	}
	mood.InitTimestamps()

	if err := s.Moods.Create(ctx, mood.ID, mood); err != nil {
		return fmt.Errorf("create mood: %w", err)
	}
	return nil
}

// GetMood retrieves a mood by ID.
func (s *Store) GetMood(ctx context.Context, id string) (*domain.Mood, error) {
	mood, err := s.Moods.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get mood: %w", err)
	}
	return mood, nil
}

// GetMoodByName retrieves a mood by its unique name.
func (s *Store) GetMoodByName(ctx context.Context, name string) (*domain.Mood, error) {
	mood, err := s.Moods.GetByIndex(ctx, "name", name)
	if err != nil {
		return nil, fmt.Errorf("get mood by name: %w", err)
	}
	return mood, nil
}

// UpdateMood replaces a mood reference entry.
func (s *Store) UpdateMood(ctx context.Context, mood *domain.Mood) error {
	if err := validateMoodTempos(mood); err != nil {
		return err
	}
	mood.Touch()

	if err := s.Moods.Update(ctx, mood.ID, mood); err != nil {
		return fmt.Errorf("update mood: %w", err)
	}
	return nil
}

// ListMoods returns every mood reference entry.
func (s *Store) ListMoods(ctx context.Context) ([]*domain.Mood, error) {
	var moods []*domain.Mood
	for mood, err := range s.Moods.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list moods: %w", err)
		}
		moods = append(moods, mood)
	}
	return moods, nil
}

func validateMoodTempos(mood *domain.Mood) error {
	for _, bpm := range []int{mood.TempoElectronic, mood.TempoClassical, mood.TempoLofi} {
		if !domain.ValidTempo(bpm) {
			return ErrInvalidTempo
		}
	}
	if mood.TempoCustom != 0 && !domain.ValidTempo(mood.TempoCustom) {
		return ErrInvalidTempo
	}
	return nil
}

// CreateBackground stores a mood-scoped background image record.
func (s *Store) CreateBackground(ctx context.Context, bg *domain.Background) error {
	bg.InitTimestamps()
	if err := s.Backgrounds.Create(ctx, bg.ID, bg); err != nil {
		return fmt.Errorf("create background: %w", err)
	}
	return nil
}

// GetBackground retrieves a background by ID.
func (s *Store) GetBackground(ctx context.Context, id string) (*domain.Background, error) {
	bg, err := s.Backgrounds.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get background: %w", err)
	}
	return bg, nil
}

// BackgroundsForMood returns every background registered for a mood.
func (s *Store) BackgroundsForMood(ctx context.Context, moodID string) ([]*domain.Background, error) {
	bgs, err := s.Backgrounds.ListByIndex(ctx, "mood", moodID)
	if err != nil {
		return nil, fmt.Errorf("backgrounds for mood: %w", err)
	}
	return bgs, nil
}
