package service

import (
	"context"
	"log/slog"

	"github.com/booksphere/booksphere-server/internal/domain"
	domainerrors "github.com/booksphere/booksphere-server/internal/errors"
	"github.com/booksphere/booksphere-server/internal/id"
	"github.com/booksphere/booksphere-server/internal/store"
)

// PresetService manages presets, their trigger rules, and mood map entries.
type PresetService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewPresetService creates a new preset service.
func NewPresetService(s *store.Store, logger *slog.Logger) *PresetService {
	return &PresetService{store: s, logger: logger}
}

// CreatePresetRequest contains new preset data.
type CreatePresetRequest struct {
	BookID      string `json:"book_id" validate:"required"`
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description" validate:"max=2000"`
	IsDefault   bool   `json:"is_default"`
}

// UpdatePresetRequest contains preset fields to change. Nil pointers leave
// the current value untouched.
type UpdatePresetRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	IsDefault   *bool   `json:"is_default"`
}

// CreatePreset creates a preset owned by the acting user. Only creators
// and admins may author presets.
func (s *PresetService) CreatePreset(ctx context.Context, actor *domain.User, req CreatePresetRequest) (*domain.Preset, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if !actor.CanAuthor() {
		return nil, domainerrors.Forbidden("only creators may author presets")
	}

	preset := &domain.Preset{
		CreatorID:   actor.ID,
		BookID:      req.BookID,
		Name:        req.Name,
		Description: req.Description,
		IsDefault:   req.IsDefault,
	}
	preset.ID = id.MustGenerate("preset")

	if err := s.store.CreatePreset(ctx, preset); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "create preset")
	}

	s.logger.Info("preset created", "preset_id", preset.ID, "book_id", preset.BookID, "creator_id", actor.ID)
	return preset, nil
}

// GetPreset returns one preset.
func (s *PresetService) GetPreset(ctx context.Context, presetID string) (*domain.Preset, error) {
	preset, err := s.store.GetPreset(ctx, presetID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domainerrors.NotFoundf("preset %s not found", presetID)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "get preset")
	}
	return preset, nil
}

// UpdatePreset applies changes to a preset the actor owns.
func (s *PresetService) UpdatePreset(ctx context.Context, actor *domain.User, presetID string, req UpdatePresetRequest) (*domain.Preset, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	preset, err := s.GetPreset(ctx, presetID)
	if err != nil {
		return nil, err
	}
	if !preset.CanModify(actor) {
		return nil, domainerrors.Forbidden("only the preset owner may modify it")
	}

	if req.Name != nil {
		preset.Name = *req.Name
	}
	if req.Description != nil {
		preset.Description = *req.Description
	}
	if req.IsDefault != nil {
		preset.IsDefault = *req.IsDefault
	}

	if err := s.store.UpdatePreset(ctx, preset); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "update preset")
	}
	return preset, nil
}

// DeletePreset removes a preset the actor owns, cascading to its trigger
// rules and mood map entries.
func (s *PresetService) DeletePreset(ctx context.Context, actor *domain.User, presetID string) error {
	preset, err := s.GetPreset(ctx, presetID)
	if err != nil {
		return err
	}
	if !preset.CanModify(actor) {
		return domainerrors.Forbidden("only the preset owner may delete it")
	}

	if err := s.store.DeletePreset(ctx, presetID); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "delete preset")
	}

	s.logger.Info("preset deleted", "preset_id", presetID, "actor_id", actor.ID)
	return nil
}

// PresetsForBook lists a book's presets, default first.
func (s *PresetService) PresetsForBook(ctx context.Context, bookID string) ([]*domain.Preset, error) {
	presets, err := s.store.PresetsForBook(ctx, bookID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list presets")
	}
	return presets, nil
}

// CreateTriggerRequest contains new trigger rule data.
type CreateTriggerRequest struct {
	MoodID               string                  `json:"mood_id" validate:"required"`
	Condition            domain.TriggerCondition `json:"trigger_condition"`
	MusicTrackID         string                  `json:"music_track_id"`
	BackgroundImageURL   string                  `json:"background_image_url" validate:"omitempty,url"`
	TransitionDurationMs int                     `json:"transition_duration_ms" validate:"min=0,max=30000"`
	Priority             int                     `json:"priority" validate:"min=0"`
}

// AddTrigger attaches a trigger rule to a preset the actor owns. New rules
// start active.
func (s *PresetService) AddTrigger(ctx context.Context, actor *domain.User, presetID string, req CreateTriggerRequest) (*domain.Trigger, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	preset, err := s.GetPreset(ctx, presetID)
	if err != nil {
		return nil, err
	}
	if !preset.CanModify(actor) {
		return nil, domainerrors.Forbidden("only the preset owner may add triggers")
	}

	if _, err := s.store.GetMood(ctx, req.MoodID); err != nil {
		if store.IsNotFound(err) {
			return nil, domainerrors.NotFoundf("mood %s not found", req.MoodID)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "lookup mood")
	}

	trigger := &domain.Trigger{
		PresetID:             presetID,
		MoodID:               req.MoodID,
		Condition:            req.Condition,
		MusicTrackID:         req.MusicTrackID,
		BackgroundImageURL:   req.BackgroundImageURL,
		TransitionDurationMs: req.TransitionDurationMs,
		IsActive:             true,
		Priority:             req.Priority,
	}
	trigger.ID = id.MustGenerate("trig")

	if err := s.store.CreateTrigger(ctx, trigger); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "create trigger")
	}
	return trigger, nil
}

// SetTriggerActive flips a trigger rule's active flag.
func (s *PresetService) SetTriggerActive(ctx context.Context, actor *domain.User, triggerID string, active bool) (*domain.Trigger, error) {
	trigger, err := s.store.GetTrigger(ctx, triggerID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domainerrors.NotFoundf("trigger %s not found", triggerID)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "get trigger")
	}

	preset, err := s.GetPreset(ctx, trigger.PresetID)
	if err != nil {
		return nil, err
	}
	if !preset.CanModify(actor) {
		return nil, domainerrors.Forbidden("only the preset owner may modify triggers")
	}

	trigger.IsActive = active
	if err := s.store.UpdateTrigger(ctx, trigger); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "update trigger")
	}
	return trigger, nil
}

// RemoveTrigger deletes a trigger rule from a preset the actor owns.
func (s *PresetService) RemoveTrigger(ctx context.Context, actor *domain.User, triggerID string) error {
	trigger, err := s.store.GetTrigger(ctx, triggerID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil // idempotent
		}
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "get trigger")
	}

	preset, err := s.GetPreset(ctx, trigger.PresetID)
	if err != nil {
		return err
	}
	if !preset.CanModify(actor) {
		return domainerrors.Forbidden("only the preset owner may remove triggers")
	}

	if err := s.store.DeleteTrigger(ctx, triggerID); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "delete trigger")
	}
	return nil
}

// TriggersForPreset lists a preset's active trigger rules in priority order.
func (s *PresetService) TriggersForPreset(ctx context.Context, presetID string) ([]*domain.Trigger, error) {
	triggers, err := s.store.TriggersForPreset(ctx, presetID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list triggers")
	}
	return triggers, nil
}

// CreateMapEntryRequest contains new mood breakpoint data.
type CreateMapEntryRequest struct {
	Chapter        int     `json:"chapter" validate:"min=0"`
	PageFraction   float64 `json:"page_fraction" validate:"min=0,max=1"`
	MoodID         string  `json:"mood_id"`
	BackgroundID   string  `json:"background_id"`
	TransitionType string  `json:"transition_type" validate:"omitempty,oneof=fade cut crossfade"`
}

// AddMapEntry attaches a mood breakpoint to a preset the actor owns.
func (s *PresetService) AddMapEntry(ctx context.Context, actor *domain.User, presetID string, req CreateMapEntryRequest) (*domain.MapEntry, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	preset, err := s.GetPreset(ctx, presetID)
	if err != nil {
		return nil, err
	}
	if !preset.CanModify(actor) {
		return nil, domainerrors.Forbidden("only the preset owner may edit the mood map")
	}

	if req.MoodID != "" {
		if _, err := s.store.GetMood(ctx, req.MoodID); err != nil {
			if store.IsNotFound(err) {
				return nil, domainerrors.NotFoundf("mood %s not found", req.MoodID)
			}
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "lookup mood")
		}
	}

	entry := &domain.MapEntry{
		PresetID:       presetID,
		Chapter:        req.Chapter,
		PageFraction:   req.PageFraction,
		MoodID:         req.MoodID,
		BackgroundID:   req.BackgroundID,
		TransitionType: req.TransitionType,
	}
	entry.ID = id.MustGenerate("map")

	if err := s.store.CreateMapEntry(ctx, entry); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "create map entry")
	}
	return entry, nil
}

// RemoveMapEntry deletes a mood breakpoint from a preset the actor owns.
func (s *PresetService) RemoveMapEntry(ctx context.Context, actor *domain.User, entryID string) error {
	entry, err := s.store.GetMapEntry(ctx, entryID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil // idempotent
		}
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "get map entry")
	}

	preset, err := s.GetPreset(ctx, entry.PresetID)
	if err != nil {
		return err
	}
	if !preset.CanModify(actor) {
		return domainerrors.Forbidden("only the preset owner may edit the mood map")
	}

	if err := s.store.DeleteMapEntry(ctx, entryID); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "delete map entry")
	}
	return nil
}

// MapEntriesForPreset lists a preset's breakpoints in reading order.
func (s *PresetService) MapEntriesForPreset(ctx context.Context, presetID string) ([]*domain.MapEntry, error) {
	entries, err := s.store.MapEntriesForPreset(ctx, presetID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list map entries")
	}
	return entries, nil
}
