// Package mood resolves reading positions into mood triggers: which mood
// applies at a position, at what tempo for the user, and how to transition.
package mood

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/booksphere/booksphere-server/internal/domain"
	"github.com/booksphere/booksphere-server/internal/store"
)

// TriggerOutcome is the result of resolving a reading position against a
// preset's mood map: the mood, the sensitivity-adjusted tempo, an optional
// background, and the transition to use.
type TriggerOutcome struct {
	Mood           *domain.Mood       `json:"mood"`
	Background     *domain.Background `json:"background,omitempty"`
	Tempo          int                `json:"tempo"`
	TransitionType string             `json:"transition_type"`
}

// Resolver computes mood triggers from the persisted mood maps and trigger
// rules.
type Resolver struct {
	store  *store.Store
	logger *slog.Logger
}

// NewResolver creates a Resolver backed by the given store.
func NewResolver(s *store.Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: s, logger: logger}
}

// Resolve finds the mood breakpoint governing the given position and builds
// the trigger outcome for the user's genre and sensitivity. Returns
// (nil, nil) when no breakpoint covers the position or the breakpoint names
// no mood: reading before the first breakpoint triggers nothing.
//
// The adjusted tempo is round(base * clamped sensitivity). Sensitivity is
// clamped to [0.1, 2.0] before the multiply; the product itself is not
// clamped, so a 140 BPM base at sensitivity 1.5 yields 210 even though 210
// exceeds the stored-tempo ceiling.
func (r *Resolver) Resolve(ctx context.Context, presetID string, chapter int, pageFraction float64, genre domain.Genre, sensitivity float64) (*TriggerOutcome, error) {
	entry, err := r.store.FindMapEntryForProgress(ctx, presetID, chapter, pageFraction)
	if store.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve mood: %w", err)
	}
	if entry.MoodID == "" {
		return nil, nil
	}

	m, err := r.store.GetMood(ctx, entry.MoodID)
	if store.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve mood: %w", err)
	}

	var bg *domain.Background
	if entry.BackgroundID != "" {
		bg, err = r.store.GetBackground(ctx, entry.BackgroundID)
		if err != nil && !store.IsNotFound(err) {
			return nil, fmt.Errorf("resolve mood background: %w", err)
		}
	}

	outcome := &TriggerOutcome{
		Mood:           m,
		Background:     bg,
		Tempo:          AdjustTempo(m.BaseTempo(genre), sensitivity),
		TransitionType: entry.TransitionType,
	}
	if outcome.TransitionType == "" {
		outcome.TransitionType = domain.DefaultTransitionType
	}

	r.logger.Debug("mood trigger resolved",
		"preset_id", presetID,
		"chapter", chapter,
		"page_fraction", pageFraction,
		"mood", m.Name,
		"base_tempo", m.BaseTempo(genre),
		"tempo", outcome.Tempo,
		"sensitivity", sensitivity,
	)

	return outcome, nil
}

// MatchTrigger evaluates the preset's rule-based triggers at an absolute
// page and builds the outcome for the winning rule. Returns (nil, nil)
// when no active rule matches.
func (r *Resolver) MatchTrigger(ctx context.Context, presetID string, page int, genre domain.Genre, sensitivity float64) (*TriggerOutcome, *domain.Trigger, error) {
	trigger, err := r.store.TriggerForPosition(ctx, presetID, page)
	if store.IsNotFound(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("match trigger: %w", err)
	}

	m, err := r.store.GetMood(ctx, trigger.MoodID)
	if store.IsNotFound(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("match trigger: %w", err)
	}

	outcome := &TriggerOutcome{
		Mood:           m,
		Tempo:          AdjustTempo(m.BaseTempo(genre), sensitivity),
		TransitionType: domain.DefaultTransitionType,
	}
	return outcome, trigger, nil
}

// AdjustTempo scales a base tempo by the clamped sensitivity and rounds to
// the nearest whole BPM. The result deliberately escapes the stored-tempo
// bounds.
func AdjustTempo(baseTempo int, sensitivity float64) int {
	s := domain.ClampSensitivity(sensitivity)
	return int(math.Round(float64(baseTempo) * s))
}
