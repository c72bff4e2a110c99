package service

import (
	"context"
	"log/slog"

	"github.com/booksphere/booksphere-server/internal/domain"
	domainerrors "github.com/booksphere/booksphere-server/internal/errors"
	"github.com/booksphere/booksphere-server/internal/id"
	"github.com/booksphere/booksphere-server/internal/mood"
	"github.com/booksphere/booksphere-server/internal/signedurl"
	"github.com/booksphere/booksphere-server/internal/store"
)

// MoodService manages mood reference data and exposes position resolution
// to the HTTP surface. The websocket pipeline talks to the resolver
// directly.
type MoodService struct {
	store    *store.Store
	resolver *mood.Resolver
	signer   *signedurl.Signer
	logger   *slog.Logger
}

// NewMoodService creates a new mood service.
func NewMoodService(s *store.Store, resolver *mood.Resolver, signer *signedurl.Signer, logger *slog.Logger) *MoodService {
	return &MoodService{store: s, resolver: resolver, signer: signer, logger: logger}
}

// CreateMoodRequest contains new mood reference data.
type CreateMoodRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=64"`
	TempoElectronic int    `json:"tempo_electronic" validate:"min=30,max=200"`
	TempoClassical  int    `json:"tempo_classical" validate:"min=30,max=200"`
	TempoLofi       int    `json:"tempo_lofi" validate:"min=30,max=200"`
	TempoCustom     int    `json:"tempo_custom" validate:"omitempty,min=30,max=200"`
}

// CreateMood adds a mood reference entry. Creator or admin only.
func (s *MoodService) CreateMood(ctx context.Context, actor *domain.User, req CreateMoodRequest) (*domain.Mood, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if !actor.CanAuthor() {
		return nil, domainerrors.Forbidden("only creators may author moods")
	}

	m := &domain.Mood{
		Name:            req.Name,
		TempoElectronic: req.TempoElectronic,
		TempoClassical:  req.TempoClassical,
		TempoLofi:       req.TempoLofi,
		TempoCustom:     req.TempoCustom,
	}
	m.ID = id.MustGenerate("mood")

	if err := s.store.CreateMood(ctx, m); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("a mood with this name already exists")
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "create mood")
	}

	s.logger.Info("mood created", "mood_id", m.ID, "name", m.Name)
	return m, nil
}

// GetMood returns one mood reference entry.
func (s *MoodService) GetMood(ctx context.Context, moodID string) (*domain.Mood, error) {
	m, err := s.store.GetMood(ctx, moodID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domainerrors.NotFoundf("mood %s not found", moodID)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "get mood")
	}
	return m, nil
}

// ListMoods returns every mood reference entry.
func (s *MoodService) ListMoods(ctx context.Context) ([]*domain.Mood, error) {
	moods, err := s.store.ListMoods(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list moods")
	}
	return moods, nil
}

// BackgroundView is a background with its path replaced by a signed URL.
type BackgroundView struct {
	ID     string `json:"id"`
	MoodID string `json:"mood_id"`
	URL    string `json:"url"`
}

// BackgroundsForMood lists a mood's backgrounds with signed access URLs.
func (s *MoodService) BackgroundsForMood(ctx context.Context, actor *domain.User, moodID string) ([]BackgroundView, error) {
	bgs, err := s.store.BackgroundsForMood(ctx, moodID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list backgrounds")
	}

	views := make([]BackgroundView, 0, len(bgs))
	for _, bg := range bgs {
		views = append(views, BackgroundView{
			ID:     bg.ID,
			MoodID: bg.MoodID,
			URL:    s.signer.Sign(bg.Path, actor.ID),
		})
	}
	return views, nil
}

// AddBackground registers a background image for a mood. Creator or admin
// only.
func (s *MoodService) AddBackground(ctx context.Context, actor *domain.User, moodID, path string) (*domain.Background, error) {
	if !actor.CanAuthor() {
		return nil, domainerrors.Forbidden("only creators may add backgrounds")
	}
	if path == "" {
		return nil, domainerrors.Validation("background path is required")
	}

	if _, err := s.GetMood(ctx, moodID); err != nil {
		return nil, err
	}

	bg := &domain.Background{MoodID: moodID, Path: path}
	bg.ID = id.MustGenerate("bg")

	if err := s.store.CreateBackground(ctx, bg); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "create background")
	}
	return bg, nil
}

// ResolvePosition computes the mood trigger for a reading position using
// the acting user's settings. Returns (nil, nil) when the position
// triggers nothing.
func (s *MoodService) ResolvePosition(ctx context.Context, actor *domain.User, presetID string, chapter int, pageFraction float64, genre domain.Genre) (*mood.TriggerOutcome, error) {
	outcome, err := s.resolver.Resolve(ctx, presetID, chapter, pageFraction, genre, actor.Settings.MoodSensitivity)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "resolve position")
	}
	return outcome, nil
}

// MatchPage evaluates the preset's trigger rules at an absolute page using
// the acting user's settings. Returns (nil, nil, nil) when no active rule
// matches the page.
func (s *MoodService) MatchPage(ctx context.Context, actor *domain.User, presetID string, page int, genre domain.Genre) (*mood.TriggerOutcome, *domain.Trigger, error) {
	outcome, trigger, err := s.resolver.MatchTrigger(ctx, presetID, page, genre, actor.Settings.MoodSensitivity)
	if err != nil {
		return nil, nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "match page")
	}
	return outcome, trigger, nil
}
