package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/booksphere/booksphere-server/internal/domain"
	"github.com/booksphere/booksphere-server/internal/service"
)

func (s *Server) registerMoodRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createMood",
		Method:      http.MethodPost,
		Path:        "/api/v1/moods",
		Summary:     "Create mood",
		Description: "Adds a mood reference entry with per-genre base tempos. Creator or admin only.",
		Tags:        []string{"Moods"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateMood)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMoods",
		Method:      http.MethodGet,
		Path:        "/api/v1/moods",
		Summary:     "List moods",
		Tags:        []string{"Moods"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMoods)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMood",
		Method:      http.MethodGet,
		Path:        "/api/v1/moods/{id}",
		Summary:     "Get mood",
		Tags:        []string{"Moods"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMood)

	huma.Register(s.api, huma.Operation{
		OperationID: "addMoodBackground",
		Method:      http.MethodPost,
		Path:        "/api/v1/moods/{id}/backgrounds",
		Summary:     "Add mood background",
		Description: "Registers a background image for a mood. Creator or admin only.",
		Tags:        []string{"Moods"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddBackground)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMoodBackgrounds",
		Method:      http.MethodGet,
		Path:        "/api/v1/moods/{id}/backgrounds",
		Summary:     "List mood backgrounds",
		Description: "Returns the mood's background images with expiring signed URLs",
		Tags:        []string{"Moods"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBackgrounds)
}

// === DTOs ===

// CreateMoodRequest is the request body for creating a mood.
type CreateMoodRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=64" doc:"Unique mood name"`
	TempoElectronic int    `json:"tempo_electronic" validate:"min=30,max=200" doc:"Base tempo for the electronic genre, BPM"`
	TempoClassical  int    `json:"tempo_classical" validate:"min=30,max=200" doc:"Base tempo for the classical genre, BPM"`
	TempoLofi       int    `json:"tempo_lofi" validate:"min=30,max=200" doc:"Base tempo for the lofi genre, BPM"`
	TempoCustom     int    `json:"tempo_custom,omitempty" validate:"omitempty,min=30,max=200" doc:"Optional custom tempo, BPM"`
}

// CreateMoodInput wraps the create mood request for Huma.
type CreateMoodInput struct {
	Body CreateMoodRequest
}

// MoodResponse contains mood data in API responses.
type MoodResponse struct {
	ID              string `json:"id" doc:"Mood ID"`
	Name            string `json:"name" doc:"Mood name"`
	TempoElectronic int    `json:"tempo_electronic" doc:"Electronic base tempo, BPM"`
	TempoClassical  int    `json:"tempo_classical" doc:"Classical base tempo, BPM"`
	TempoLofi       int    `json:"tempo_lofi" doc:"Lofi base tempo, BPM"`
	TempoCustom     int    `json:"tempo_custom,omitempty" doc:"Custom tempo, BPM, zero when unset"`
}

// MoodOutput wraps a mood response for Huma.
type MoodOutput struct {
	Body MoodResponse
}

// MoodListOutput wraps a mood list for Huma.
type MoodListOutput struct {
	Body struct {
		Moods []MoodResponse `json:"moods" doc:"All moods"`
	}
}

// MoodInput identifies a mood by path parameter.
type MoodInput struct {
	ID string `path:"id" doc:"Mood ID"`
}

// AddBackgroundRequest is the request body for registering a background.
type AddBackgroundRequest struct {
	Path string `json:"path" validate:"required,max=512" doc:"Image path relative to the data directory"`
}

// AddBackgroundInput wraps the add background request for Huma.
type AddBackgroundInput struct {
	ID   string `path:"id" doc:"Mood ID"`
	Body AddBackgroundRequest
}

// BackgroundResponse contains a background with a signed access URL.
type BackgroundResponse struct {
	ID     string `json:"id" doc:"Background ID"`
	MoodID string `json:"mood_id" doc:"Owning mood ID"`
	URL    string `json:"url" doc:"Expiring signed download URL"`
}

// BackgroundOutput wraps a background response for Huma.
type BackgroundOutput struct {
	Body BackgroundResponse
}

// BackgroundListOutput wraps a background list for Huma.
type BackgroundListOutput struct {
	Body struct {
		Backgrounds []BackgroundResponse `json:"backgrounds" doc:"Backgrounds with signed URLs"`
	}
}

// === Handlers ===

func (s *Server) handleCreateMood(ctx context.Context, input *CreateMoodInput) (*MoodOutput, error) {
	actor, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	m, err := s.services.Mood.CreateMood(ctx, actor, service.CreateMoodRequest{
		Name:            input.Body.Name,
		TempoElectronic: input.Body.TempoElectronic,
		TempoClassical:  input.Body.TempoClassical,
		TempoLofi:       input.Body.TempoLofi,
		TempoCustom:     input.Body.TempoCustom,
	})
	if err != nil {
		return nil, err
	}

	return &MoodOutput{Body: mapMood(m)}, nil
}

func (s *Server) handleListMoods(ctx context.Context, _ *struct{}) (*MoodListOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	moods, err := s.services.Mood.ListMoods(ctx)
	if err != nil {
		return nil, err
	}

	out := &MoodListOutput{}
	out.Body.Moods = make([]MoodResponse, 0, len(moods))
	for _, m := range moods {
		out.Body.Moods = append(out.Body.Moods, mapMood(m))
	}
	return out, nil
}

func (s *Server) handleGetMood(ctx context.Context, input *MoodInput) (*MoodOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	m, err := s.services.Mood.GetMood(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &MoodOutput{Body: mapMood(m)}, nil
}

func (s *Server) handleAddBackground(ctx context.Context, input *AddBackgroundInput) (*BackgroundOutput, error) {
	actor, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	bg, err := s.services.Mood.AddBackground(ctx, actor, input.ID, input.Body.Path)
	if err != nil {
		return nil, err
	}

	return &BackgroundOutput{
		Body: BackgroundResponse{
			ID:     bg.ID,
			MoodID: bg.MoodID,
			URL:    s.signer.Sign(bg.Path, actor.ID),
		},
	}, nil
}

func (s *Server) handleListBackgrounds(ctx context.Context, input *MoodInput) (*BackgroundListOutput, error) {
	actor, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	views, err := s.services.Mood.BackgroundsForMood(ctx, actor, input.ID)
	if err != nil {
		return nil, err
	}

	out := &BackgroundListOutput{}
	out.Body.Backgrounds = make([]BackgroundResponse, 0, len(views))
	for _, v := range views {
		out.Body.Backgrounds = append(out.Body.Backgrounds, BackgroundResponse{
			ID:     v.ID,
			MoodID: v.MoodID,
			URL:    v.URL,
		})
	}
	return out, nil
}

func mapMood(m *domain.Mood) MoodResponse {
	return MoodResponse{
		ID:              m.ID,
		Name:            m.Name,
		TempoElectronic: m.TempoElectronic,
		TempoClassical:  m.TempoClassical,
		TempoLofi:       m.TempoLofi,
		TempoCustom:     m.TempoCustom,
	}
}
