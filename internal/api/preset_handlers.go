package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/booksphere/booksphere-server/internal/domain"
	"github.com/booksphere/booksphere-server/internal/service"
)

func (s *Server) registerPresetRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createPreset",
		Method:      http.MethodPost,
		Path:        "/api/v1/presets",
		Summary:     "Create preset",
		Description: "Creates a book-scoped mood preset owned by the caller. Creator or admin only.",
		Tags:        []string{"Presets"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreatePreset)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPreset",
		Method:      http.MethodGet,
		Path:        "/api/v1/presets/{id}",
		Summary:     "Get preset",
		Tags:        []string{"Presets"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetPreset)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePreset",
		Method:      http.MethodPatch,
		Path:        "/api/v1/presets/{id}",
		Summary:     "Update preset",
		Description: "Updates preset fields. Owner or admin only.",
		Tags:        []string{"Presets"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdatePreset)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePreset",
		Method:      http.MethodDelete,
		Path:        "/api/v1/presets/{id}",
		Summary:     "Delete preset",
		Description: "Deletes a preset and its triggers and mood map entries. Owner or admin only.",
		Tags:        []string{"Presets"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeletePreset)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBookPresets",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{bookID}/presets",
		Summary:     "List presets for book",
		Description: "Returns the book's presets with the default preset first",
		Tags:        []string{"Presets"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBookPresets)

	huma.Register(s.api, huma.Operation{
		OperationID: "addTrigger",
		Method:      http.MethodPost,
		Path:        "/api/v1/presets/{id}/triggers",
		Summary:     "Add trigger rule",
		Description: "Attaches a trigger rule to a preset. Owner or admin only.",
		Tags:        []string{"Triggers"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddTrigger)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTriggers",
		Method:      http.MethodGet,
		Path:        "/api/v1/presets/{id}/triggers",
		Summary:     "List trigger rules",
		Description: "Returns the preset's active trigger rules in priority order",
		Tags:        []string{"Triggers"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListTriggers)

	huma.Register(s.api, huma.Operation{
		OperationID: "setTriggerActive",
		Method:      http.MethodPatch,
		Path:        "/api/v1/triggers/{id}",
		Summary:     "Activate or deactivate trigger",
		Tags:        []string{"Triggers"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetTriggerActive)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeTrigger",
		Method:      http.MethodDelete,
		Path:        "/api/v1/triggers/{id}",
		Summary:     "Remove trigger rule",
		Tags:        []string{"Triggers"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveTrigger)

	huma.Register(s.api, huma.Operation{
		OperationID: "addMapEntry",
		Method:      http.MethodPost,
		Path:        "/api/v1/presets/{id}/map",
		Summary:     "Add mood breakpoint",
		Description: "Adds a (chapter, page fraction) mood breakpoint to a preset. Owner or admin only.",
		Tags:        []string{"MoodMap"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddMapEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMapEntries",
		Method:      http.MethodGet,
		Path:        "/api/v1/presets/{id}/map",
		Summary:     "List mood breakpoints",
		Description: "Returns the preset's mood map ordered by chapter and page fraction",
		Tags:        []string{"MoodMap"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMapEntries)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeMapEntry",
		Method:      http.MethodDelete,
		Path:        "/api/v1/map-entries/{id}",
		Summary:     "Remove mood breakpoint",
		Tags:        []string{"MoodMap"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveMapEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "resolvePosition",
		Method:      http.MethodGet,
		Path:        "/api/v1/presets/{id}/resolve",
		Summary:     "Resolve reading position",
		Description: "Returns the mood trigger for a reading position, with the tempo scaled by the caller's mood sensitivity",
		Tags:        []string{"Presets"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleResolvePosition)

	huma.Register(s.api, huma.Operation{
		OperationID: "matchPosition",
		Method:      http.MethodGet,
		Path:        "/api/v1/presets/{id}/position/{page}",
		Summary:     "Match trigger rules at page",
		Description: "Returns the highest-priority active trigger rule matching an absolute page, with the tempo scaled by the caller's mood sensitivity",
		Tags:        []string{"Triggers"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMatchPosition)
}

// === DTOs ===

// CreatePresetRequest is the request body for creating a preset.
type CreatePresetRequest struct {
	BookID      string `json:"book_id" validate:"required" doc:"Book this preset belongs to"`
	Name        string `json:"name" validate:"required,min=1,max=120" doc:"Preset name"`
	Description string `json:"description,omitempty" validate:"max=2000" doc:"Optional description"`
	IsDefault   bool   `json:"is_default,omitempty" doc:"Whether this preset becomes the book default"`
}

// CreatePresetInput wraps the create preset request for Huma.
type CreatePresetInput struct {
	Body CreatePresetRequest
}

// UpdatePresetRequest is the request body for updating a preset.
// Omitted fields keep their current value.
type UpdatePresetRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=120" doc:"New name"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000" doc:"New description"`
	IsDefault   *bool   `json:"is_default,omitempty" doc:"New default flag"`
}

// UpdatePresetInput wraps the update preset request for Huma.
type UpdatePresetInput struct {
	ID   string `path:"id" doc:"Preset ID"`
	Body UpdatePresetRequest
}

// PresetInput identifies a preset by path parameter.
type PresetInput struct {
	ID string `path:"id" doc:"Preset ID"`
}

// BookPresetsInput identifies a book by path parameter.
type BookPresetsInput struct {
	BookID string `path:"bookID" doc:"Book ID"`
}

// PresetResponse contains preset data in API responses.
type PresetResponse struct {
	ID          string    `json:"id" doc:"Preset ID"`
	BookID      string    `json:"book_id" doc:"Owning book ID"`
	CreatorID   string    `json:"creator_id" doc:"Owning user ID"`
	Name        string    `json:"name" doc:"Preset name"`
	Description string    `json:"description,omitempty" doc:"Description"`
	IsDefault   bool      `json:"is_default" doc:"Whether this is the book default"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// PresetOutput wraps a preset response for Huma.
type PresetOutput struct {
	Body PresetResponse
}

// PresetListOutput wraps a preset list for Huma.
type PresetListOutput struct {
	Body struct {
		Presets []PresetResponse `json:"presets" doc:"Presets, default first"`
	}
}

// PageRangeRequest is a closed page interval in trigger conditions.
type PageRangeRequest struct {
	From int `json:"from" validate:"min=0" doc:"First page, inclusive"`
	To   int `json:"to" validate:"min=0" doc:"Last page, inclusive"`
}

// TriggerConditionRequest is the structured predicate of a trigger rule.
type TriggerConditionRequest struct {
	PageRange    *PageRangeRequest `json:"page_range,omitempty" doc:"Page interval; absent means the rule matches everywhere"`
	Keywords     []string          `json:"keywords,omitempty" doc:"Keywords carried for clients"`
	PassageText  string            `json:"passage_text,omitempty" validate:"max=2000" doc:"Passage excerpt carried for clients"`
	TimeOfDay    string            `json:"time_of_day,omitempty" validate:"max=32" doc:"Time-of-day hint"`
	ReadingSpeed float64           `json:"reading_speed,omitempty" validate:"min=0" doc:"Reading speed hint"`
}

// CreateTriggerRequest is the request body for adding a trigger rule.
type CreateTriggerRequest struct {
	MoodID               string                  `json:"mood_id" validate:"required" doc:"Mood this rule triggers"`
	Condition            TriggerConditionRequest `json:"trigger_condition" doc:"Position predicate"`
	MusicTrackID         string                  `json:"music_track_id,omitempty" doc:"Optional music track"`
	BackgroundImageURL   string                  `json:"background_image_url,omitempty" validate:"omitempty,url" doc:"Optional background image URL"`
	TransitionDurationMs int                     `json:"transition_duration_ms,omitempty" validate:"min=0,max=30000" doc:"Transition duration, defaults to 3000"`
	Priority             int                     `json:"priority,omitempty" validate:"min=0" doc:"Lower value wins"`
}

// CreateTriggerInput wraps the create trigger request for Huma.
type CreateTriggerInput struct {
	ID   string `path:"id" doc:"Preset ID"`
	Body CreateTriggerRequest
}

// TriggerInput identifies a trigger by path parameter.
type TriggerInput struct {
	ID string `path:"id" doc:"Trigger ID"`
}

// SetTriggerActiveRequest is the request body for toggling a trigger.
type SetTriggerActiveRequest struct {
	IsActive bool `json:"is_active" doc:"Whether the rule participates in matching"`
}

// SetTriggerActiveInput wraps the toggle request for Huma.
type SetTriggerActiveInput struct {
	ID   string `path:"id" doc:"Trigger ID"`
	Body SetTriggerActiveRequest
}

// TriggerResponse contains trigger rule data in API responses.
type TriggerResponse struct {
	ID                   string                  `json:"id" doc:"Trigger ID"`
	PresetID             string                  `json:"preset_id" doc:"Owning preset ID"`
	MoodID               string                  `json:"mood_id" doc:"Triggered mood ID"`
	Condition            domain.TriggerCondition `json:"trigger_condition" doc:"Position predicate"`
	MusicTrackID         string                  `json:"music_track_id,omitempty" doc:"Music track"`
	BackgroundImageURL   string                  `json:"background_image_url,omitempty" doc:"Background image URL"`
	TransitionDurationMs int                     `json:"transition_duration_ms" doc:"Transition duration"`
	IsActive             bool                    `json:"is_active" doc:"Whether the rule is active"`
	Priority             int                     `json:"priority" doc:"Match priority, lower wins"`
}

// TriggerOutput wraps a trigger response for Huma.
type TriggerOutput struct {
	Body TriggerResponse
}

// TriggerListOutput wraps a trigger list for Huma.
type TriggerListOutput struct {
	Body struct {
		Triggers []TriggerResponse `json:"triggers" doc:"Active rules in priority order"`
	}
}

// CreateMapEntryRequest is the request body for adding a mood breakpoint.
type CreateMapEntryRequest struct {
	Chapter        int     `json:"chapter" validate:"min=0" doc:"Chapter number"`
	PageFraction   float64 `json:"page_fraction" validate:"min=0,max=1" doc:"Position within the chapter, 0 to 1"`
	MoodID         string  `json:"mood_id,omitempty" doc:"Mood from this breakpoint onward; empty silences music"`
	BackgroundID   string  `json:"background_id,omitempty" doc:"Optional background image"`
	TransitionType string  `json:"transition_type,omitempty" validate:"omitempty,oneof=fade cut crossfade" doc:"Transition style, defaults to fade"`
}

// CreateMapEntryInput wraps the create map entry request for Huma.
type CreateMapEntryInput struct {
	ID   string `path:"id" doc:"Preset ID"`
	Body CreateMapEntryRequest
}

// MapEntryInput identifies a mood breakpoint by path parameter.
type MapEntryInput struct {
	ID string `path:"id" doc:"Map entry ID"`
}

// MapEntryResponse contains mood breakpoint data in API responses.
type MapEntryResponse struct {
	ID             string  `json:"id" doc:"Map entry ID"`
	PresetID       string  `json:"preset_id" doc:"Owning preset ID"`
	Chapter        int     `json:"chapter" doc:"Chapter number"`
	PageFraction   float64 `json:"page_fraction" doc:"Position within the chapter"`
	MoodID         string  `json:"mood_id,omitempty" doc:"Mood from this breakpoint onward"`
	BackgroundID   string  `json:"background_id,omitempty" doc:"Background image"`
	TransitionType string  `json:"transition_type,omitempty" doc:"Transition style"`
}

// MapEntryOutput wraps a map entry response for Huma.
type MapEntryOutput struct {
	Body MapEntryResponse
}

// MapEntryListOutput wraps a map entry list for Huma.
type MapEntryListOutput struct {
	Body struct {
		Entries []MapEntryResponse `json:"entries" doc:"Breakpoints ordered by chapter and page fraction"`
	}
}

// ResolvePositionInput contains a reading position to resolve.
type ResolvePositionInput struct {
	ID           string  `path:"id" doc:"Preset ID"`
	Chapter      int     `query:"chapter" minimum:"0" doc:"Chapter number"`
	PageFraction float64 `query:"page_fraction" minimum:"0" maximum:"1" doc:"Position within the chapter"`
	Genre        string  `query:"genre" enum:"electronic,classical,lofi,custom" default:"electronic" doc:"Music genre selecting the base tempo"`
}

// ResolvedTriggerResponse contains the mood trigger for a position.
type ResolvedTriggerResponse struct {
	MoodName           string `json:"mood_name" doc:"Resolved mood name"`
	Tempo              int    `json:"tempo" doc:"Base tempo scaled by the caller's sensitivity"`
	BackgroundImageURL string `json:"background_image_url,omitempty" doc:"Signed background URL"`
	TransitionType     string `json:"transition_type" doc:"Transition style"`
}

// ResolvePositionResponse contains resolution results. Triggered is false
// before the first breakpoint and at breakpoints that silence music.
type ResolvePositionResponse struct {
	Triggered bool                     `json:"triggered" doc:"Whether a mood applies at this position"`
	Trigger   *ResolvedTriggerResponse `json:"trigger,omitempty" doc:"The mood trigger when one applies"`
}

// ResolvePositionOutput wraps the resolution response for Huma.
type ResolvePositionOutput struct {
	Body ResolvePositionResponse
}

// MatchPositionInput contains an absolute page to match against a preset's
// trigger rules.
type MatchPositionInput struct {
	ID    string `path:"id" doc:"Preset ID"`
	Page  int    `path:"page" minimum:"0" doc:"Absolute page number"`
	Genre string `query:"genre" enum:"electronic,classical,lofi,custom" default:"electronic" doc:"Music genre selecting the base tempo"`
}

// MatchPositionResponse contains rule matching results. Matched is false
// when no active rule covers the page.
type MatchPositionResponse struct {
	Matched  bool                     `json:"matched" doc:"Whether a rule matched the page"`
	Trigger  *TriggerResponse         `json:"trigger,omitempty" doc:"The winning rule when one matched"`
	Resolved *ResolvedTriggerResponse `json:"resolved,omitempty" doc:"The mood outcome for the winning rule"`
}

// MatchPositionOutput wraps the match response for Huma.
type MatchPositionOutput struct {
	Body MatchPositionResponse
}

// === Preset handlers ===

func (s *Server) handleCreatePreset(ctx context.Context, input *CreatePresetInput) (*PresetOutput, error) {
	actor, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	preset, err := s.services.Preset.CreatePreset(ctx, actor, service.CreatePresetRequest{
		BookID:      input.Body.BookID,
		Name:        input.Body.Name,
		Description: input.Body.Description,
		IsDefault:   input.Body.IsDefault,
	})
	if err != nil {
		return nil, err
	}

	return &PresetOutput{Body: mapPreset(preset)}, nil
}

func (s *Server) handleGetPreset(ctx context.Context, input *PresetInput) (*PresetOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	preset, err := s.services.Preset.GetPreset(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &PresetOutput{Body: mapPreset(preset)}, nil
}

func (s *Server) handleUpdatePreset(ctx context.Context, input *UpdatePresetInput) (*PresetOutput, error) {
	actor, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	preset, err := s.services.Preset.UpdatePreset(ctx, actor, input.ID, service.UpdatePresetRequest{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		IsDefault:   input.Body.IsDefault,
	})
	if err != nil {
		return nil, err
	}

	return &PresetOutput{Body: mapPreset(preset)}, nil
}

func (s *Server) handleDeletePreset(ctx context.Context, input *PresetInput) (*MessageOutput, error) {
	actor, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Preset.DeletePreset(ctx, actor, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Preset deleted"}}, nil
}

func (s *Server) handleListBookPresets(ctx context.Context, input *BookPresetsInput) (*PresetListOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	presets, err := s.services.Preset.PresetsForBook(ctx, input.BookID)
	if err != nil {
		return nil, err
	}

	out := &PresetListOutput{}
	out.Body.Presets = make([]PresetResponse, 0, len(presets))
	for _, p := range presets {
		out.Body.Presets = append(out.Body.Presets, mapPreset(p))
	}
	return out, nil
}

// === Trigger handlers ===

func (s *Server) handleAddTrigger(ctx context.Context, input *CreateTriggerInput) (*TriggerOutput, error) {
	actor, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	cond := domain.TriggerCondition{
		Keywords:     input.Body.Condition.Keywords,
		PassageText:  input.Body.Condition.PassageText,
		TimeOfDay:    input.Body.Condition.TimeOfDay,
		ReadingSpeed: input.Body.Condition.ReadingSpeed,
	}
	if pr := input.Body.Condition.PageRange; pr != nil {
		cond.PageRange = &domain.PageRange{From: pr.From, To: pr.To}
	}

	trigger, err := s.services.Preset.AddTrigger(ctx, actor, input.ID, service.CreateTriggerRequest{
		MoodID:               input.Body.MoodID,
		Condition:            cond,
		MusicTrackID:         input.Body.MusicTrackID,
		BackgroundImageURL:   input.Body.BackgroundImageURL,
		TransitionDurationMs: input.Body.TransitionDurationMs,
		Priority:             input.Body.Priority,
	})
	if err != nil {
		return nil, err
	}

	return &TriggerOutput{Body: mapTrigger(trigger)}, nil
}

func (s *Server) handleListTriggers(ctx context.Context, input *PresetInput) (*TriggerListOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	triggers, err := s.services.Preset.TriggersForPreset(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := &TriggerListOutput{}
	out.Body.Triggers = make([]TriggerResponse, 0, len(triggers))
	for _, tr := range triggers {
		out.Body.Triggers = append(out.Body.Triggers, mapTrigger(tr))
	}
	return out, nil
}

func (s *Server) handleSetTriggerActive(ctx context.Context, input *SetTriggerActiveInput) (*TriggerOutput, error) {
	actor, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	trigger, err := s.services.Preset.SetTriggerActive(ctx, actor, input.ID, input.Body.IsActive)
	if err != nil {
		return nil, err
	}

	return &TriggerOutput{Body: mapTrigger(trigger)}, nil
}

func (s *Server) handleRemoveTrigger(ctx context.Context, input *TriggerInput) (*MessageOutput, error) {
	actor, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Preset.RemoveTrigger(ctx, actor, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Trigger removed"}}, nil
}

// === Mood map handlers ===

func (s *Server) handleAddMapEntry(ctx context.Context, input *CreateMapEntryInput) (*MapEntryOutput, error) {
	actor, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.Preset.AddMapEntry(ctx, actor, input.ID, service.CreateMapEntryRequest{
		Chapter:        input.Body.Chapter,
		PageFraction:   input.Body.PageFraction,
		MoodID:         input.Body.MoodID,
		BackgroundID:   input.Body.BackgroundID,
		TransitionType: input.Body.TransitionType,
	})
	if err != nil {
		return nil, err
	}

	return &MapEntryOutput{Body: mapMapEntry(entry)}, nil
}

func (s *Server) handleListMapEntries(ctx context.Context, input *PresetInput) (*MapEntryListOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	entries, err := s.services.Preset.MapEntriesForPreset(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := &MapEntryListOutput{}
	out.Body.Entries = make([]MapEntryResponse, 0, len(entries))
	for _, e := range entries {
		out.Body.Entries = append(out.Body.Entries, mapMapEntry(e))
	}
	return out, nil
}

func (s *Server) handleRemoveMapEntry(ctx context.Context, input *MapEntryInput) (*MessageOutput, error) {
	actor, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Preset.RemoveMapEntry(ctx, actor, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Map entry removed"}}, nil
}

// === Resolution ===

func (s *Server) handleResolvePosition(ctx context.Context, input *ResolvePositionInput) (*ResolvePositionOutput, error) {
	actor, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	outcome, err := s.services.Mood.ResolvePosition(ctx, actor, input.ID, input.Chapter, input.PageFraction, domain.Genre(input.Genre))
	if err != nil {
		return nil, err
	}

	out := &ResolvePositionOutput{}
	if outcome == nil {
		return out, nil
	}

	resolved := &ResolvedTriggerResponse{
		MoodName:       outcome.Mood.Name,
		Tempo:          outcome.Tempo,
		TransitionType: outcome.TransitionType,
	}
	if outcome.Background != nil {
		resolved.BackgroundImageURL = s.signer.Sign(outcome.Background.Path, actor.ID)
	}
	out.Body.Triggered = true
	out.Body.Trigger = resolved
	return out, nil
}

func (s *Server) handleMatchPosition(ctx context.Context, input *MatchPositionInput) (*MatchPositionOutput, error) {
	actor, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	outcome, trigger, err := s.services.Mood.MatchPage(ctx, actor, input.ID, input.Page, domain.Genre(input.Genre))
	if err != nil {
		return nil, err
	}

	out := &MatchPositionOutput{}
	if outcome == nil {
		return out, nil
	}

	tr := mapTrigger(trigger)
	out.Body.Matched = true
	out.Body.Trigger = &tr
	out.Body.Resolved = &ResolvedTriggerResponse{
		MoodName:       outcome.Mood.Name,
		Tempo:          outcome.Tempo,
		TransitionType: outcome.TransitionType,
	}
	return out, nil
}

// === Mapping ===

func mapPreset(p *domain.Preset) PresetResponse {
	return PresetResponse{
		ID:          p.ID,
		BookID:      p.BookID,
		CreatorID:   p.CreatorID,
		Name:        p.Name,
		Description: p.Description,
		IsDefault:   p.IsDefault,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func mapTrigger(t *domain.Trigger) TriggerResponse {
	return TriggerResponse{
		ID:                   t.ID,
		PresetID:             t.PresetID,
		MoodID:               t.MoodID,
		Condition:            t.Condition,
		MusicTrackID:         t.MusicTrackID,
		BackgroundImageURL:   t.BackgroundImageURL,
		TransitionDurationMs: t.TransitionDurationMs,
		IsActive:             t.IsActive,
		Priority:             t.Priority,
	}
}

func mapMapEntry(e *domain.MapEntry) MapEntryResponse {
	return MapEntryResponse{
		ID:             e.ID,
		PresetID:       e.PresetID,
		Chapter:        e.Chapter,
		PageFraction:   e.PageFraction,
		MoodID:         e.MoodID,
		BackgroundID:   e.BackgroundID,
		TransitionType: e.TransitionType,
	}
}
