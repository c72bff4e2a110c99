package domain

// Preset is a book-scoped, creator-owned configuration of mood transitions.
// At most one preset per book may be the default; the store enforces it.
type Preset struct {
	Syncable
	CreatorID   string `json:"creator_id"`
	BookID      string `json:"book_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsDefault   bool   `json:"is_default"`
}

// CanModify reports whether a user may update or delete this preset.
// Only the owning creator or an admin qualifies.
func (p *Preset) CanModify(u *User) bool {
	return u.ID == p.CreatorID || u.IsAdmin()
}

// Transition defaults and bounds, in milliseconds.
const (
	DefaultTransitionDurationMs = 3000
	MaxTransitionDurationMs     = 30000
)

// DefaultTransitionType is used when a trigger or map entry leaves the
// transition unset.
const DefaultTransitionType = "fade"

// PageRange is a closed numeric page interval.
type PageRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Contains reports whether page falls inside the closed range.
func (r PageRange) Contains(page int) bool {
	return page >= r.From && page <= r.To
}

// TriggerCondition is the structured predicate of a trigger rule. Only the
// page range participates in position matching; the remaining predicates are
// carried for clients and future matchers. A rule with no page range matches
// every position.
type TriggerCondition struct {
	PageRange    *PageRange `json:"page_range,omitempty"`
	Keywords     []string   `json:"keywords,omitempty"`
	PassageText  string     `json:"passage_text,omitempty"`
	TimeOfDay    string     `json:"time_of_day,omitempty"`
	ReadingSpeed float64    `json:"reading_speed,omitempty"`
}

// MatchesPage reports whether the condition is satisfied at an absolute page.
// Absence of a page range means "matches everywhere".
func (c TriggerCondition) MatchesPage(page int) bool {
	if c.PageRange == nil {
		return true
	}
	return c.PageRange.Contains(page)
}

// Trigger is a rule inside a preset associating a position predicate with a
// mood and playback parameters. Lower priority value wins; creation order
// breaks ties.
type Trigger struct {
	Syncable
	PresetID             string           `json:"preset_id"`
	MoodID               string           `json:"mood_id"`
	Condition            TriggerCondition `json:"trigger_condition"`
	MusicTrackID         string           `json:"music_track_id,omitempty"`
	BackgroundImageURL   string           `json:"background_image_url,omitempty"`
	TransitionDurationMs int              `json:"transition_duration_ms"`
	IsActive             bool             `json:"is_active"`
	Priority             int              `json:"priority"`
}

// MapEntry is a mood breakpoint inside a preset: from this (chapter,
// page_fraction) onward the referenced mood applies, until a later
// breakpoint is crossed. Entries are ordered lexicographically by
// (chapter, page_fraction).
type MapEntry struct {
	Syncable
	PresetID       string  `json:"preset_id"`
	Chapter        int     `json:"chapter"`
	PageFraction   float64 `json:"page_fraction"`
	MoodID         string  `json:"mood_id,omitempty"`
	BackgroundID   string  `json:"background_id,omitempty"`
	TransitionType string  `json:"transition_type,omitempty"`
}

// Before reports whether this entry's breakpoint lies at or before the given
// position in (chapter, page_fraction) lexicographic order.
func (e *MapEntry) Before(chapter int, pageFraction float64) bool {
	if e.Chapter != chapter {
		return e.Chapter < chapter
	}
	return e.PageFraction <= pageFraction
}
