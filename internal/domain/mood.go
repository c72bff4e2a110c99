package domain

// Tempo bounds for mood reference data, in beats per minute. These bound the
// stored base tempos only; sensitivity scaling can push the adjusted output
// tempo past MaxTempo (see mood.Resolver).
const (
	MinTempo = 30
	MaxTempo = 200
)

// Genre identifies which base tempo field applies for a user.
type Genre string

// Known genres. Anything else falls back to the custom tempo when set,
// otherwise electronic.
const (
	GenreElectronic Genre = "electronic"
	GenreClassical  Genre = "classical"
	GenreLofi       Genre = "lofi"
	GenreCustom     Genre = "custom"
)

// Mood is immutable reference data: a named emotional category with a base
// tempo per genre. Created by creators or admins, never edited in place by
// the realtime core.
type Mood struct {
	Syncable
	Name            string `json:"name"`
	TempoElectronic int    `json:"tempo_electronic"`
	TempoClassical  int    `json:"tempo_classical"`
	TempoLofi       int    `json:"tempo_lofi"`
	// TempoCustom may be zero, meaning "no custom tempo authored".
	TempoCustom int `json:"tempo_custom"`
}

// BaseTempo selects the base tempo for a genre. Unknown genres (including
// explicit "custom") use the custom tempo when authored, else electronic.
func (m *Mood) BaseTempo(genre Genre) int {
	switch genre {
	case GenreElectronic:
		return m.TempoElectronic
	case GenreClassical:
		return m.TempoClassical
	case GenreLofi:
		return m.TempoLofi
	default:
		if m.TempoCustom != 0 {
			return m.TempoCustom
		}
		return m.TempoElectronic
	}
}

// ValidTempo reports whether a stored base tempo is inside the allowed range.
func ValidTempo(bpm int) bool {
	return bpm >= MinTempo && bpm <= MaxTempo
}

// Background is a mood-scoped background image. The stored path is private;
// clients receive a signed URL instead.
type Background struct {
	Syncable
	MoodID string `json:"mood_id"`
	Path   string `json:"path"`
}
