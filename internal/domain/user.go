// Package domain contains the core entity types for the BookSphere server.
package domain

// Role controls what a user may author and administer.
type Role string

// User roles, ordered by capability.
const (
	RoleReader  Role = "reader"
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
)

// User is an account on the server. Password handling and registration live
// in the auth service; the realtime core only reads identity and settings.
type User struct {
	Syncable
	Email        string       `json:"email"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"`
	Role         Role         `json:"role"`
	Settings     UserSettings `json:"settings"`
}

// IsAdmin returns true for admin accounts.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanAuthor returns true if the user may create moods and presets.
func (u *User) CanAuthor() bool {
	return u.Role == RoleCreator || u.Role == RoleAdmin
}

// Theme selects the client color scheme.
type Theme string

// Supported themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Mood sensitivity bounds. Values outside this range are clamped before any
// tempo math happens.
const (
	MinMoodSensitivity = 0.1
	MaxMoodSensitivity = 2.0
)

// UserSettings holds per-user playback preferences. MoodSensitivity scales
// the base tempo of every resolved mood for this user.
type UserSettings struct {
	MoodSensitivity   float64 `json:"mood_sensitivity"`
	MusicVolume       int     `json:"music_volume"`
	DynamicBackground bool    `json:"dynamic_background"`
	Theme             Theme   `json:"theme"`
}

// DefaultUserSettings returns settings for a freshly registered user.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		MoodSensitivity:   1.0,
		MusicVolume:       70,
		DynamicBackground: true,
		Theme:             ThemeLight,
	}
}

// ClampSensitivity forces a sensitivity value into the allowed range.
func ClampSensitivity(v float64) float64 {
	if v < MinMoodSensitivity {
		return MinMoodSensitivity
	}
	if v > MaxMoodSensitivity {
		return MaxMoodSensitivity
	}
	return v
}
