package domain

import "time"

// PublicIDPrefix is the constant prefix of every shareable user id,
// e.g. "NIM-4F2A3B". The public id is the only handle other users need to
// add someone as a contact.
const PublicIDPrefix = "NIM-"

// DefaultAvatarColor is the packed RGBA used for new accounts until the user
// picks their own.
const DefaultAvatarColor = 0xFF4A90E2

type User struct {
	ID           string // internal ULID, never shown to users
	PublicID     string // "NIM-" + 6 uppercase alphanumerics, stable for life
	Username     string
	DisplayName  string
	PasswordHash string     // argon2id PHC string
	AvatarColor  uint32     // packed RGBA
	MFAEnabled   *time.Time // when TOTP was activated (nil = not enrolled)
	MFASecret    *string    // base32 TOTP secret (nil = not enrolled)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasMFA reports whether the user has an active TOTP second factor.
func (u User) HasMFA() bool { return u.MFAEnabled != nil && u.MFASecret != nil }

// Settings are the per-user UI preferences persisted on the user row.
type Settings struct {
	Theme         Theme
	Notifications bool
	FontSize      float64
}

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// DefaultSettings mirrors what a fresh account starts with.
func DefaultSettings() Settings {
	return Settings{Theme: ThemeDark, Notifications: true, FontSize: 14.0}
}
