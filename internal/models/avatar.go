package models

import "time"

// Avatar is a per-user image blob. One row per user; uploads replace
// the previous content wholesale. Keyed by user ID so profile renames
// leave the row untouched.
type Avatar struct {
	UserID      int
	ContentType string
	Data        []byte
	UpdatedAt   time.Time
}
