package models

import "time"

// Session is the server-side record behind the session cookie. The
// cookie carries only Token; everything else stays in the store.
type Session struct {
	Token     string    `json:"-"`
	UserID    int       `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
