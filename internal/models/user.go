package models

import "time"

// Roles a user can hold. Each higher tier keeps the lower tier's
// capabilities; the mapping lives in the permission service.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleReader = "reader"
)

// ValidRole reports whether role is one of the three known tiers.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleReader:
		return true
	}
	return false
}

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialized
	Role         string    `json:"role"`
	AboutMe      string    `json:"about_me,omitempty"`
	LastSeen     time.Time `json:"last_seen"`
}
