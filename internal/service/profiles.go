package service

import (
	"context"
	"strings"

	"novblog/internal/models"
	"novblog/internal/repository"
)

// ProfileService reads and edits user profiles. Edits are self-only;
// the route gate already guarantees an authenticated requester.
type ProfileService struct {
	users repository.Users
	creds Credentials
}

func NewProfileService(users repository.Users, creds Credentials) *ProfileService {
	return &ProfileService{users: users, creds: creds}
}

var _ Profiles = (*ProfileService)(nil)

// Get returns a user's profile by username.
func (s *ProfileService) Get(ctx context.Context, username string) (*models.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// Update applies the edit-profile form. Only the profile owner may
// edit it. A non-empty NewPassword replaces the password immediately.
func (s *ProfileService) Update(ctx context.Context, requester *models.User, username string, in EditProfileInput) (*models.User, error) {
	if requester == nil || requester.Username != username {
		return nil, ErrForbidden
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}

	newUsername := strings.TrimSpace(in.Username)
	newEmail := strings.TrimSpace(in.Email)
	if newUsername == "" {
		return nil, validationf("username is required")
	}
	if newEmail == "" {
		return nil, validationf("email is required")
	}
	if len(newUsername) > maxFieldLen {
		return nil, validationf("username must be at most %d characters", maxFieldLen)
	}
	if len(newEmail) > maxFieldLen {
		return nil, validationf("email must be at most %d characters", maxFieldLen)
	}

	if newUsername != u.Username {
		if other, err := s.users.GetByUsername(ctx, newUsername); err != nil {
			return nil, err
		} else if other != nil {
			return nil, validationf("username %q is already taken", newUsername)
		}
	}
	if newEmail != u.Email {
		if other, err := s.users.GetByEmail(ctx, newEmail); err != nil {
			return nil, err
		} else if other != nil {
			return nil, validationf("email %q is already registered", newEmail)
		}
	}

	if err := s.users.UpdateProfile(ctx, u.ID, newUsername, newEmail, strings.TrimSpace(in.AboutMe)); err != nil {
		return nil, err
	}
	if in.NewPassword != "" {
		if err := s.creds.SetPassword(ctx, u.ID, in.NewPassword); err != nil {
			return nil, err
		}
	}

	u.Username = newUsername
	u.Email = newEmail
	u.AboutMe = strings.TrimSpace(in.AboutMe)
	return u, nil
}
