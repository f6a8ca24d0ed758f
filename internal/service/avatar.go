package service

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"novblog/internal/models"
	"novblog/internal/repository"
)

// storedAvatarContentType is what fetch serves for every avatar,
// whatever the upload extension was. Matches the original system's
// behavior; the column exists so this can change without a migration.
const storedAvatarContentType = "image/jpeg"

// AvatarService stores one image blob per user.
type AvatarService struct {
	avatars repository.Avatars
	users   repository.Users
	formats []string
}

// NewAvatarService takes the allowed file extensions (matched
// case-sensitively, without the leading dot).
func NewAvatarService(avatars repository.Avatars, users repository.Users, formats []string) *AvatarService {
	if len(formats) == 0 {
		formats = []string{"jpg", "jpeg", "png", "bmp"}
	}
	return &AvatarService{avatars: avatars, users: users, formats: formats}
}

var _ Avatars = (*AvatarService)(nil)

// Upload validates the file extension and replaces the user's avatar.
func (s *AvatarService) Upload(ctx context.Context, username, filename string, data []byte) error {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}

	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if !s.allowed(ext) {
		return validationf("upload a %s image", strings.Join(s.formats, ", "))
	}
	if len(data) == 0 {
		return validationf("empty file")
	}

	return s.avatars.Upsert(ctx, models.Avatar{
		UserID:      u.ID,
		ContentType: storedAvatarContentType,
		Data:        data,
		UpdatedAt:   time.Now().UTC(),
	})
}

// Fetch returns the stored avatar for a username. The row is keyed by
// user ID, so a renamed user keeps their avatar.
func (s *AvatarService) Fetch(ctx context.Context, username string) (*models.Avatar, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	a, err := s.avatars.Get(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// AllowedFormats lists the accepted extensions (for the upload form).
func (s *AvatarService) AllowedFormats() []string {
	return s.formats
}

func (s *AvatarService) allowed(ext string) bool {
	for _, f := range s.formats {
		if ext == f {
			return true
		}
	}
	return false
}
