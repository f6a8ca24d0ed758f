package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"novblog/internal/models"
	"novblog/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// maxFieldLen bounds username and email, matching the column widths of
// the original schema.
const maxFieldLen = 64

// CredentialService owns password hashing and user registration.
type CredentialService struct {
	users repository.Users
}

func NewCredentialService(users repository.Users) *CredentialService {
	return &CredentialService{users: users}
}

var _ Credentials = (*CredentialService)(nil)

// Register validates the input, hashes the password and creates the
// user. Only the hash is ever stored.
func (s *CredentialService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if username == "" {
		return nil, validationf("username is required")
	}
	if email == "" {
		return nil, validationf("email is required")
	}
	if len(username) > maxFieldLen {
		return nil, validationf("username must be at most %d characters", maxFieldLen)
	}
	if len(email) > maxFieldLen {
		return nil, validationf("email must be at most %d characters", maxFieldLen)
	}

	role := in.Role
	if role == "" {
		role = models.RoleReader
	}
	if !models.ValidRole(role) {
		return nil, validationf("unknown role %q", in.Role)
	}

	if existing, err := s.users.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, validationf("username %q is already taken", username)
	}
	if existing, err := s.users.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, validationf("email %q is already registered", email)
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, validationf("invalid password: %v", err)
	}

	u := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	id, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = id
	return u, nil
}

// Verify checks a raw password against the stored hash. Unknown users
// yield ErrNotFound and mismatches ErrInvalidPassword; callers facing
// the client must collapse both into one uniform message.
func (s *CredentialService) Verify(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidPassword
	}
	return u, nil
}

// SetPassword replaces the stored hash; the previous password stops
// verifying as soon as this returns.
func (s *CredentialService) SetPassword(ctx context.Context, userID int, newPassword string) error {
	hash, err := hashPassword(newPassword)
	if err != nil {
		return validationf("invalid password: %v", err)
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
