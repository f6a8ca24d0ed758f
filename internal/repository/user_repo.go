package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"novblog/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserRepository)(nil)

const (
	insertUserSQL = `INSERT INTO users (username, email, password_hash, role, about_me, last_seen) VALUES (?, ?, ?, ?, ?, ?)`

	selectUserColumns = `id, username, email, password_hash, role, about_me, last_seen`

	selectUserByIDSQL       = `SELECT ` + selectUserColumns + ` FROM users WHERE id = ?`
	selectUserByUsernameSQL = `SELECT ` + selectUserColumns + ` FROM users WHERE username = ?`
	selectUserByEmailSQL    = `SELECT ` + selectUserColumns + ` FROM users WHERE email = ?`

	updateUserProfileSQL  = `UPDATE users SET username = ?, email = ?, about_me = ? WHERE id = ?`
	updateUserPasswordSQL = `UPDATE users SET password_hash = ? WHERE id = ?`
	updateUserLastSeenSQL = `UPDATE users SET last_seen = ? WHERE id = ?`
)

// Create inserts a new user and returns its ID.
func (r *UserRepository) Create(ctx context.Context, u *models.User) (int, error) {
	var lastSeen any
	if !u.LastSeen.IsZero() {
		lastSeen = fmtTime(u.LastSeen)
	}
	res, err := r.db.ExecContext(ctx, insertUserSQL,
		u.Username, u.Email, u.PasswordHash, u.Role, nullIfEmpty(u.AboutMe), lastSeen)
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", u.Username, err)
	}
	return int(lastID), nil
}

// GetByID fetches a user by primary key. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, err := r.scanUser(r.db.QueryRowContext(ctx, selectUserByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("select user id=%d: %w", id, err)
	}
	return u, nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := r.scanUser(r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username))
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return u, nil
}

// GetByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := r.scanUser(r.db.QueryRowContext(ctx, selectUserByEmailSQL, email))
	if err != nil {
		return nil, fmt.Errorf("select user by email %q: %w", email, err)
	}
	return u, nil
}

// UpdateProfile replaces the mutable profile fields of one user.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int, username, email, aboutMe string) error {
	if _, err := r.db.ExecContext(ctx, updateUserProfileSQL, username, email, nullIfEmpty(aboutMe), id); err != nil {
		return fmt.Errorf("update profile for user id=%d: %w", id, err)
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	if _, err := r.db.ExecContext(ctx, updateUserPasswordSQL, passwordHash, id); err != nil {
		return fmt.Errorf("update password for user id=%d: %w", id, err)
	}
	return nil
}

// UpdateLastSeen stamps the last activity time of one user.
func (r *UserRepository) UpdateLastSeen(ctx context.Context, id int, t time.Time) error {
	if _, err := r.db.ExecContext(ctx, updateUserLastSeenSQL, fmtTime(t), id); err != nil {
		return fmt.Errorf("update last_seen for user id=%d: %w", id, err)
	}
	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var (
		u        models.User
		aboutMe  sql.NullString
		lastSeen sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &aboutMe, &lastSeen)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.AboutMe = aboutMe.String
	if lastSeen.Valid {
		u.LastSeen = lastSeen.Time.UTC()
	}
	return &u, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
