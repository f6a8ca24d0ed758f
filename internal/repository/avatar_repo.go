package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"novblog/internal/models"
)

type AvatarRepository struct {
	db *sql.DB
}

func NewAvatarRepository(db *sql.DB) *AvatarRepository {
	return &AvatarRepository{db: db}
}

var _ Avatars = (*AvatarRepository)(nil)

const (
	// One row per user; a re-upload replaces the previous blob in a
	// single statement, so the swap is atomic for readers. Keyed by
	// user ID: a username change never touches this table.
	upsertAvatarSQL = `INSERT INTO avatars (user_id, content_type, data, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET content_type = excluded.content_type, data = excluded.data, updated_at = excluded.updated_at`

	selectAvatarSQL = `SELECT user_id, content_type, data, updated_at FROM avatars WHERE user_id = ?`
)

// Upsert stores or replaces the avatar for a user.
func (r *AvatarRepository) Upsert(ctx context.Context, a models.Avatar) error {
	_, err := r.db.ExecContext(ctx, upsertAvatarSQL,
		a.UserID, a.ContentType, a.Data, fmtTime(a.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert avatar for user id=%d: %w", a.UserID, err)
	}
	return nil
}

// Get fetches the avatar for a user. Returns (nil, nil) if not found.
func (r *AvatarRepository) Get(ctx context.Context, userID int) (*models.Avatar, error) {
	var a models.Avatar
	err := r.db.QueryRowContext(ctx, selectAvatarSQL, userID).
		Scan(&a.UserID, &a.ContentType, &a.Data, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select avatar for user id=%d: %w", userID, err)
	}
	a.UpdatedAt = a.UpdatedAt.UTC()
	return &a, nil
}
