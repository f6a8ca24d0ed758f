package repository

import (
	"context"
	"database/sql"
	"time"

	"novblog/internal/models"
)

type Users interface {
	Create(ctx context.Context, u *models.User) (int, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id int, username, email, aboutMe string) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	UpdateLastSeen(ctx context.Context, id int, t time.Time) error
}

type Sessions interface {
	Create(ctx context.Context, s models.Session) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Posts interface {
	Insert(ctx context.Context, p models.Post) error
	Get(ctx context.Context, id string) (*models.Post, error)
	Update(ctx context.Context, p models.Post) error
	Delete(ctx context.Context, id string) error
	ListByAuthorAndStatus(ctx context.Context, authorID int, status string, limit, offset int) ([]models.Post, error)
	CountByAuthorAndStatus(ctx context.Context, authorID int, status string) (int, error)
	DistinctTags(ctx context.Context) ([]string, error)
	DistinctCategories(ctx context.Context) ([]string, error)
}

type Avatars interface {
	Upsert(ctx context.Context, a models.Avatar) error
	Get(ctx context.Context, userID int) (*models.Avatar, error)
}

type Repository struct {
	Users    Users
	Sessions Sessions
	Posts    Posts
	Avatars  Avatars
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:    NewUserRepository(db),
		Sessions: NewSessionRepository(db),
		Posts:    NewPostRepository(db),
		Avatars:  NewAvatarRepository(db),
	}
}

// SQLite TIMESTAMP format used for all stored timestamps.
const timeLayout = "2006-01-02 15:04:05"

func fmtTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
