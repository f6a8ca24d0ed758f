package service

import (
	"context"
	"time"

	"novblog/internal/logger"
	"novblog/internal/models"
	"novblog/internal/repository"
)

type Credentials interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Verify(ctx context.Context, username, password string) (*models.User, error)
	SetPassword(ctx context.Context, userID int, newPassword string) error
}

// Sessions establishes and tears down the authenticated principal
// behind the session cookie.
type Sessions interface {
	Login(ctx context.Context, username, password string, remember bool) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	Resolve(ctx context.Context, token, rememberToken string) (Resolution, error)
	Ping(ctx context.Context, userID int) error
	PurgeExpired(ctx context.Context) (int64, error)
}

// Permissions gates protected operations by the principal's role.
type Permissions interface {
	Authorize(p models.Principal, c Capability) Decision
}

type Posts interface {
	Create(ctx context.Context, author *models.User, in PostInput) (*models.Post, error)
	Get(ctx context.Context, postID string, requester *models.User) (*models.Post, error)
	Update(ctx context.Context, postID string, editor *models.User, in PostInput) (*models.Post, error)
	SetStatus(ctx context.Context, postID string, editor *models.User, status string) (*models.Post, error)
	Delete(ctx context.Context, postID string, requester *models.User) (string, error)
	ListByAuthorAndStatus(ctx context.Context, authorID int, status string, page int) (PostPage, error)
	DistinctTags(ctx context.Context) ([]string, error)
	DistinctCategories(ctx context.Context) ([]string, error)
}

type Avatars interface {
	Upload(ctx context.Context, username, filename string, data []byte) error
	Fetch(ctx context.Context, username string) (*models.Avatar, error)
	AllowedFormats() []string
}

type Profiles interface {
	Get(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, requester *models.User, username string, in EditProfileInput) (*models.User, error)
}

// Sweeper runs the background loop that purges expired sessions.
// Stop via context cancellation in main() for graceful shutdown.
type Sweeper interface {
	Run(ctx context.Context, tick time.Duration)
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string // defaults to reader when empty
}

// PostInput carries the post form fields. Tags is the raw
// comma-separated form value; the service normalizes it into a set.
type PostInput struct {
	Title    string
	Content  string
	Tags     string
	Category string
	Status   string // draft | published
}

// EditProfileInput carries the profile form fields. NewPassword is
// optional; when set the old password stops working immediately.
type EditProfileInput struct {
	Username    string
	Email       string
	AboutMe     string
	NewPassword string
}

// LoginResult is what a successful login hands back to the handler:
// the new session plus the remember token (empty unless requested).
type LoginResult struct {
	Session       models.Session
	User          *models.User
	RememberToken string
}

// Resolution is the identity resolved for one request. Renewed is set
// when the session was re-minted from the remember token, so the
// handler must re-issue the session cookie.
type Resolution struct {
	Principal models.Principal
	Session   *models.Session
	Renewed   bool
}

// PostPage is one page of posts plus the pagination metadata the
// listing UI needs.
type PostPage struct {
	Items   []models.Post `json:"items"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
	Total   int           `json:"total"`
	Pages   int           `json:"pages"`
	HasPrev bool          `json:"has_prev"`
	HasNext bool          `json:"has_next"`
}

// Config carries the tunables services read from the config file.
type Config struct {
	PostsPerPage  int
	AvatarFormats []string
	SessionTTL    time.Duration
	RememberTTL   time.Duration
	SigningKey    string
}

type Service struct {
	Credentials
	Sessions
	Permissions
	Posts
	Avatars
	Profiles
	Sweeper
}

// NewService wires the repository layer into concrete services. log
// may be nil; only the background sweeper uses it.
func NewService(repos *repository.Repository, cfg Config, log *logger.Logger) *Service {
	creds := NewCredentialService(repos.Users)
	return &Service{
		Credentials: creds,
		Sessions:    NewSessionService(repos.Sessions, repos.Users, creds, cfg),
		Permissions: NewPermissionService(),
		Posts:       NewPostService(repos.Posts, cfg.PostsPerPage),
		Avatars:     NewAvatarService(repos.Avatars, repos.Users, cfg.AvatarFormats),
		Profiles:    NewProfileService(repos.Users, creds),
		Sweeper:     NewSweeperService(repos.Sessions, log),
	}
}
