package handlers

import (
	"context"
	"time"

	"novblog/internal/models"
	"novblog/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockCredentials struct {
	registerUser *models.User
	registerErr  error
	verifyUser   *models.User
	verifyErr    error
	setPassErr   error

	lastRegister service.RegisterInput
}

func (m *mockCredentials) Register(ctx context.Context, in service.RegisterInput) (*models.User, error) {
	m.lastRegister = in
	return m.registerUser, m.registerErr
}
func (m *mockCredentials) Verify(ctx context.Context, username, password string) (*models.User, error) {
	return m.verifyUser, m.verifyErr
}
func (m *mockCredentials) SetPassword(ctx context.Context, userID int, newPassword string) error {
	return m.setPassErr
}

type mockSessions struct {
	loginRes   *service.LoginResult
	loginErr   error
	logoutErr  error
	resolveRes service.Resolution
	resolveErr error
	pingErr    error

	lastLoginUsername string
	lastLoginPassword string
	lastLoginRemember bool
	lastLogoutToken   string
	lastResolveToken  string
	pingCalls         int
}

func (m *mockSessions) Login(ctx context.Context, username, password string, remember bool) (*service.LoginResult, error) {
	m.lastLoginUsername = username
	m.lastLoginPassword = password
	m.lastLoginRemember = remember
	return m.loginRes, m.loginErr
}
func (m *mockSessions) Logout(ctx context.Context, token string) error {
	m.lastLogoutToken = token
	return m.logoutErr
}
func (m *mockSessions) Resolve(ctx context.Context, token, rememberToken string) (service.Resolution, error) {
	m.lastResolveToken = token
	if m.resolveErr != nil {
		return service.Resolution{Principal: models.Anonymous()}, m.resolveErr
	}
	if m.resolveRes.Principal.User == nil {
		return service.Resolution{Principal: models.Anonymous()}, nil
	}
	return m.resolveRes, nil
}
func (m *mockSessions) Ping(ctx context.Context, userID int) error {
	m.pingCalls++
	return m.pingErr
}
func (m *mockSessions) PurgeExpired(ctx context.Context) (int64, error) { return 0, nil }

type mockPosts struct {
	createPost *models.Post
	createErr  error
	getPost    *models.Post
	getErr     error
	updatePost *models.Post
	updateErr  error
	statusPost *models.Post
	statusErr  error
	deleteStat string
	deleteErr  error
	listPage   service.PostPage
	listErr    error
	tags       []string
	tagsErr    error
	categories []string
	catsErr    error

	lastCreateInput service.PostInput
	lastListStatus  string
	lastListPage    int
	deleteCalls     int
}

func (m *mockPosts) Create(ctx context.Context, author *models.User, in service.PostInput) (*models.Post, error) {
	m.lastCreateInput = in
	return m.createPost, m.createErr
}
func (m *mockPosts) Get(ctx context.Context, postID string, requester *models.User) (*models.Post, error) {
	return m.getPost, m.getErr
}
func (m *mockPosts) Update(ctx context.Context, postID string, editor *models.User, in service.PostInput) (*models.Post, error) {
	return m.updatePost, m.updateErr
}
func (m *mockPosts) SetStatus(ctx context.Context, postID string, editor *models.User, status string) (*models.Post, error) {
	return m.statusPost, m.statusErr
}
func (m *mockPosts) Delete(ctx context.Context, postID string, requester *models.User) (string, error) {
	m.deleteCalls++
	return m.deleteStat, m.deleteErr
}
func (m *mockPosts) ListByAuthorAndStatus(ctx context.Context, authorID int, status string, page int) (service.PostPage, error) {
	m.lastListStatus = status
	m.lastListPage = page
	return m.listPage, m.listErr
}
func (m *mockPosts) DistinctTags(ctx context.Context) ([]string, error) { return m.tags, m.tagsErr }
func (m *mockPosts) DistinctCategories(ctx context.Context) ([]string, error) {
	return m.categories, m.catsErr
}

type mockAvatars struct {
	uploadErr error
	fetchAv   *models.Avatar
	fetchErr  error
	formats   []string

	lastUploadUsername string
	lastUploadFilename string
	lastUploadData     []byte
}

func (m *mockAvatars) Upload(ctx context.Context, username, filename string, data []byte) error {
	m.lastUploadUsername = username
	m.lastUploadFilename = filename
	m.lastUploadData = data
	return m.uploadErr
}
func (m *mockAvatars) Fetch(ctx context.Context, username string) (*models.Avatar, error) {
	return m.fetchAv, m.fetchErr
}
func (m *mockAvatars) AllowedFormats() []string { return m.formats }

type mockProfiles struct {
	getUser    *models.User
	getErr     error
	updateUser *models.User
	updateErr  error
}

func (m *mockProfiles) Get(ctx context.Context, username string) (*models.User, error) {
	return m.getUser, m.getErr
}
func (m *mockProfiles) Update(ctx context.Context, requester *models.User, username string, in service.EditProfileInput) (*models.User, error) {
	return m.updateUser, m.updateErr
}

type mockSweeper struct{}

func (m *mockSweeper) Run(ctx context.Context, tick time.Duration) {}

// newTestRouter builds a router over the given service aggregate. The
// permission evaluator is always the real one; it is pure.
func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if s.Permissions == nil {
		s.Permissions = service.NewPermissionService()
	}
	if s.Sweeper == nil {
		s.Sweeper = &mockSweeper{}
	}
	h := NewHandler(s, nil)
	return h.InitRoutes()
}

// sessionFor wires a mockSessions that resolves the given user for any
// request carrying the session cookie.
func sessionFor(u *models.User) *mockSessions {
	return &mockSessions{
		resolveRes: service.Resolution{
			Principal: models.Authenticated(u),
			Session:   &models.Session{Token: "tok", UserID: u.ID},
		},
	}
}
