package service

import (
	"context"
	"sort"
	"time"

	"novblog/internal/models"
	"novblog/internal/repository"
)

// In-memory repository fakes shared by the service tests. They mirror
// the (nil, nil) not-found convention of the real repositories.

type fakeUsers struct {
	nextID            int
	byID              map[int]models.User
	updateLastSeenErr error
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[int]models.User{}} }

var _ repository.Users = (*fakeUsers)(nil)

func (f *fakeUsers) Create(_ context.Context, u *models.User) (int, error) {
	f.nextID++
	cp := *u
	cp.ID = f.nextID
	f.byID[cp.ID] = cp
	return cp.ID, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		cp := u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id int, username, email, aboutMe string) error {
	u := f.byID[id]
	u.Username, u.Email, u.AboutMe = username, email, aboutMe
	f.byID[id] = u
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id int, passwordHash string) error {
	u := f.byID[id]
	u.PasswordHash = passwordHash
	f.byID[id] = u
	return nil
}

func (f *fakeUsers) UpdateLastSeen(_ context.Context, id int, t time.Time) error {
	if f.updateLastSeenErr != nil {
		return f.updateLastSeenErr
	}
	u := f.byID[id]
	u.LastSeen = t
	f.byID[id] = u
	return nil
}

type fakeSessions struct {
	byToken map[string]models.Session
}

func newFakeSessions() *fakeSessions { return &fakeSessions{byToken: map[string]models.Session{}} }

var _ repository.Sessions = (*fakeSessions)(nil)

func (f *fakeSessions) Create(_ context.Context, s models.Session) error {
	f.byToken[s.Token] = s
	return nil
}

func (f *fakeSessions) Get(_ context.Context, token string) (*models.Session, error) {
	if s, ok := f.byToken[token]; ok {
		cp := s
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeSessions) Delete(_ context.Context, token string) error {
	delete(f.byToken, token)
	return nil
}

func (f *fakeSessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for token, s := range f.byToken {
		if s.Expired(now) {
			delete(f.byToken, token)
			n++
		}
	}
	return n, nil
}

type fakePosts struct {
	byID map[string]models.Post
}

func newFakePosts() *fakePosts { return &fakePosts{byID: map[string]models.Post{}} }

var _ repository.Posts = (*fakePosts)(nil)

func (f *fakePosts) Insert(_ context.Context, p models.Post) error {
	f.byID[p.ID] = p
	return nil
}

func (f *fakePosts) Get(_ context.Context, id string) (*models.Post, error) {
	if p, ok := f.byID[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakePosts) Update(_ context.Context, p models.Post) error {
	f.byID[p.ID] = p
	return nil
}

func (f *fakePosts) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakePosts) ListByAuthorAndStatus(_ context.Context, authorID int, status string, limit, offset int) ([]models.Post, error) {
	matches := f.matching(authorID, status)
	if offset >= len(matches) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[offset:end], nil
}

func (f *fakePosts) CountByAuthorAndStatus(_ context.Context, authorID int, status string) (int, error) {
	return len(f.matching(authorID, status)), nil
}

func (f *fakePosts) DistinctTags(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var tags []string
	for _, p := range f.byID {
		for _, t := range p.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	return tags, nil
}

func (f *fakePosts) DistinctCategories(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var cats []string
	for _, p := range f.byID {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			cats = append(cats, p.Category)
		}
	}
	return cats, nil
}

func (f *fakePosts) matching(authorID int, status string) []models.Post {
	var out []models.Post
	for _, p := range f.byID {
		if p.AuthorID == authorID && p.Status == status {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublishTime.Equal(out[j].PublishTime) {
			return out[i].PublishTime.After(out[j].PublishTime)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

type fakeAvatars struct {
	byUser map[int]models.Avatar
}

func newFakeAvatars() *fakeAvatars { return &fakeAvatars{byUser: map[int]models.Avatar{}} }

var _ repository.Avatars = (*fakeAvatars)(nil)

func (f *fakeAvatars) Upsert(_ context.Context, a models.Avatar) error {
	f.byUser[a.UserID] = a
	return nil
}

func (f *fakeAvatars) Get(_ context.Context, userID int) (*models.Avatar, error) {
	if a, ok := f.byUser[userID]; ok {
		cp := a
		return &cp, nil
	}
	return nil, nil
}
