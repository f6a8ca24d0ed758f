package service

import (
	"context"
	"strings"
	"time"

	"novblog/internal/models"
	"novblog/internal/repository"

	"github.com/google/uuid"
)

// PostService owns the post lifecycle: creation, edits, the
// draft↔published transition and paginated listing. Every mutation
// checks that the caller is the author.
type PostService struct {
	posts   repository.Posts
	perPage int
}

func NewPostService(posts repository.Posts, perPage int) *PostService {
	if perPage <= 0 {
		perPage = 10
	}
	return &PostService{posts: posts, perPage: perPage}
}

var _ Posts = (*PostService)(nil)

// Create stores a new post authored by author.
func (s *PostService) Create(ctx context.Context, author *models.User, in PostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, validationf("title is required")
	}
	if !models.ValidStatus(in.Status) {
		return nil, validationf("unknown status %q", in.Status)
	}

	now := time.Now().UTC()
	p := models.Post{
		ID:          uuid.NewString(),
		AuthorID:    author.ID,
		Title:       in.Title,
		Content:     in.Content,
		Tags:        normalizeTags(in.Tags),
		Category:    normalizeCategory(in.Category),
		Status:      in.Status,
		PublishTime: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.posts.Insert(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Get fetches one post for its author (edit prefill).
func (s *PostService) Get(ctx context.Context, postID string, requester *models.User) (*models.Post, error) {
	return s.getOwned(ctx, postID, requester)
}

// Update applies the edit form to an owned post. Publishing a draft
// refreshes publish_time; saving back to draft keeps it.
func (s *PostService) Update(ctx context.Context, postID string, editor *models.User, in PostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, validationf("title is required")
	}
	if !models.ValidStatus(in.Status) {
		return nil, validationf("unknown status %q", in.Status)
	}

	p, err := s.getOwned(ctx, postID, editor)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p.Title = in.Title
	p.Content = in.Content
	p.Tags = normalizeTags(in.Tags)
	p.Category = normalizeCategory(in.Category)
	applyStatus(p, in.Status, now)
	p.UpdatedAt = now

	if err := s.posts.Update(ctx, *p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetStatus moves an owned post between draft and published without
// touching its content.
func (s *PostService) SetStatus(ctx context.Context, postID string, editor *models.User, status string) (*models.Post, error) {
	if !models.ValidStatus(status) {
		return nil, validationf("unknown status %q", status)
	}
	p, err := s.getOwned(ctx, postID, editor)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	applyStatus(p, status, now)
	p.UpdatedAt = now

	if err := s.posts.Update(ctx, *p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes an owned post and returns the status it had before
// removal, so the caller can route feedback to the right listing.
func (s *PostService) Delete(ctx context.Context, postID string, requester *models.User) (string, error) {
	p, err := s.getOwned(ctx, postID, requester)
	if err != nil {
		return "", err
	}
	priorStatus := p.Status
	if err := s.posts.Delete(ctx, postID); err != nil {
		return "", err
	}
	return priorStatus, nil
}

// ListByAuthorAndStatus returns one page ordered by publish_time
// descending. Out-of-range pages yield an empty page, never an error.
func (s *PostService) ListByAuthorAndStatus(ctx context.Context, authorID int, status string, page int) (PostPage, error) {
	if !models.ValidStatus(status) {
		return PostPage{}, validationf("unknown status %q", status)
	}
	if page < 1 {
		page = 1
	}

	total, err := s.posts.CountByAuthorAndStatus(ctx, authorID, status)
	if err != nil {
		return PostPage{}, err
	}
	pages := (total + s.perPage - 1) / s.perPage

	items := []models.Post{}
	offset := (page - 1) * s.perPage
	if offset < total {
		items, err = s.posts.ListByAuthorAndStatus(ctx, authorID, status, s.perPage, offset)
		if err != nil {
			return PostPage{}, err
		}
	}

	return PostPage{
		Items:   items,
		Page:    page,
		PerPage: s.perPage,
		Total:   total,
		Pages:   pages,
		HasPrev: page > 1,
		HasNext: page < pages,
	}, nil
}

func (s *PostService) DistinctTags(ctx context.Context) ([]string, error) {
	return s.posts.DistinctTags(ctx)
}

func (s *PostService) DistinctCategories(ctx context.Context) ([]string, error) {
	return s.posts.DistinctCategories(ctx)
}

// getOwned loads a post and enforces that requester is its author.
func (s *PostService) getOwned(ctx context.Context, postID string, requester *models.User) (*models.Post, error) {
	p, err := s.posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	if requester == nil || p.AuthorID != requester.ID {
		return nil, ErrForbidden
	}
	return p, nil
}

// applyStatus performs the draft↔published transition. publish_time
// only moves forward: it is stamped when a post becomes published and
// left alone when a published post is published again.
func applyStatus(p *models.Post, status string, now time.Time) {
	if status == models.StatusPublished && p.Status != models.StatusPublished {
		p.PublishTime = now
	}
	p.Status = status
}

// normalizeTags splits the raw comma-separated value into a set of
// trimmed, non-empty, unique tags. Empty input yields nil.
func normalizeTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	seen := make(map[string]bool)
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

// normalizeCategory trims the category; empty means absent.
func normalizeCategory(raw string) string {
	return strings.TrimSpace(raw)
}
