package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"novblog/internal/models"
)

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

var _ Posts = (*PostRepository)(nil)

const (
	insertPostSQL = `INSERT INTO posts (id, author_id, title, content, category, status, publish_time, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectPostColumns = `id, author_id, title, content, category, status, publish_time, created_at, updated_at`

	selectPostByIDSQL = `SELECT ` + selectPostColumns + ` FROM posts WHERE id = ?`

	updatePostSQL = `UPDATE posts SET title = ?, content = ?, category = ?, status = ?, publish_time = ?, updated_at = ? WHERE id = ?`

	deletePostSQL = `DELETE FROM posts WHERE id = ?`

	listPostsSQL = `SELECT ` + selectPostColumns + ` FROM posts WHERE author_id = ? AND status = ? ORDER BY publish_time DESC, created_at DESC LIMIT ? OFFSET ?`

	countPostsSQL = `SELECT COUNT(*) FROM posts WHERE author_id = ? AND status = ?`

	selectPostTagsSQL = `SELECT tag FROM post_tags WHERE post_id = ? ORDER BY rowid`
	insertPostTagSQL  = `INSERT INTO post_tags (post_id, tag) VALUES (?, ?)`
	deletePostTagsSQL = `DELETE FROM post_tags WHERE post_id = ?`

	distinctTagsSQL       = `SELECT DISTINCT tag FROM post_tags`
	distinctCategoriesSQL = `SELECT DISTINCT category FROM posts WHERE category IS NOT NULL`
)

// Insert stores a post and its tags in one transaction.
func (r *PostRepository) Insert(ctx context.Context, p models.Post) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert post: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, insertPostSQL,
		p.ID, p.AuthorID, p.Title, p.Content, nullIfEmpty(p.Category),
		p.Status, fmtTime(p.PublishTime), fmtTime(p.CreatedAt), fmtTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert post %q: %w", p.ID, err)
	}
	if err := insertTags(ctx, tx, p.ID, p.Tags); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert post %q: %w", p.ID, err)
	}
	return nil
}

// Get fetches a post with its tags. Returns (nil, nil) if not found.
func (r *PostRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	var (
		p        models.Post
		category sql.NullString
	)
	err := r.db.QueryRowContext(ctx, selectPostByIDSQL, id).Scan(
		&p.ID, &p.AuthorID, &p.Title, &p.Content, &category,
		&p.Status, &p.PublishTime, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select post %q: %w", id, err)
	}
	p.Category = category.String
	normalizePostTimes(&p)

	tags, err := r.tagsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Tags = tags
	return &p, nil
}

// Update replaces a post row and rewrites its tag set in one transaction.
func (r *PostRepository) Update(ctx context.Context, p models.Post) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update post: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, updatePostSQL,
		p.Title, p.Content, nullIfEmpty(p.Category), p.Status,
		fmtTime(p.PublishTime), fmtTime(p.UpdatedAt), p.ID)
	if err != nil {
		return fmt.Errorf("update post %q: %w", p.ID, err)
	}
	if _, err := tx.ExecContext(ctx, deletePostTagsSQL, p.ID); err != nil {
		return fmt.Errorf("clear tags for post %q: %w", p.ID, err)
	}
	if err := insertTags(ctx, tx, p.ID, p.Tags); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update post %q: %w", p.ID, err)
	}
	return nil
}

// Delete removes a post; its tags go with it via ON DELETE CASCADE.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, deletePostSQL, id); err != nil {
		return fmt.Errorf("delete post %q: %w", id, err)
	}
	return nil
}

// ListByAuthorAndStatus returns one page of an author's posts in the
// given status, newest publish_time first.
func (r *PostRepository) ListByAuthorAndStatus(ctx context.Context, authorID int, status string, limit, offset int) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, listPostsSQL, authorID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts for author=%d status=%q: %w", authorID, status, err)
	}
	defer rows.Close()

	out := make([]models.Post, 0, limit)
	for rows.Next() {
		var (
			p        models.Post
			category sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &category,
			&p.Status, &p.PublishTime, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan post row: %w", err)
		}
		p.Category = category.String
		normalizePostTimes(&p)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate post rows: %w", err)
	}

	for i := range out {
		tags, err := r.tagsFor(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Tags = tags
	}
	return out, nil
}

// CountByAuthorAndStatus returns the total rows behind ListByAuthorAndStatus.
func (r *PostRepository) CountByAuthorAndStatus(ctx context.Context, authorID int, status string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countPostsSQL, authorID, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count posts for author=%d status=%q: %w", authorID, status, err)
	}
	return n, nil
}

// DistinctTags returns every tag in use, order unspecified.
func (r *PostRepository) DistinctTags(ctx context.Context) ([]string, error) {
	return r.selectStrings(ctx, distinctTagsSQL, "distinct tags")
}

// DistinctCategories returns every category in use, order unspecified.
func (r *PostRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	return r.selectStrings(ctx, distinctCategoriesSQL, "distinct categories")
}

func (r *PostRepository) selectStrings(ctx context.Context, query, what string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", what, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", what, err)
	}
	return out, nil
}

func (r *PostRepository) tagsFor(ctx context.Context, postID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, selectPostTagsSQL, postID)
	if err != nil {
		return nil, fmt.Errorf("select tags for post %q: %w", postID, err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan tag for post %q: %w", postID, err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags for post %q: %w", postID, err)
	}
	return tags, nil
}

func insertTags(ctx context.Context, tx *sql.Tx, postID string, tags []string) error {
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx, insertPostTagSQL, postID, tag); err != nil {
			return fmt.Errorf("insert tag %q for post %q: %w", tag, postID, err)
		}
	}
	return nil
}

func normalizePostTimes(p *models.Post) {
	p.PublishTime = p.PublishTime.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
}
