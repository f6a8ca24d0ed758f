package models

import "time"

// Post lifecycle states. Transitions happen only through explicit
// author action; publishing stamps PublishTime.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// ValidStatus reports whether status is a known lifecycle state.
func ValidStatus(status string) bool {
	return status == StatusDraft || status == StatusPublished
}

type Post struct {
	ID          string    `json:"id"`
	AuthorID    int       `json:"author_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Tags        []string  `json:"tags,omitempty"`
	Category    string    `json:"category,omitempty"`
	Status      string    `json:"status"` // draft | published
	PublishTime time.Time `json:"publish_time"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
