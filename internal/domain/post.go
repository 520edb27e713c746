package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Post struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	OwnerID       uuid.UUID      `db:"owner_id" json:"owner_id"`
	Title         string         `db:"title" json:"title"`
	Body          *string        `db:"body" json:"body,omitempty"`
	Tags          pq.StringArray `db:"tags" json:"tags"`
	CoverImageURL *string        `db:"cover_image_url" json:"cover_image_url,omitempty"`
	CoverImageKey *string        `db:"cover_image_key" json:"-"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// Owner returns the id of the user the post belongs to.
func (p *Post) Owner() uuid.UUID {
	return p.OwnerID
}

// PostInput carries the writable fields of a post.
type PostInput struct {
	Title string
	Body  *string
	Tags  []string
}

type PostListResult struct {
	Items  []Post
	Total  int64
	Limit  int
	Offset int
}
