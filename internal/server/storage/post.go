package storage

import (
	"context"
	"time"

	"github.com/iudanet/microblog/internal/models"
)

// PostStorage defines interface for post persistence and queries
type PostStorage interface {
	// CreatePost inserts the post and fills its ID.
	// Returns ErrPostNotFound when InReplyTo points to a missing post.
	CreatePost(ctx context.Context, post *models.Post) error

	// GetPost returns a post with stats computed for viewerID
	GetPost(ctx context.Context, postID, viewerID int64) (*models.Post, error)

	// UpdatePostText replaces the text and bumps modified_at
	UpdatePostText(ctx context.Context, postID int64, text string, modifiedAt time.Time) error

	// QueryPosts runs a keyset-paginated query ordered by (created_at, id) ascending
	QueryPosts(ctx context.Context, q PostQuery) ([]*models.Post, error)
}
