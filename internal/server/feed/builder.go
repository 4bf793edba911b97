// Package feed builds chronologically ordered, keyset-paginated post lists.
package feed

import (
	"context"
	"log/slog"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/storage"
)

const (
	// DefaultLimit is used when the caller does not ask for a page size
	DefaultLimit = 20
	// MaxLimit caps the page size
	MaxLimit = 100
)

// PostQuerier is the read side of the post store
type PostQuerier interface {
	QueryPosts(ctx context.Context, q storage.PostQuery) ([]*models.Post, error)
}

// Pagination is the caller-controlled window of a feed request
type Pagination struct {
	Cursor string   // opaque token from a previous Page.Next, empty for the first page
	Terms  []string // optional search terms, matched against post text
	Limit  int
}

// Page is one window of a feed. Next is empty on the last page.
type Page struct {
	Next  string
	Posts []*models.Post
	Limit int // effective page size after clamping
}

// Builder runs scoped post queries. Every Build is a single read statement
// so concurrent graph writes are never blocked.
type Builder struct {
	posts        PostQuerier
	codec        *CursorCodec
	logger       *slog.Logger
	defaultLimit int
	maxLimit     int
}

// Option configures a Builder
type Option func(*Builder)

// WithLimits overrides the default and maximum page sizes
func WithLimits(defaultLimit, maxLimit int) Option {
	return func(b *Builder) {
		if defaultLimit > 0 {
			b.defaultLimit = defaultLimit
		}
		if maxLimit > 0 {
			b.maxLimit = maxLimit
		}
	}
}

// NewBuilder creates a feed builder
func NewBuilder(posts PostQuerier, codec *CursorCodec, logger *slog.Logger, opts ...Option) *Builder {
	b := &Builder{
		posts:        posts,
		codec:        codec,
		logger:       logger,
		defaultLimit: DefaultLimit,
		maxLimit:     MaxLimit,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns the page of posts in scope that follows the cursor position.
// viewerID drives the liked_by_current_user flag and may be 0.
// An empty scope yields an empty page, not an error.
func (b *Builder) Build(ctx context.Context, scope Scope, viewerID int64, p Pagination) (*Page, error) {
	limit := b.clampLimit(p.Limit)

	q := storage.PostQuery{
		ViewerID: viewerID,
		Terms:    p.Terms,
		Limit:    limit + 1, // one extra row tells whether another page exists
	}
	scope.apply(&q)

	if p.Cursor != "" {
		after, err := b.codec.Decode(p.Cursor)
		if err != nil {
			return nil, err
		}
		q.After = after
	}

	posts, err := b.posts.QueryPosts(ctx, q)
	if err != nil {
		return nil, err
	}

	page := &Page{Posts: posts, Limit: limit}
	if len(posts) > limit {
		page.Posts = posts[:limit]
		last := page.Posts[limit-1]
		next, err := b.codec.Encode(storage.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		if err != nil {
			return nil, err
		}
		page.Next = next
	}

	b.logger.DebugContext(ctx, "feed built",
		"scope", q.Scope, "viewer_id", viewerID, "posts", len(page.Posts), "has_next", page.Next != "")
	return page, nil
}

func (b *Builder) clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return b.defaultLimit
	case limit > b.maxLimit:
		return b.maxLimit
	default:
		return limit
	}
}
