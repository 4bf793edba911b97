// Package seed fills a store with a random social graph for load testing.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/graph"
	"github.com/iudanet/microblog/internal/server/storage"
)

// Options bounds the generated graph. Each Max is an upper bound per user.
type Options struct {
	Password   string
	Users      int
	MaxPosts   int
	MaxFollows int
	MaxLikes   int
	MaxShares  int
	MaxReplies int
}

// DefaultOptions mirrors a mid-sized community
var DefaultOptions = Options{
	Password:   "pass",
	Users:      100,
	MaxPosts:   100,
	MaxFollows: 50,
	MaxLikes:   50,
	MaxShares:  50,
	MaxReplies: 50,
}

// Stats counts what Load created
type Stats struct {
	Users   int
	Posts   int
	Replies int
	Follows int
	Likes   int
	Shares  int
}

// Loader generates users one at a time; each new user relates only to
// users and posts created before it
type Loader struct {
	store  *graph.Store
	rng    *rand.Rand
	logger *slog.Logger
	opts   Options
}

// NewLoader creates a loader drawing from rng
func NewLoader(store *graph.Store, rng *rand.Rand, logger *slog.Logger, opts Options) *Loader {
	return &Loader{store: store, rng: rng, logger: logger, opts: opts}
}

// Load creates the graph and returns what was created
func (l *Loader) Load(ctx context.Context) (Stats, error) {
	var (
		stats Stats
		users []*models.User
		posts []int64
	)

	for u := 0; u < l.opts.Users; u++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		user, err := l.store.CreateUser(ctx, graph.NewUser{
			Username: fmt.Sprintf("user%d", u),
			Email:    fmt.Sprintf("user%d@email.com", u),
			Password: l.opts.Password,
			Profile:  models.Profile{FirstName: fmt.Sprintf("First%d", u), LastName: fmt.Sprintf("Last%d", u)},
		})
		if err != nil {
			return stats, fmt.Errorf("create user %d: %w", u, err)
		}
		stats.Users++

		for range l.upTo(l.opts.MaxPosts) {
			p, err := l.store.CreatePost(ctx, graph.NewPost{
				AuthorID: user.ID,
				Text:     fmt.Sprintf("Hey there, I'm post #%d with some dummy text to look like a real post.", len(posts)+1),
			})
			if err != nil {
				return stats, fmt.Errorf("create post: %w", err)
			}
			posts = append(posts, p.ID)
			stats.Posts++
		}

		for _, i := range l.sample(len(users), l.opts.MaxFollows) {
			_, err := l.store.Follow(ctx, user.ID, users[i].ID)
			if err := count(&stats.Follows, err); err != nil {
				return stats, fmt.Errorf("follow: %w", err)
			}
		}

		for _, i := range l.sample(len(posts), l.opts.MaxShares) {
			_, err := l.store.Share(ctx, user.ID, posts[i])
			if err := count(&stats.Shares, err); err != nil {
				return stats, fmt.Errorf("share: %w", err)
			}
		}

		for _, i := range l.sample(len(posts), l.opts.MaxLikes) {
			_, err := l.store.Like(ctx, user.ID, posts[i])
			if err := count(&stats.Likes, err); err != nil {
				return stats, fmt.Errorf("like: %w", err)
			}
		}

		for _, i := range l.sample(len(posts), l.opts.MaxReplies) {
			parent := posts[i]
			reply, err := l.store.CreatePost(ctx, graph.NewPost{
				AuthorID:  user.ID,
				InReplyTo: &parent,
				Text:      fmt.Sprintf("Look at me, I'm a reply to post #%d.", parent),
			})
			if err != nil {
				return stats, fmt.Errorf("create reply: %w", err)
			}
			posts = append(posts, reply.ID)
			stats.Replies++
		}

		users = append(users, user)
		l.logger.Debug("seeded user", "username", user.Username)
	}

	l.logger.Info("seed complete",
		"users", stats.Users, "posts", stats.Posts, "replies", stats.Replies,
		"follows", stats.Follows, "likes", stats.Likes, "shares", stats.Shares)
	return stats, nil
}

// upTo returns a random count in [0, max]
func (l *Loader) upTo(max int) int {
	if max <= 0 {
		return 0
	}
	return l.rng.IntN(max + 1)
}

// sample picks up to max distinct indexes below n
func (l *Loader) sample(n, max int) []int {
	k := l.upTo(min(n, max))
	return l.rng.Perm(n)[:k]
}

// count increments n for a created relation. A duplicate is skipped.
func count(n *int, err error) error {
	switch {
	case err == nil:
		*n++
		return nil
	case errors.Is(err, storage.ErrConflict):
		return nil
	default:
		return err
	}
}
