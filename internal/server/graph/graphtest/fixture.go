// Package graphtest provides an in-memory store preloaded with a small
// reference social graph for tests.
package graphtest

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/graph"
	"github.com/iudanet/microblog/internal/server/storage/sqlite"
)

// Password is the password of every fixture user
const Password = "secret"

// Epoch is the clock origin of NewStorage
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// NewStorage opens an in-memory database whose clock advances one second per
// reading, so rows are ordered by creation
func NewStorage(t *testing.T) *sqlite.Storage {
	t.Helper()

	var ticks atomic.Int64
	clock := func() time.Time {
		return Epoch.Add(time.Duration(ticks.Add(1)) * time.Second)
	}

	s, err := sqlite.New(context.Background(), ":memory:", sqlite.WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// DiscardLogger drops all records
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Fixture is the reference graph:
//
//	u1..u4, posts p11..p33 (pXY is post Y of user X), created in that order
//	follows: u1->u2, u2->u3, u2->u4, u3->u4
//	likes:   u1->p21, u2->p21, u3->p11
//	shares:  u2->p31, u4->p11, u4->p31
type Fixture struct {
	Store *graph.Store
	Users map[string]*models.User
	Posts map[string]*models.Post
}

// PostIDs maps fixture post names to ids
func (f *Fixture) PostIDs(names ...string) []int64 {
	ids := make([]int64, 0, len(names))
	for _, n := range names {
		ids = append(ids, f.Posts[n].ID)
	}
	return ids
}

// Load builds the reference graph through store
func Load(t *testing.T, store *graph.Store) *Fixture {
	t.Helper()
	ctx := context.Background()

	f := &Fixture{
		Store: store,
		Users: make(map[string]*models.User),
		Posts: make(map[string]*models.Post),
	}

	for i := 1; i <= 4; i++ {
		name := fmt.Sprintf("u%d", i)
		u, err := store.CreateUser(ctx, graph.NewUser{
			Username: name,
			Email:    name + "@example.com",
			Password: Password,
		})
		require.NoError(t, err)
		f.Users[name] = u
	}

	for i := 1; i <= 3; i++ {
		author := f.Users[fmt.Sprintf("u%d", i)]
		for j := 1; j <= 3; j++ {
			name := fmt.Sprintf("p%d%d", i, j)
			p, err := store.CreatePost(ctx, graph.NewPost{AuthorID: author.ID, Text: "post " + name})
			require.NoError(t, err)
			f.Posts[name] = p
		}
	}

	for _, e := range [][2]string{{"u1", "u2"}, {"u2", "u3"}, {"u2", "u4"}, {"u3", "u4"}} {
		_, err := store.Follow(ctx, f.Users[e[0]].ID, f.Users[e[1]].ID)
		require.NoError(t, err)
	}
	for _, e := range [][2]string{{"u1", "p21"}, {"u2", "p21"}, {"u3", "p11"}} {
		_, err := store.Like(ctx, f.Users[e[0]].ID, f.Posts[e[1]].ID)
		require.NoError(t, err)
	}
	for _, e := range [][2]string{{"u2", "p31"}, {"u4", "p11"}, {"u4", "p31"}} {
		_, err := store.Share(ctx, f.Users[e[0]].ID, f.Posts[e[1]].ID)
		require.NoError(t, err)
	}
	return f
}
