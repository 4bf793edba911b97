package sqlite

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/storage"
)

func TestPostStorage_CreatePost(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	u := createTestUser(t, ctx, s, "alice")
	p := createTestPost(t, ctx, s, u, "hello")

	assert.NotZero(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, p.CreatedAt, p.ModifiedAt)

	got, err := s.GetPost(ctx, p.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, p.CreatedAt, got.CreatedAt)
	assert.Nil(t, got.InReplyTo)

	missing := int64(9999)
	err = s.CreatePost(ctx, &models.Post{UserID: u.ID, Text: "orphan", InReplyTo: &missing})
	assert.ErrorIs(t, err, storage.ErrPostNotFound)

	err = s.CreatePost(ctx, &models.Post{UserID: 9999, Text: "ghost"})
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	_, err = s.GetPost(ctx, 9999, 0)
	assert.ErrorIs(t, err, storage.ErrPostNotFound)
}

func TestPostStorage_Replies(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	u := createTestUser(t, ctx, s, "alice")
	root := createTestPost(t, ctx, s, u, "root")

	r1 := &models.Post{UserID: u.ID, Text: "first reply", InReplyTo: &root.ID}
	require.NoError(t, s.CreatePost(ctx, r1))
	r2 := &models.Post{UserID: u.ID, Text: "second reply", InReplyTo: &root.ID}
	require.NoError(t, s.CreatePost(ctx, r2))

	got, err := s.GetPost(ctx, root.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stats.Replies)

	replies, err := s.QueryPosts(ctx, storage.PostQuery{Scope: storage.ScopeReplies, SubjectID: root.ID})
	require.NoError(t, err)
	assert.Equal(t, []int64{r1.ID, r2.ID}, postIDs(replies))
	require.NotNil(t, replies[0].InReplyTo)
	assert.Equal(t, root.ID, *replies[0].InReplyTo)
}

func TestPostStorage_UpdatePostText(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	u := createTestUser(t, ctx, s, "alice")
	p := createTestPost(t, ctx, s, u, "draft")

	later := p.CreatedAt.Add(time.Hour)
	require.NoError(t, s.UpdatePostText(ctx, p.ID, "final", later))

	got, err := s.GetPost(ctx, p.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Text)
	assert.Equal(t, p.CreatedAt, got.CreatedAt)
	assert.Equal(t, later, got.ModifiedAt)

	assert.ErrorIs(t, s.UpdatePostText(ctx, 9999, "x", later), storage.ErrPostNotFound)
}

func TestPostStorage_Stats(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	f := loadGraphFixture(t, ctx, s)

	tests := []struct {
		post        string
		viewer      string
		wantLikes   int
		wantShares  int
		wantLikedBy bool
	}{
		{post: "p21", viewer: "u1", wantLikes: 2, wantShares: 0, wantLikedBy: true},
		{post: "p11", viewer: "u1", wantLikes: 1, wantShares: 1},
		{post: "p11", viewer: "u3", wantLikes: 1, wantShares: 1, wantLikedBy: true},
		{post: "p12", viewer: "u1", wantLikes: 0, wantShares: 0},
		{post: "p31", viewer: "u4", wantLikes: 0, wantShares: 2},
		{post: "p32", viewer: "u4", wantLikes: 0, wantShares: 0},
	}

	for _, tt := range tests {
		t.Run(tt.post+"/"+tt.viewer, func(t *testing.T) {
			p, err := s.GetPost(ctx, f.posts[tt.post].ID, f.users[tt.viewer].ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLikes, p.Stats.Likes)
			assert.Equal(t, tt.wantShares, p.Stats.Shares)
			assert.Equal(t, tt.wantLikedBy, p.LikedByViewer)
		})
	}
}

func TestPostStorage_QueryPosts_Home(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	f := loadGraphFixture(t, ctx, s)

	tests := []struct {
		viewer string
		want   []string
	}{
		// own posts, posts of u2, and p31 shared by u2
		{viewer: "u1", want: []string{"p11", "p12", "p13", "p21", "p22", "p23", "p31"}},
		// p31 is both a followee post and shared, it appears once
		{viewer: "u2", want: []string{"p11", "p21", "p22", "p23", "p31", "p32", "p33"}},
		// u4 follows nobody; its shares still show up
		{viewer: "u4", want: []string{"p11", "p31"}},
	}

	for _, tt := range tests {
		t.Run(tt.viewer, func(t *testing.T) {
			viewer := f.users[tt.viewer].ID
			posts, err := s.QueryPosts(ctx, storage.PostQuery{
				Scope:     storage.ScopeHome,
				SubjectID: viewer,
				ViewerID:  viewer,
			})
			require.NoError(t, err)
			assert.Equal(t, f.postIDs(tt.want...), postIDs(posts))
		})
	}
}

func TestPostStorage_QueryPosts_Keyset(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	f := loadGraphFixture(t, ctx, s)
	viewer := f.users["u1"].ID

	var (
		got   []int64
		after *storage.Cursor
	)
	for range 10 {
		page, err := s.QueryPosts(ctx, storage.PostQuery{
			Scope:     storage.ScopeHome,
			SubjectID: viewer,
			ViewerID:  viewer,
			After:     after,
			Limit:     3,
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(page), 3)
		if len(page) == 0 {
			break
		}
		got = append(got, postIDs(page)...)
		last := page[len(page)-1]
		after = &storage.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}

	assert.Equal(t, f.postIDs("p11", "p12", "p13", "p21", "p22", "p23", "p31"), got)
}

func TestPostStorage_QueryPosts_TieBreakByID(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s, err := New(ctx, ":memory:", WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)
	defer s.Close()

	u := createTestUser(t, ctx, s, "alice")
	a := createTestPost(t, ctx, s, u, "a")
	b := createTestPost(t, ctx, s, u, "b")
	c := createTestPost(t, ctx, s, u, "c")

	page, err := s.QueryPosts(ctx, storage.PostQuery{
		Scope:     storage.ScopeAuthor,
		SubjectID: u.ID,
		After:     &storage.Cursor{CreatedAt: fixed, ID: a.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID, c.ID}, postIDs(page))
}

func TestPostStorage_QueryPosts_Terms(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	u := createTestUser(t, ctx, s, "alice")
	go1 := createTestPost(t, ctx, s, u, "Learning Go today")
	createTestPost(t, ctx, s, u, "coffee break")
	pct := createTestPost(t, ctx, s, u, "100% done")
	rust := createTestPost(t, ctx, s, u, "RUST is fine too")
	hello := createTestPost(t, ctx, s, u, "Привет МИР")

	tests := []struct {
		name  string
		terms []string
		want  []int64
	}{
		{name: "case-insensitive", terms: []string{"go"}, want: []int64{go1.ID}},
		{name: "union", terms: []string{"GO", "rust"}, want: []int64{go1.ID, rust.ID}},
		{name: "non-ascii case-insensitive", terms: []string{"мир"}, want: []int64{hello.ID}},
		{name: "non-ascii upper term", terms: []string{"ПРИВЕТ"}, want: []int64{hello.ID}},
		{name: "percent is literal", terms: []string{"%"}, want: []int64{pct.ID}},
		{name: "no match", terms: []string{"zzz"}, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := s.QueryPosts(ctx, storage.PostQuery{Scope: storage.ScopeAll, Terms: tt.terms})
			require.NoError(t, err)
			assert.Equal(t, tt.want, postIDs(posts))
		})
	}

	_, err := s.QueryPosts(ctx, storage.PostQuery{Scope: storage.PostScope(42)})
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown post scope"))
}
