package feed

import "github.com/iudanet/microblog/internal/server/storage"

// Scope restricts which posts a feed ranges over
type Scope interface {
	apply(q *storage.PostQuery)
}

// HomeScope is the personalised feed of a user: their own posts, posts of
// users they follow and posts shared by them or by users they follow
type HomeScope struct {
	UserID int64
}

func (s HomeScope) apply(q *storage.PostQuery) {
	q.Scope = storage.ScopeHome
	q.SubjectID = s.UserID
}

// AuthorScope lists posts written by one user
type AuthorScope struct {
	UserID int64
}

func (s AuthorScope) apply(q *storage.PostQuery) {
	q.Scope = storage.ScopeAuthor
	q.SubjectID = s.UserID
}

// RepliesScope lists direct replies to a post
type RepliesScope struct {
	PostID int64
}

func (s RepliesScope) apply(q *storage.PostQuery) {
	q.Scope = storage.ScopeReplies
	q.SubjectID = s.PostID
}

// AllScope lists every post
type AllScope struct{}

func (AllScope) apply(q *storage.PostQuery) {
	q.Scope = storage.ScopeAll
}
