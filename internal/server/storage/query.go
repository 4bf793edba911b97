package storage

import "time"

// PostScope selects which posts a PostQuery ranges over
type PostScope int

const (
	// ScopeAll ranges over every post
	ScopeAll PostScope = iota
	// ScopeHome ranges over the home feed of SubjectID: own posts, posts of
	// followees and posts shared by SubjectID or a followee
	ScopeHome
	// ScopeAuthor ranges over posts written by SubjectID
	ScopeAuthor
	// ScopeReplies ranges over direct replies to post SubjectID
	ScopeReplies
)

// Cursor is a keyset position in (created_at, id) order
type Cursor struct {
	CreatedAt time.Time
	ID        int64
}

// PostQuery is a declarative post query: scope predicate, term filter,
// keyset position and limit. Ordering is always (created_at, id) ascending.
type PostQuery struct {
	After     *Cursor
	Terms     []string // case-insensitive containment on text, any may match
	SubjectID int64
	ViewerID  int64 // drives LikedByViewer, 0 for anonymous
	Limit     int
	Scope     PostScope
}

// UserQuery filters users by terms against username, first and last name
type UserQuery struct {
	Terms []string
	Page
}

// Page is a limit/offset window
type Page struct {
	Limit  int
	Offset int
}
