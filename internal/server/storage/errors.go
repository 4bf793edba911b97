package storage

import "errors"

// Common storage errors
var (
	// ErrNotFound indicates that a referenced record does not exist
	ErrNotFound = errors.New("not found")

	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = notFound("user not found")

	// ErrPostNotFound indicates that post was not found in storage
	ErrPostNotFound = notFound("post not found")

	// ErrRelationNotFound is returned when removing a follow, like or share that does not exist
	ErrRelationNotFound = notFound("relation not found")

	// ErrTokenNotFound indicates that reset token was not found or has expired
	ErrTokenNotFound = notFound("reset token not found")

	// ErrConflict indicates a uniqueness violation
	ErrConflict = errors.New("conflict")

	// ErrUserAlreadyExists indicates that username or email is taken
	ErrUserAlreadyExists = conflict("user already exists")

	// ErrAlreadyFollowing, ErrAlreadyLiked and ErrAlreadyShared report duplicate relations
	ErrAlreadyFollowing = conflict("already following")
	ErrAlreadyLiked     = conflict("already liked")
	ErrAlreadyShared    = conflict("already shared")

	// ErrInvalidRelation indicates a relation that the model forbids, such as following oneself
	ErrInvalidRelation = errors.New("invalid relation")

	// ErrAmbiguousUser is returned when a unique lookup matches more than one user
	ErrAmbiguousUser = errors.New("more than one user matches")
)

// kindError ties a specific error to its category so callers can test either
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func notFound(msg string) error { return &kindError{kind: ErrNotFound, msg: msg} }

func conflict(msg string) error { return &kindError{kind: ErrConflict, msg: msg} }
