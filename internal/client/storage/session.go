package storage

import (
	"context"
	"time"
)

//go:generate moq -out session_mock.go . SessionStorage

// SessionStorage keeps the credentials of the logged in user between runs
type SessionStorage interface {
	// SaveSession replaces the current session
	SaveSession(ctx context.Context, s *Session) error

	// GetSession returns ErrNoSession when nobody is logged in
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes the session (logout). Returns ErrNoSession if
	// there is nothing to delete.
	DeleteSession(ctx context.Context) error

	// SaveFeedCursor remembers where the home feed of username stopped
	SaveFeedCursor(ctx context.Context, username, cursor string) error

	// GetFeedCursor returns "" when no cursor was saved
	GetFeedCursor(ctx context.Context, username string) (string, error)
}

// Session is an API key obtained by register or login
type Session struct {
	SavedAt   time.Time `json:"saved_at"`
	ServerURL string    `json:"server_url"`
	Username  string    `json:"username"`
	APIKey    string    `json:"api_key"`
	UserID    int64     `json:"user_id"`
}
