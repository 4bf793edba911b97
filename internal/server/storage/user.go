package storage

import (
	"context"

	"github.com/iudanet/microblog/internal/models"
)

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// CreateUser inserts the user together with its API key in one transaction
	// and fills user.ID. Returns ErrUserAlreadyExists on a taken username or email.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)

	// GetUserByUsername retrieves user by exact username
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByEmail retrieves user by email, case-insensitively.
	// Returns ErrAmbiguousUser if more than one row matches.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateProfile replaces the optional profile fields
	UpdateProfile(ctx context.Context, userID int64, profile models.Profile) error

	// UpdatePassword stores a new password hash
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error

	// SetActive enables or disables an account
	SetActive(ctx context.Context, userID int64, active bool) error

	// ListUsers returns a page of users matching q and the total match count
	ListUsers(ctx context.Context, q UserQuery) ([]*models.User, int, error)

	// UserStats computes counters for userID as seen by viewerID (0 for anonymous)
	UserStats(ctx context.Context, userID, viewerID int64) (*models.UserStats, error)
}
