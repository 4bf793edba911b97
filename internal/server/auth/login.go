package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/microblog/internal/crypto"
	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/storage"
)

// Authenticator checks username or email and password logins
type Authenticator struct {
	users  UserFinder
	logger *slog.Logger
}

// NewAuthenticator creates a login authenticator
func NewAuthenticator(users UserFinder, logger *slog.Logger) *Authenticator {
	return &Authenticator{users: users, logger: logger}
}

// Login returns the user for identifier and password, or one of
// ErrInvalidUser, ErrAccountDisabled and ErrIncorrectPassword
func (a *Authenticator) Login(ctx context.Context, identifier, password string) (*models.User, error) {
	if identifier == "" {
		return nil, ErrInvalidUser
	}

	user, err := lookup(ctx, a.users, identifier)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrAmbiguousUser) {
			return nil, ErrInvalidUser
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive {
		a.logger.InfoContext(ctx, "login to disabled account", "user_id", user.ID)
		return nil, ErrAccountDisabled
	}

	if err := crypto.CheckPassword(password, user.PasswordHash); err != nil {
		if !errors.Is(err, crypto.ErrPasswordMismatch) {
			a.logger.ErrorContext(ctx, "stored password hash unreadable", "user_id", user.ID, "error", err)
		}
		return nil, ErrIncorrectPassword
	}
	return user, nil
}
