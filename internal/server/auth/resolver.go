// Package auth resolves API credentials and password logins to users.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/iudanet/microblog/internal/crypto"
	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/storage"
	"github.com/iudanet/microblog/internal/validation"
)

// UserFinder looks users up by either identifier kind
type UserFinder interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Resolver maps request credentials to an active user
type Resolver struct {
	users  UserFinder
	logger *slog.Logger
	public map[string]struct{}
}

// NewResolver creates a resolver with no public methods
func NewResolver(users UserFinder, logger *slog.Logger) *Resolver {
	return &Resolver{users: users, logger: logger, public: map[string]struct{}{}}
}

// WithPublicMethods returns a copy of the resolver that lets the given HTTP
// methods through anonymously
func (r *Resolver) WithPublicMethods(methods ...string) *Resolver {
	public := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		public[strings.ToUpper(m)] = struct{}{}
	}
	return &Resolver{users: r.users, logger: r.logger, public: public}
}

// IsPublic reports whether method needs no credentials
func (r *Resolver) IsPublic(method string) bool {
	_, ok := r.public[strings.ToUpper(method)]
	return ok
}

// Resolve returns the user owning creds. A public method resolves to
// (nil, nil). Every other failure is ErrUnauthorized.
func (r *Resolver) Resolve(ctx context.Context, creds Credentials, method string) (*models.User, error) {
	if r.IsPublic(method) {
		return nil, nil
	}
	if creds.Identifier == "" || creds.Key == "" {
		return nil, ErrUnauthorized
	}

	user, err := lookup(ctx, r.users, creds.Identifier)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrAmbiguousUser) {
			r.logger.DebugContext(ctx, "credential lookup failed", "error", err)
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve credentials: %w", err)
	}

	if !user.IsActive {
		return nil, ErrUnauthorized
	}
	if !crypto.KeysEqual(creds.Key, user.APIKey) {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// lookup searches by email when identifier is an address, by username otherwise
func lookup(ctx context.Context, users UserFinder, identifier string) (*models.User, error) {
	if validation.IsEmail(identifier) {
		return users.GetUserByEmail(ctx, identifier)
	}
	return users.GetUserByUsername(ctx, identifier)
}
