// Package reset issues and redeems one-time password reset tokens.
package reset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/microblog/internal/crypto"
	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/validation"
)

// DefaultTTL is how long an issued token stays redeemable
const DefaultTTL = 24 * time.Hour

// ErrNotificationFailed is returned by RequestReset when the token was
// stored but the notification could not be sent
var ErrNotificationFailed = errors.New("reset notification failed")

// Store is the persistence the flow needs
type Store interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ReplaceResetToken(ctx context.Context, token *models.LostPasswordToken) error
	GetResetToken(ctx context.Context, token string, notBefore time.Time) (*models.LostPasswordToken, error)
	RedeemResetToken(ctx context.Context, token string, notBefore time.Time, passwordHash string) (*models.User, error)
	DeleteExpiredResetTokens(ctx context.Context, notBefore time.Time) (int, error)
}

// Notifier delivers the reset link to the account owner
type Notifier interface {
	NotifyReset(ctx context.Context, email, link string) error
}

// Config holds the flow settings
type Config struct {
	BaseURL string        // public URL the reset link points at
	TTL     time.Duration // zero means DefaultTTL
}

// Flow is the password reset lifecycle
type Flow struct {
	store    Store
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
	newToken func() string
	baseURL  string
	ttl      time.Duration
}

// NewFlow creates a reset flow
func NewFlow(store Store, notifier Notifier, cfg Config, logger *slog.Logger) *Flow {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Flow{
		store:    store,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		newToken: uuid.NewString,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		ttl:      ttl,
	}
}

// RequestReset replaces any token of the email's owner with a fresh one and
// sends the reset link. It fails with storage.ErrUserNotFound for an unknown
// email. A send failure does not undo the token: the token is returned along
// with an error wrapping ErrNotificationFailed.
func (f *Flow) RequestReset(ctx context.Context, email string) (*models.LostPasswordToken, error) {
	user, err := f.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	token := &models.LostPasswordToken{
		Email:     user.Email,
		Token:     f.newToken(),
		CreatedAt: f.now().UTC(),
	}
	if err := f.store.ReplaceResetToken(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := f.notifier.NotifyReset(ctx, user.Email, f.Link(token.Token)); err != nil {
		f.logger.WarnContext(ctx, "reset notification failed", "user_id", user.ID, "error", err)
		return token, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	f.logger.InfoContext(ctx, "password reset requested", "user_id", user.ID)
	return token, nil
}

// Redeem sets a new password for the owner of token and consumes the token.
// The token is checked first: unknown, used and expired tokens yield
// storage.ErrTokenNotFound whatever the password. A short password is a
// validation error and leaves the token redeemable.
func (f *Flow) Redeem(ctx context.Context, token, newPassword string) (*models.User, error) {
	if _, err := f.store.GetResetToken(ctx, token, f.notBefore()); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return nil, err
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := f.store.RedeemResetToken(ctx, token, f.notBefore(), hash)
	if err != nil {
		return nil, err
	}

	f.logger.InfoContext(ctx, "password reset completed", "user_id", user.ID)
	return user, nil
}

// PurgeExpired deletes tokens past their TTL
func (f *Flow) PurgeExpired(ctx context.Context) (int, error) {
	return f.store.DeleteExpiredResetTokens(ctx, f.notBefore())
}

// Link builds the URL embedded in the notification
func (f *Flow) Link(token string) string {
	return f.baseURL + "/password/reset?token=" + url.QueryEscape(token)
}

func (f *Flow) notBefore() time.Time {
	return f.now().Add(-f.ttl)
}
