package storage

import (
	"context"
	"time"

	"github.com/iudanet/microblog/internal/models"
)

// ResetTokenStorage defines interface for password reset token persistence
type ResetTokenStorage interface {
	// ReplaceResetToken deletes any token for the same email and stores the new one atomically
	ReplaceResetToken(ctx context.Context, token *models.LostPasswordToken) error

	// GetResetToken retrieves a token issued after notBefore.
	// Returns ErrTokenNotFound for unknown or expired tokens.
	GetResetToken(ctx context.Context, token string, notBefore time.Time) (*models.LostPasswordToken, error)

	// RedeemResetToken sets the password of the token owner and deletes the token
	// in one transaction
	RedeemResetToken(ctx context.Context, token string, notBefore time.Time, passwordHash string) (*models.User, error)

	// DeleteExpiredResetTokens removes tokens issued before notBefore
	DeleteExpiredResetTokens(ctx context.Context, notBefore time.Time) (int, error)
}
