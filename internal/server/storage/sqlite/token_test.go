package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/storage"
)

func TestResetTokenStorage_Replace(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, ctx, s, "alice")
	epoch := time.Unix(0, 0)

	first := &models.LostPasswordToken{Email: "alice@example.com", Token: "tok-1"}
	require.NoError(t, s.ReplaceResetToken(ctx, first))
	second := &models.LostPasswordToken{Email: "ALICE@example.com", Token: "tok-2"}
	require.NoError(t, s.ReplaceResetToken(ctx, second))

	_, err := s.GetResetToken(ctx, "tok-1", epoch)
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)

	got, err := s.GetResetToken(ctx, "tok-2", epoch)
	require.NoError(t, err)
	assert.Nil(t, got.PendingPasswordHash)

	var live int
	require.NoError(t, s.db.GetContext(ctx, &live, `SELECT COUNT(*) FROM lost_password_tokens`))
	assert.Equal(t, 1, live)
}

func TestResetTokenStorage_Redeem(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	u := createTestUser(t, ctx, s, "alice")
	epoch := time.Unix(0, 0)

	tok := &models.LostPasswordToken{Email: u.Email, Token: "tok"}
	require.NoError(t, s.ReplaceResetToken(ctx, tok))

	redeemed, err := s.RedeemResetToken(ctx, "tok", epoch, "fresh-hash")
	require.NoError(t, err)
	assert.Equal(t, u.ID, redeemed.ID)
	assert.Equal(t, "fresh-hash", redeemed.PasswordHash)

	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "fresh-hash", got.PasswordHash)

	// single use
	_, err = s.RedeemResetToken(ctx, "tok", epoch, "again")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)
}

func TestResetTokenStorage_Expiry(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	u := createTestUser(t, ctx, s, "alice")
	tok := &models.LostPasswordToken{Email: u.Email, Token: "tok"}
	require.NoError(t, s.ReplaceResetToken(ctx, tok))

	notBefore := tok.CreatedAt.Add(time.Second)

	_, err := s.GetResetToken(ctx, "tok", notBefore)
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)

	_, err = s.RedeemResetToken(ctx, "tok", notBefore, "hash")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)

	// the failed redeem left the password untouched
	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash-alice", got.PasswordHash)

	n, err := s.DeleteExpiredResetTokens(ctx, notBefore)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
