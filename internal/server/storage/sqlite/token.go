package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/storage"
)

type tokenRow struct {
	PendingPasswordHash sql.NullString `db:"new_password_hash"`
	Email               string         `db:"email"`
	Token               string         `db:"token"`
	CreatedAt           int64          `db:"created_at"`
}

func (r *tokenRow) model() *models.LostPasswordToken {
	t := &models.LostPasswordToken{
		Email:     r.Email,
		Token:     r.Token,
		CreatedAt: fromStamp(r.CreatedAt),
	}
	if r.PendingPasswordHash.Valid {
		hash := r.PendingPasswordHash.String
		t.PendingPasswordHash = &hash
	}
	return t
}

// ReplaceResetToken deletes the previous token for the email and inserts the
// new one. Both statements run in one transaction and the email is the
// primary key, so at most one token per email is ever live.
func (s *Storage) ReplaceResetToken(ctx context.Context, token *models.LostPasswordToken) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = s.now().UTC()
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM lost_password_tokens WHERE email = ?`, token.Email); err != nil {
			return fmt.Errorf("failed to delete previous token: %w", err)
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO lost_password_tokens (email, token, new_password_hash, created_at)
			VALUES (?, ?, NULL, ?)`,
			token.Email, token.Token, toStamp(token.CreatedAt))
		if err != nil {
			if classifyConstraint(err) == constraintUnique {
				return fmt.Errorf("reset token collision: %w", storage.ErrConflict)
			}
			return fmt.Errorf("failed to insert reset token: %w", err)
		}
		return nil
	})
}

// GetResetToken retrieves a token issued at or after notBefore
func (s *Storage) GetResetToken(ctx context.Context, token string, notBefore time.Time) (*models.LostPasswordToken, error) {
	return getResetToken(ctx, s.db, token, notBefore)
}

func getResetToken(ctx context.Context, q sqlx.QueryerContext, token string, notBefore time.Time) (*models.LostPasswordToken, error) {
	var rows []tokenRow
	err := sqlx.SelectContext(ctx, q, &rows, `
		SELECT email, token, new_password_hash, created_at
		FROM lost_password_tokens
		WHERE token = ? AND created_at >= ?`, token, toStamp(notBefore))
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	if len(rows) == 0 {
		return nil, storage.ErrTokenNotFound
	}
	return rows[0].model(), nil
}

// RedeemResetToken attaches the pending password to the token, applies it to
// the owning user and deletes the token, all in one transaction
func (s *Storage) RedeemResetToken(ctx context.Context, token string, notBefore time.Time, passwordHash string) (*models.User, error) {
	var user *models.User

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE lost_password_tokens SET new_password_hash = ?
			WHERE token = ? AND created_at >= ?`,
			passwordHash, token, toStamp(notBefore))
		if err != nil {
			return fmt.Errorf("failed to attach pending password: %w", err)
		}
		if err := expectAffected(res, storage.ErrTokenNotFound); err != nil {
			return err
		}

		t, err := getResetToken(ctx, tx, token, notBefore)
		if err != nil {
			return err
		}

		user, err = getUniqueUser(ctx, tx, "u.email = ?", t.Email)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET password_hash = ? WHERE id = ?`,
			*t.PendingPasswordHash, user.ID); err != nil {
			return fmt.Errorf("failed to set password: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM lost_password_tokens WHERE token = ?`, token); err != nil {
			return fmt.Errorf("failed to delete reset token: %w", err)
		}

		user.PasswordHash = *t.PendingPasswordHash
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteExpiredResetTokens removes tokens issued before notBefore
func (s *Storage) DeleteExpiredResetTokens(ctx context.Context, notBefore time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM lost_password_tokens WHERE created_at < ?`, toStamp(notBefore))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return int(n), nil
}
