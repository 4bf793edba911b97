package sqlite

import (
	"context"
	"fmt"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/storage"
)

// Uniqueness of every relation pair is enforced by the composite primary
// keys, so concurrent inserts of the same pair resolve to one success and
// ErrConflict for the rest.

// CreateFollow records that followerID follows followeeID
func (s *Storage) CreateFollow(ctx context.Context, followerID, followeeID int64) (*models.Follow, error) {
	if followerID == followeeID {
		return nil, storage.ErrInvalidRelation
	}

	now := s.now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO follows (follower_id, followee_id, created_at) VALUES (?, ?, ?)`,
		followerID, followeeID, toStamp(now))
	if err != nil {
		return nil, relationError(err, storage.ErrAlreadyFollowing, storage.ErrUserNotFound)
	}

	return &models.Follow{FollowerID: followerID, FolloweeID: followeeID, CreatedAt: now}, nil
}

// DeleteFollow removes the follow edge
func (s *Storage) DeleteFollow(ctx context.Context, followerID, followeeID int64) error {
	return s.deleteRelation(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND followee_id = ?`, followerID, followeeID)
}

// IsFollowing reports whether the follow edge exists
func (s *Storage) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = ? AND followee_id = ?)`,
		followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return exists, nil
}

// ListFollowers returns users following userID
func (s *Storage) ListFollowers(ctx context.Context, userID int64, page storage.Page) ([]*models.User, int, error) {
	return s.listRelated(ctx, userID, page, "f.follower_id", "f.followee_id")
}

// ListFollowing returns users followed by userID
func (s *Storage) ListFollowing(ctx context.Context, userID int64, page storage.Page) ([]*models.User, int, error) {
	return s.listRelated(ctx, userID, page, "f.followee_id", "f.follower_id")
}

func (s *Storage) listRelated(ctx context.Context, userID int64, page storage.Page, joinCol, filterCol string) ([]*models.User, int, error) {
	if err := rowExists(ctx, s.db, `SELECT 1 FROM users WHERE id = ?`, userID); err != nil {
		return nil, 0, orNotFound(err, storage.ErrUserNotFound)
	}

	var total int
	if err := s.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM follows f WHERE "+filterCol+" = ?", userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count follows: %w", err)
	}

	query := selectUser + `
		JOIN follows f ON ` + joinCol + ` = u.id
		WHERE ` + filterCol + ` = ?
		ORDER BY f.created_at, u.id
		LIMIT ? OFFSET ?`

	var rows []userRow
	if err := s.db.SelectContext(ctx, &rows, query, userID, limitArg(page.Limit), page.Offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list follows: %w", err)
	}
	return usersFromRows(rows), total, nil
}

// CreateLike records that userID likes postID
func (s *Storage) CreateLike(ctx context.Context, userID, postID int64) (*models.Like, error) {
	now := s.now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO likes (user_id, post_id, created_at) VALUES (?, ?, ?)`,
		userID, postID, toStamp(now))
	if err != nil {
		return nil, relationError(err, storage.ErrAlreadyLiked, storage.ErrPostNotFound)
	}
	return &models.Like{UserID: userID, PostID: postID, CreatedAt: now}, nil
}

// DeleteLike removes the like edge
func (s *Storage) DeleteLike(ctx context.Context, userID, postID int64) error {
	return s.deleteRelation(ctx, `DELETE FROM likes WHERE user_id = ? AND post_id = ?`, userID, postID)
}

// CreateShare records that userID re-shared postID
func (s *Storage) CreateShare(ctx context.Context, userID, postID int64) (*models.Share, error) {
	now := s.now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shares (user_id, post_id, created_at) VALUES (?, ?, ?)`,
		userID, postID, toStamp(now))
	if err != nil {
		return nil, relationError(err, storage.ErrAlreadyShared, storage.ErrPostNotFound)
	}
	return &models.Share{UserID: userID, PostID: postID, CreatedAt: now}, nil
}

// DeleteShare removes the share edge
func (s *Storage) DeleteShare(ctx context.Context, userID, postID int64) error {
	return s.deleteRelation(ctx, `DELETE FROM shares WHERE user_id = ? AND post_id = ?`, userID, postID)
}

func (s *Storage) deleteRelation(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete relation: %w", err)
	}
	return expectAffected(res, storage.ErrRelationNotFound)
}

// relationError translates a constraint violation on an edge insert
func relationError(err, duplicate, missing error) error {
	switch classifyConstraint(err) {
	case constraintUnique:
		return duplicate
	case constraintCheck:
		return storage.ErrInvalidRelation
	case constraintForeignKey:
		return missing
	}
	return fmt.Errorf("failed to insert relation: %w", err)
}
