package storage

import (
	"context"

	"github.com/iudanet/microblog/internal/models"
)

// GraphStorage persists the follow, like and share relations
type GraphStorage interface {
	// CreateFollow returns ErrAlreadyFollowing, ErrInvalidRelation for a self-follow
	// and ErrUserNotFound if either side is missing
	CreateFollow(ctx context.Context, followerID, followeeID int64) (*models.Follow, error)
	DeleteFollow(ctx context.Context, followerID, followeeID int64) error
	IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error)

	// ListFollowers returns users following userID, oldest relation first
	ListFollowers(ctx context.Context, userID int64, page Page) ([]*models.User, int, error)
	// ListFollowing returns users followed by userID, oldest relation first
	ListFollowing(ctx context.Context, userID int64, page Page) ([]*models.User, int, error)

	CreateLike(ctx context.Context, userID, postID int64) (*models.Like, error)
	DeleteLike(ctx context.Context, userID, postID int64) error

	CreateShare(ctx context.Context, userID, postID int64) (*models.Share, error)
	DeleteShare(ctx context.Context, userID, postID int64) error
}
