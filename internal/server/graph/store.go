// Package graph owns every write to the social graph: users, posts and the
// follow, like and share relations between them.
package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/microblog/internal/crypto"
	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/storage"
	"github.com/iudanet/microblog/internal/validation"
)

// ErrNotOwner is returned when a user edits a post written by someone else
var ErrNotOwner = errors.New("post belongs to another user")

// Backend is the persistence the store writes through
type Backend interface {
	storage.UserStorage
	storage.PostStorage
	storage.GraphStorage
}

// Store validates graph mutations and delegates them to the backend
type Store struct {
	backend Backend
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a new graph store
func New(backend Backend, logger *slog.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}
}

// NewUser carries the registration input
type NewUser struct {
	Username string
	Email    string
	Password string
	Profile  models.Profile
}

// CreateUser validates input, hashes the password and issues the API key,
// then persists user and key in one transaction
func (s *Store) CreateUser(ctx context.Context, in NewUser) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := crypto.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	key, err := crypto.GenerateAPIKey()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		APIKey:       key,
		FirstName:    in.Profile.FirstName,
		LastName:     in.Profile.LastName,
		AvatarURL:    in.Profile.AvatarURL,
		IsActive:     true,
	}
	if err := s.backend.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// SetPassword validates and replaces the password hash
func (s *Store) SetPassword(ctx context.Context, userID int64, raw string) error {
	if err := validation.ValidatePassword(raw); err != nil {
		return err
	}
	hash, err := crypto.HashPassword(raw)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.backend.UpdatePassword(ctx, userID, hash)
}

// CheckPassword reports whether raw matches the stored hash
func (s *Store) CheckPassword(user *models.User, raw string) bool {
	return crypto.CheckPassword(raw, user.PasswordHash) == nil
}

// GetUser returns a user by id
func (s *Store) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	return s.backend.GetUserByID(ctx, userID)
}

// UpdateProfile replaces the optional profile fields
func (s *Store) UpdateProfile(ctx context.Context, userID int64, profile models.Profile) error {
	return s.backend.UpdateProfile(ctx, userID, profile)
}

// SetActive enables or disables an account
func (s *Store) SetActive(ctx context.Context, userID int64, active bool) error {
	return s.backend.SetActive(ctx, userID, active)
}

// ListUsers returns a page of users matching the query
func (s *Store) ListUsers(ctx context.Context, q storage.UserQuery) ([]*models.User, int, error) {
	return s.backend.ListUsers(ctx, q)
}

// UserStats returns follower, following and post counts of userID
func (s *Store) UserStats(ctx context.Context, userID, viewerID int64) (*models.UserStats, error) {
	return s.backend.UserStats(ctx, userID, viewerID)
}

// Follow makes follower follow followee. A self-follow is rejected before
// touching storage.
func (s *Store) Follow(ctx context.Context, followerID, followeeID int64) (*models.Follow, error) {
	if followerID == followeeID {
		return nil, storage.ErrInvalidRelation
	}
	f, err := s.backend.CreateFollow(ctx, followerID, followeeID)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("follow created", "follower_id", followerID, "followee_id", followeeID)
	return f, nil
}

// Unfollow removes the follow edge
func (s *Store) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	return s.backend.DeleteFollow(ctx, followerID, followeeID)
}

// FollowersOf returns the users following userID
func (s *Store) FollowersOf(ctx context.Context, userID int64, page storage.Page) ([]*models.User, int, error) {
	return s.backend.ListFollowers(ctx, userID, page)
}

// FollowingOf returns the users userID follows
func (s *Store) FollowingOf(ctx context.Context, userID int64, page storage.Page) ([]*models.User, int, error) {
	return s.backend.ListFollowing(ctx, userID, page)
}

// FollowersCount returns how many users follow userID
func (s *Store) FollowersCount(ctx context.Context, userID int64) (int, error) {
	stats, err := s.backend.UserStats(ctx, userID, 0)
	if err != nil {
		return 0, err
	}
	return stats.Followers, nil
}

// FollowingCount returns how many users userID follows
func (s *Store) FollowingCount(ctx context.Context, userID int64) (int, error) {
	stats, err := s.backend.UserStats(ctx, userID, 0)
	if err != nil {
		return 0, err
	}
	return stats.Following, nil
}

// PostsCount returns how many posts userID authored
func (s *Store) PostsCount(ctx context.Context, userID int64) (int, error) {
	stats, err := s.backend.UserStats(ctx, userID, 0)
	if err != nil {
		return 0, err
	}
	return stats.Posts, nil
}

// Like records a like. Liking one's own post is allowed.
func (s *Store) Like(ctx context.Context, userID, postID int64) (*models.Like, error) {
	return s.backend.CreateLike(ctx, userID, postID)
}

// Unlike removes a like
func (s *Store) Unlike(ctx context.Context, userID, postID int64) error {
	return s.backend.DeleteLike(ctx, userID, postID)
}

// Share records a share. Sharing one's own post is allowed.
func (s *Store) Share(ctx context.Context, userID, postID int64) (*models.Share, error) {
	return s.backend.CreateShare(ctx, userID, postID)
}

// Unshare removes a share
func (s *Store) Unshare(ctx context.Context, userID, postID int64) error {
	return s.backend.DeleteShare(ctx, userID, postID)
}

// LikedByCount returns the number of likes on postID
func (s *Store) LikedByCount(ctx context.Context, postID int64) (int, error) {
	p, err := s.backend.GetPost(ctx, postID, 0)
	if err != nil {
		return 0, err
	}
	return p.Stats.Likes, nil
}

// SharedByCount returns the number of shares of postID
func (s *Store) SharedByCount(ctx context.Context, postID int64) (int, error) {
	p, err := s.backend.GetPost(ctx, postID, 0)
	if err != nil {
		return 0, err
	}
	return p.Stats.Shares, nil
}

// RepliesCount returns the number of direct replies to postID
func (s *Store) RepliesCount(ctx context.Context, postID int64) (int, error) {
	p, err := s.backend.GetPost(ctx, postID, 0)
	if err != nil {
		return 0, err
	}
	return p.Stats.Replies, nil
}

// NewPost carries the input of CreatePost
type NewPost struct {
	InReplyTo *int64
	Text      string
	AuthorID  int64
}

// CreatePost validates the text and stores the post. The parent of a reply
// must already exist.
func (s *Store) CreatePost(ctx context.Context, in NewPost) (*models.Post, error) {
	if err := validation.ValidatePostText(in.Text); err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:    in.AuthorID,
		Text:      in.Text,
		InReplyTo: in.InReplyTo,
	}
	if err := s.backend.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost replaces the text of a post owned by editorID and bumps modified_at
func (s *Store) UpdatePost(ctx context.Context, editorID, postID int64, text string) (*models.Post, error) {
	if err := validation.ValidatePostText(text); err != nil {
		return nil, err
	}

	post, err := s.backend.GetPost(ctx, postID, editorID)
	if err != nil {
		return nil, err
	}
	if post.UserID != editorID {
		return nil, ErrNotOwner
	}

	modified := s.now().UTC()
	if !modified.After(post.ModifiedAt) {
		modified = post.ModifiedAt.Add(time.Nanosecond)
	}
	if err := s.backend.UpdatePostText(ctx, postID, text, modified); err != nil {
		return nil, err
	}

	post.Text = text
	post.ModifiedAt = modified
	return post, nil
}

// GetPost returns a post with counts and the viewer's like flag
func (s *Store) GetPost(ctx context.Context, postID, viewerID int64) (*models.Post, error) {
	return s.backend.GetPost(ctx, postID, viewerID)
}
