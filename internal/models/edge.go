package models

import "time"

// Follow is a directed edge: Follower follows Followee.
// The pair is unique and never reflexive.
type Follow struct {
	CreatedAt  time.Time `json:"created_at"`
	FollowerID int64     `json:"follower_id"`
	FolloweeID int64     `json:"followee_id"`
}

// Like associates a user with a post they liked
type Like struct {
	CreatedAt time.Time `json:"created_at"`
	UserID    int64     `json:"user_id"`
	PostID    int64     `json:"post_id"`
}

// Share associates a user with a post they re-shared to their followers
type Share struct {
	CreatedAt time.Time `json:"created_at"`
	UserID    int64     `json:"user_id"`
	PostID    int64     `json:"post_id"`
}

// LostPasswordToken is a one-time password reset token.
// There is at most one per email; issuing a new one replaces the old.
type LostPasswordToken struct {
	CreatedAt           time.Time `json:"created_at"`
	PendingPasswordHash *string   `json:"-"` // set only while a redeem is being applied
	Email               string    `json:"email"`
	Token               string    `json:"-"`
}
