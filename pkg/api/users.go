package api

import "time"

// UserResponse is the public view of a user with derived counters.
// FollowedByCurrentUser is false for anonymous requests.
type UserResponse struct {
	DateJoined            time.Time `json:"date_joined"`
	Username              string    `json:"username"`
	FirstName             string    `json:"first_name"`
	LastName              string    `json:"last_name"`
	FullName              string    `json:"full_name"`
	AvatarURL             string    `json:"avatar_url"`
	ID                    int64     `json:"id"`
	Followers             int       `json:"followers"`
	Following             int       `json:"following"`
	Posts                 int       `json:"posts"`
	FollowedByCurrentUser bool      `json:"followed_by_current_user"`
}

// ProfileRequest replaces the caller's optional profile fields
type ProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	AvatarURL string `json:"avatar_url"`
}

// UserList is a page of users
type UserList struct {
	Objects []UserResponse `json:"objects"`
	Meta    ListMeta       `json:"meta"`
}

// FollowResponse describes a created follow edge
type FollowResponse struct {
	CreatedAt  time.Time `json:"created_at"`
	FollowerID int64     `json:"follower_id"`
	FolloweeID int64     `json:"followee_id"`
}
