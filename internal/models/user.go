package models

import (
	"strings"
	"time"
)

// User is a registered microblog account
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"` // unique, case-sensitive
	Email        string    `json:"email"`    // unique, case-insensitive
	PasswordHash string    `json:"-"`        // argon2id encoded hash
	APIKey       string    `json:"-"`        // secret key issued at registration
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	AvatarURL    string    `json:"avatar_url"`
	DateJoined   time.Time `json:"date_joined"`
	IsActive     bool      `json:"is_active"`
}

// Profile holds the optional user-editable fields
type Profile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	AvatarURL string `json:"avatar_url"`
}

// FullName joins first and last name, skipping the empty ones
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// SearchFields returns the values matched by term search
func (u *User) SearchFields() []string {
	return []string{u.Username, u.FirstName, u.LastName}
}

// UserStats are the derived counters shown on a user resource.
// FollowedByViewer is only meaningful when a viewer is known.
type UserStats struct {
	Followers        int  `json:"followers"`
	Following        int  `json:"following"`
	Posts            int  `json:"posts"`
	FollowedByViewer bool `json:"followed_by_current_user"`
}
