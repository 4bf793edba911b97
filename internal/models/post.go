package models

import "time"

// MaxPostLength is the upper bound on post text, counted in runes
const MaxPostLength = 200

// Post is a single microblog entry. A post with InReplyTo set is a reply.
type Post struct {
	CreatedAt     time.Time `json:"created_at"`
	ModifiedAt    time.Time `json:"modified_at"`
	InReplyTo     *int64    `json:"in_reply_to"`
	Text          string    `json:"text"`
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Stats         PostStats `json:"stats"`
	LikedByViewer bool      `json:"liked_by_current_user"`
}

// PostStats are computed from the edge tables on every read
type PostStats struct {
	Likes   int `json:"likes"`
	Shares  int `json:"shares"`
	Replies int `json:"replies"`
}

// SearchFields returns the values matched by term search
func (p *Post) SearchFields() []string {
	return []string{p.Text}
}
