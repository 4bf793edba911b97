package api

import "time"

// PostRequest creates a post. InReplyTo makes it a reply.
type PostRequest struct {
	InReplyTo *int64 `json:"in_reply_to,omitempty"`
	Text      string `json:"text"`
}

// PostUpdateRequest edits the text of an existing post
type PostUpdateRequest struct {
	Text string `json:"text"`
}

// PostResponse is a post with its relation counters
type PostResponse struct {
	CreatedAt          time.Time `json:"created_at"`
	ModifiedAt         time.Time `json:"modified_at"`
	InReplyTo          *int64    `json:"in_reply_to"`
	Text               string    `json:"text"`
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	Likes              int       `json:"likes"`
	Shares             int       `json:"shares"`
	Replies            int       `json:"replies"`
	LikedByCurrentUser bool      `json:"liked_by_current_user"`
}

// PostList is a keyset-paginated page of posts. Meta.Next carries the
// cursor of the following page.
type PostList struct {
	Objects []PostResponse `json:"objects"`
	Meta    ListMeta       `json:"meta"`
}

// RelationResponse describes a created like or share
type RelationResponse struct {
	CreatedAt time.Time `json:"created_at"`
	UserID    int64     `json:"user_id"`
	PostID    int64     `json:"post_id"`
}

// ListMeta describes the window of a list response. Offset lists fill
// Offset and TotalCount, cursor lists fill Next.
type ListMeta struct {
	TotalCount *int   `json:"total_count,omitempty"`
	Next       string `json:"next,omitempty"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}
