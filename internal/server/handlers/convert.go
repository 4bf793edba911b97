package handlers

import (
	"context"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/graph"
	"github.com/iudanet/microblog/pkg/api"
)

func userResponse(u *models.User, stats *models.UserStats) api.UserResponse {
	resp := api.UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		FullName:   u.FullName(),
		AvatarURL:  u.AvatarURL,
		DateJoined: u.DateJoined,
	}
	if stats != nil {
		resp.Followers = stats.Followers
		resp.Following = stats.Following
		resp.Posts = stats.Posts
		resp.FollowedByCurrentUser = stats.FollowedByViewer
	}
	return resp
}

// userResponses attaches per-user stats as seen by viewerID
func userResponses(ctx context.Context, store *graph.Store, users []*models.User, viewerID int64) ([]api.UserResponse, error) {
	out := make([]api.UserResponse, 0, len(users))
	for _, u := range users {
		stats, err := store.UserStats(ctx, u.ID, viewerID)
		if err != nil {
			return nil, err
		}
		out = append(out, userResponse(u, stats))
	}
	return out, nil
}

func postResponse(p *models.Post) api.PostResponse {
	return api.PostResponse{
		ID:                 p.ID,
		UserID:             p.UserID,
		Text:               p.Text,
		InReplyTo:          p.InReplyTo,
		CreatedAt:          p.CreatedAt,
		ModifiedAt:         p.ModifiedAt,
		Likes:              p.Stats.Likes,
		Shares:             p.Stats.Shares,
		Replies:            p.Stats.Replies,
		LikedByCurrentUser: p.LikedByViewer,
	}
}

func postResponses(posts []*models.Post) []api.PostResponse {
	out := make([]api.PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, postResponse(p))
	}
	return out
}
