package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/auth"
	"github.com/iudanet/microblog/internal/server/graph"
	"github.com/iudanet/microblog/internal/server/search"
	"github.com/iudanet/microblog/internal/server/storage"
	"github.com/iudanet/microblog/pkg/api"
)

// UserHandler обрабатывает запросы к пользователям и подпискам
type UserHandler struct {
	logger *slog.Logger
	store  *graph.Store
	limits Limits
}

// NewUserHandler создает новый handler для пользователей
func NewUserHandler(logger *slog.Logger, store *graph.Store, limits Limits) *UserHandler {
	return &UserHandler{logger: logger, store: store, limits: limits}
}

// Register обрабатывает POST /api/v1/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}

	user, err := h.store.CreateUser(ctx, graph.NewUser{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Profile: models.Profile{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			AvatarURL: req.AvatarURL,
		},
	})
	if err != nil {
		h.logger.WarnContext(ctx, "registration rejected", slog.String("username", req.Username), slog.Any("error", err))
		sendServiceError(ctx, w, h.logger, err)
		return
	}

	sendJSON(w, h.logger, api.CredentialsResponse{
		User:   userResponse(user, &models.UserStats{}),
		APIKey: user.APIKey,
	}, http.StatusCreated)
}

// List обрабатывает GET /api/v1/users?q=&limit=&offset=
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := parsePage(r, h.limits)
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}

	users, total, err := h.store.ListUsers(ctx, storage.UserQuery{Terms: queryTerms(r), Page: page})
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	h.sendUsers(w, r, users, total, page)
}

// Get обрабатывает GET /api/v1/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "id")
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	h.sendUser(w, r, id)
}

// Me обрабатывает GET /api/v1/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, err := requireUser(r)
	if err != nil {
		sendServiceError(r.Context(), w, h.logger, err)
		return
	}
	h.sendUser(w, r, id)
}

func (h *UserHandler) sendUser(w http.ResponseWriter, r *http.Request, id int64) {
	ctx := r.Context()

	user, err := h.store.GetUser(ctx, id)
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	stats, err := h.store.UserStats(ctx, id, auth.UserIDFromContext(ctx))
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	sendJSON(w, h.logger, userResponse(user, stats), http.StatusOK)
}

// UpdateProfile обрабатывает PATCH /api/v1/users/me
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := requireUser(r)
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}

	var req api.ProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}

	profile := models.Profile{FirstName: req.FirstName, LastName: req.LastName, AvatarURL: req.AvatarURL}
	if err := h.store.UpdateProfile(ctx, id, profile); err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	h.sendUser(w, r, id)
}

// SetPassword обрабатывает PUT /api/v1/users/me/password
func (h *UserHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := requireUser(r)
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}

	var req api.SetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	if req.Password != req.Confirmation {
		sendServiceError(ctx, w, h.logger, errField("confirmation", "passwords do not match"))
		return
	}

	if err := h.store.SetPassword(ctx, id, req.Password); err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "password changed", slog.Int64("user_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// Followers обрабатывает GET /api/v1/users/{id}/followers
func (h *UserHandler) Followers(w http.ResponseWriter, r *http.Request) {
	h.listRelated(w, r, h.store.FollowersOf)
}

// Following обрабатывает GET /api/v1/users/{id}/following
func (h *UserHandler) Following(w http.ResponseWriter, r *http.Request) {
	h.listRelated(w, r, h.store.FollowingOf)
}

type relatedLister func(ctx context.Context, userID int64, page storage.Page) ([]*models.User, int, error)

// listRelated pages a follow list. With ?q= the whole list is filtered in
// memory first, so total_count counts matches only.
func (h *UserHandler) listRelated(w http.ResponseWriter, r *http.Request, list relatedLister) {
	ctx := r.Context()

	id, err := pathID(r, "id")
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	page, err := parsePage(r, h.limits)
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}

	terms := queryTerms(r)
	if len(terms) == 0 {
		users, total, err := list(ctx, id, page)
		if err != nil {
			sendServiceError(ctx, w, h.logger, err)
			return
		}
		h.sendUsers(w, r, users, total, page)
		return
	}

	all, _, err := list(ctx, id, storage.Page{})
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	matched := search.Filter(all, terms)
	h.sendUsers(w, r, window(matched, page), len(matched), page)
}

func (h *UserHandler) sendUsers(w http.ResponseWriter, r *http.Request, users []*models.User, total int, page storage.Page) {
	ctx := r.Context()

	objects, err := userResponses(ctx, h.store, users, auth.UserIDFromContext(ctx))
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	sendJSON(w, h.logger, api.UserList{
		Objects: objects,
		Meta:    api.ListMeta{Limit: page.Limit, Offset: page.Offset, TotalCount: &total},
	}, http.StatusOK)
}

// Follow обрабатывает POST /api/v1/users/{id}/follow
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	viewer, followee, err := h.edgeEnds(r)
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}

	f, err := h.store.Follow(ctx, viewer, followee)
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	sendJSON(w, h.logger, api.FollowResponse{
		FollowerID: f.FollowerID,
		FolloweeID: f.FolloweeID,
		CreatedAt:  f.CreatedAt,
	}, http.StatusCreated)
}

// Unfollow обрабатывает DELETE /api/v1/users/{id}/follow
func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	viewer, followee, err := h.edgeEnds(r)
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	if err := h.store.Unfollow(ctx, viewer, followee); err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) edgeEnds(r *http.Request) (int64, int64, error) {
	viewer, err := requireUser(r)
	if err != nil {
		return 0, 0, err
	}
	target, err := pathID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	return viewer, target, nil
}

// window applies offset and limit to an in-memory slice
func window[T any](items []T, page storage.Page) []T {
	if page.Offset >= len(items) {
		return nil
	}
	items = items[page.Offset:]
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}
