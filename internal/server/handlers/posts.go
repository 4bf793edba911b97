package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/microblog/internal/server/auth"
	"github.com/iudanet/microblog/internal/server/feed"
	"github.com/iudanet/microblog/internal/server/graph"
	"github.com/iudanet/microblog/pkg/api"
)

// PostHandler обрабатывает запросы к постам, лайкам, репостам и ленте
type PostHandler struct {
	logger *slog.Logger
	store  *graph.Store
	feed   *feed.Builder
}

// NewPostHandler создает новый handler для постов
func NewPostHandler(logger *slog.Logger, store *graph.Store, builder *feed.Builder) *PostHandler {
	return &PostHandler{logger: logger, store: store, feed: builder}
}

// Create обрабатывает POST /api/v1/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	author, err := requireUser(r)
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}

	var req api.PostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}

	post, err := h.store.CreatePost(ctx, graph.NewPost{AuthorID: author, Text: req.Text, InReplyTo: req.InReplyTo})
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}

	h.logger.DebugContext(ctx, "post created", slog.Int64("post_id", post.ID), slog.Int64("user_id", author))
	sendJSON(w, h.logger, postResponse(post), http.StatusCreated)
}

// Get обрабатывает GET /api/v1/posts/{id}
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "id")
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}

	post, err := h.store.GetPost(ctx, id, auth.UserIDFromContext(ctx))
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	sendJSON(w, h.logger, postResponse(post), http.StatusOK)
}

// Update обрабатывает PATCH /api/v1/posts/{id}; only the author may edit
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	editor, err := requireUser(r)
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}

	var req api.PostUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}

	post, err := h.store.UpdatePost(ctx, editor, id, req.Text)
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	sendJSON(w, h.logger, postResponse(post), http.StatusOK)
}

// List обрабатывает GET /api/v1/posts?user=&q=&limit=&cursor=
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var scope feed.Scope = feed.AllScope{}
	if r.URL.Query().Has("user") {
		author, err := queryInt(r, "user")
		if err != nil || author == 0 {
			sendServiceError(ctx, w, h.logger, errField("user", "must be a positive integer"))
			return
		}
		scope = feed.AuthorScope{UserID: int64(author)}
	}
	h.sendFeed(w, r, scope)
}

// Replies обрабатывает GET /api/v1/posts/{id}/replies
func (h *PostHandler) Replies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "id")
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	if _, err := h.store.GetPost(ctx, id, 0); err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	h.sendFeed(w, r, feed.RepliesScope{PostID: id})
}

// Feed обрабатывает GET /api/v1/feed: домашняя лента текущего пользователя
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	viewer, err := requireUser(r)
	if err != nil {
		sendServiceError(r.Context(), w, h.logger, err)
		return
	}
	h.sendFeed(w, r, feed.HomeScope{UserID: viewer})
}

func (h *PostHandler) sendFeed(w http.ResponseWriter, r *http.Request, scope feed.Scope) {
	ctx := r.Context()

	limit, err := queryInt(r, "limit")
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}

	page, err := h.feed.Build(ctx, scope, auth.UserIDFromContext(ctx), feed.Pagination{
		Cursor: r.URL.Query().Get("cursor"),
		Terms:  queryTerms(r),
		Limit:  limit,
	})
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}

	sendJSON(w, h.logger, api.PostList{
		Objects: postResponses(page.Posts),
		Meta:    api.ListMeta{Limit: page.Limit, Next: page.Next},
	}, http.StatusOK)
}

// Like обрабатывает POST /api/v1/posts/{id}/like
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, post, err := h.edgeEnds(r)
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	like, err := h.store.Like(ctx, user, post)
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	sendJSON(w, h.logger, api.RelationResponse{UserID: like.UserID, PostID: like.PostID, CreatedAt: like.CreatedAt}, http.StatusCreated)
}

// Unlike обрабатывает DELETE /api/v1/posts/{id}/like
func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, post, err := h.edgeEnds(r)
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	if err := h.store.Unlike(ctx, user, post); err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Share обрабатывает POST /api/v1/posts/{id}/share
func (h *PostHandler) Share(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, post, err := h.edgeEnds(r)
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	share, err := h.store.Share(ctx, user, post)
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	sendJSON(w, h.logger, api.RelationResponse{UserID: share.UserID, PostID: share.PostID, CreatedAt: share.CreatedAt}, http.StatusCreated)
}

// Unshare обрабатывает DELETE /api/v1/posts/{id}/share
func (h *PostHandler) Unshare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, post, err := h.edgeEnds(r)
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	if err := h.store.Unshare(ctx, user, post); err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) edgeEnds(r *http.Request) (int64, int64, error) {
	user, err := requireUser(r)
	if err != nil {
		return 0, 0, err
	}
	post, err := pathID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	return user, post, nil
}
