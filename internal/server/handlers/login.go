package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/microblog/internal/server/auth"
	"github.com/iudanet/microblog/internal/server/graph"
	"github.com/iudanet/microblog/pkg/api"
)

// LoginHandler обменивает логин и пароль на API ключ
type LoginHandler struct {
	logger *slog.Logger
	authn  *auth.Authenticator
	store  *graph.Store
}

// NewLoginHandler создает новый handler для входа
func NewLoginHandler(logger *slog.Logger, authn *auth.Authenticator, store *graph.Store) *LoginHandler {
	return &LoginHandler{logger: logger, authn: authn, store: store}
}

// Login обрабатывает POST /api/v1/login.
// Invalid user, disabled account and wrong password are reported distinctly.
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}

	user, err := h.authn.Login(ctx, req.Identifier(), req.Password)
	if err != nil {
		code := ""
		switch {
		case errors.Is(err, auth.ErrInvalidUser):
			code = "invalid_user"
		case errors.Is(err, auth.ErrAccountDisabled):
			code = "account_disabled"
		case errors.Is(err, auth.ErrIncorrectPassword):
			code = "incorrect_password"
		default:
			sendServiceError(ctx, w, h.logger, err)
			return
		}
		h.logger.WarnContext(ctx, "login failed", slog.String("reason", code))
		sendError(w, h.logger, http.StatusUnauthorized, api.ErrorResponse{Error: code, Message: err.Error()})
		return
	}

	stats, err := h.store.UserStats(ctx, user.ID, 0)
	if err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "user logged in", slog.Int64("user_id", user.ID))
	sendJSON(w, h.logger, api.CredentialsResponse{User: userResponse(user, stats), APIKey: user.APIKey}, http.StatusOK)
}
