package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/microblog/internal/server/reset"
	"github.com/iudanet/microblog/pkg/api"
)

// ResetHandler обрабатывает восстановление пароля
type ResetHandler struct {
	logger *slog.Logger
	flow   *reset.Flow
}

// NewResetHandler создает новый handler для сброса пароля
func NewResetHandler(logger *slog.Logger, flow *reset.Flow) *ResetHandler {
	return &ResetHandler{logger: logger, flow: flow}
}

// Request обрабатывает POST /api/v1/password/reset.
// The token is stored even when the link cannot be delivered; the
// response then carries a warning.
func (h *ResetHandler) Request(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ResetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		sendServiceError(ctx, w, h.logger, errField("email", "is required"))
		return
	}

	resp := api.MessageResponse{Message: "password reset link sent"}
	if _, err := h.flow.RequestReset(ctx, req.Email); err != nil {
		if !errors.Is(err, reset.ErrNotificationFailed) {
			sendServiceError(ctx, w, h.logger, err)
			return
		}
		resp = api.MessageResponse{
			Message: "password reset requested",
			Warning: "the reset link could not be delivered, try again later",
		}
	}
	sendJSON(w, h.logger, resp, http.StatusAccepted)
}

// Confirm обрабатывает POST /api/v1/password/reset/confirm
func (h *ResetHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ResetConfirmRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	if req.Token == "" {
		sendServiceError(ctx, w, h.logger, errField("token", "is required"))
		return
	}
	if req.NewPassword != req.Confirmation {
		sendServiceError(ctx, w, h.logger, errField("confirmation", "passwords do not match"))
		return
	}

	if _, err := h.flow.Redeem(ctx, req.Token, req.NewPassword); err != nil {
		sendServiceError(ctx, w, h.logger, err)
		return
	}
	sendJSON(w, h.logger, api.MessageResponse{Message: "password updated"}, http.StatusOK)
}
