// Package handlers implements the /api/v1 HTTP endpoints on top of the graph
// store, the feed builder, the login authenticator and the reset flow.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/iudanet/microblog/internal/server/auth"
	"github.com/iudanet/microblog/internal/server/feed"
	"github.com/iudanet/microblog/internal/server/graph"
	"github.com/iudanet/microblog/internal/server/storage"
	"github.com/iudanet/microblog/internal/validation"
	"github.com/iudanet/microblog/pkg/api"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// errBadBody is reported for unreadable JSON input
var errBadBody = errors.New("invalid request body")

func sendJSON(w http.ResponseWriter, logger *slog.Logger, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func sendError(w http.ResponseWriter, logger *slog.Logger, statusCode int, resp api.ErrorResponse) {
	sendJSON(w, logger, resp, statusCode)
}

// sendServiceError maps a service error to its status and error code.
// Unknown errors are logged and reported as 500 without detail.
func sendServiceError(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		sendError(w, logger, http.StatusBadRequest, api.ErrorResponse{
			Error: "validation_error", Message: verr.Message, Field: verr.Field,
		})
	case errors.Is(err, errBadBody):
		sendError(w, logger, http.StatusBadRequest, api.ErrorResponse{Error: "invalid_request", Message: errBadBody.Error()})
	case errors.Is(err, feed.ErrInvalidCursor):
		sendError(w, logger, http.StatusBadRequest, api.ErrorResponse{Error: "invalid_cursor", Message: err.Error()})
	case errors.Is(err, auth.ErrUnauthorized):
		w.Header().Set("WWW-Authenticate", auth.Scheme)
		sendError(w, logger, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, graph.ErrNotOwner):
		sendError(w, logger, http.StatusForbidden, api.ErrorResponse{Error: "forbidden", Message: err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		sendError(w, logger, http.StatusNotFound, api.ErrorResponse{Error: "not_found", Message: err.Error()})
	case errors.Is(err, storage.ErrConflict):
		sendError(w, logger, http.StatusConflict, api.ErrorResponse{Error: "conflict", Message: err.Error()})
	case errors.Is(err, storage.ErrInvalidRelation):
		sendError(w, logger, http.StatusUnprocessableEntity, api.ErrorResponse{Error: "invalid_relation", Message: err.Error()})
	default:
		logger.ErrorContext(ctx, "request failed", slog.Any("error", err))
		sendError(w, logger, http.StatusInternalServerError, api.ErrorResponse{Error: "internal_error", Message: "internal server error"})
	}
}

// decodeJSON reads a size-capped JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errBadBody
		}
		return errors.Join(errBadBody, err)
	}
	return nil
}
