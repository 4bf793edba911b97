package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/microblog/internal/server/auth"
)

// APIKeyAuth resolves ApiKey credentials and stores the user in the request
// context. Methods the resolver treats as public pass through anonymously
// before any credential is parsed, so a stale or malformed header cannot
// block them.
func APIKeyAuth(resolver *auth.Resolver, identifierField string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// публичные методы не проверяют даже формат заголовка
			if resolver.IsPublic(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			creds, err := auth.Extract(r, identifierField)
			if err != nil {
				logger.WarnContext(ctx, "malformed credential", "request_id", RequestIDFromContext(ctx))
				writeError(w, http.StatusBadRequest, "malformed_credential",
					"Authorization header must be 'ApiKey <identifier>:<key>'")
				return
			}

			user, err := resolver.Resolve(ctx, creds, r.Method)
			switch {
			case errors.Is(err, auth.ErrUnauthorized):
				// Не раскрываем причину: неизвестный пользователь и неверный ключ неразличимы
				w.Header().Set("WWW-Authenticate", auth.Scheme)
				writeError(w, http.StatusUnauthorized, "unauthorized", "valid API key credentials required")
				return
			case err != nil:
				logger.ErrorContext(ctx, "credential resolution failed",
					"request_id", RequestIDFromContext(ctx), "error", err)
				writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
				return
			}

			if user != nil {
				logger.DebugContext(ctx, "user authenticated", "user_id", user.ID)
				ctx = auth.WithUser(ctx, user)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
