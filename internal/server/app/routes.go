package app

import (
	"net/http"

	"github.com/iudanet/microblog/internal/server/auth"
	"github.com/iudanet/microblog/internal/server/handlers"
	"github.com/iudanet/microblog/internal/server/middleware"
)

const healthPath = "/api/v1/health"

type routeDeps struct {
	users    *handlers.UserHandler
	posts    *handlers.PostHandler
	login    *handlers.LoginHandler
	reset    *handlers.ResetHandler
	health   *handlers.HealthHandler
	resolver *auth.Resolver
}

// routes registers every endpoint. The users collection lets the configured
// public methods (POST by default, for registration) through anonymously;
// everything else except login, reset and health requires credentials.
func (a *App) routes(d routeDeps) http.Handler {
	field := a.cfg.Auth.IdentifierField
	strict := middleware.APIKeyAuth(d.resolver, field, a.logger)
	open := middleware.APIKeyAuth(d.resolver.WithPublicMethods(a.cfg.Auth.PublicMethods...), field, a.logger)

	mux := http.NewServeMux()
	handle := func(pattern string, mw func(http.Handler) http.Handler, h http.HandlerFunc) {
		mux.Handle(pattern, mw(h))
	}

	handle("POST /api/v1/users", open, d.users.Register)
	handle("GET /api/v1/users", open, d.users.List)
	handle("GET /api/v1/users/me", strict, d.users.Me)
	handle("PATCH /api/v1/users/me", strict, d.users.UpdateProfile)
	handle("PUT /api/v1/users/me/password", strict, d.users.SetPassword)
	handle("GET /api/v1/users/{id}", strict, d.users.Get)
	handle("GET /api/v1/users/{id}/followers", strict, d.users.Followers)
	handle("GET /api/v1/users/{id}/following", strict, d.users.Following)
	handle("POST /api/v1/users/{id}/follow", strict, d.users.Follow)
	handle("DELETE /api/v1/users/{id}/follow", strict, d.users.Unfollow)

	handle("POST /api/v1/posts", strict, d.posts.Create)
	handle("GET /api/v1/posts", strict, d.posts.List)
	handle("GET /api/v1/posts/{id}", strict, d.posts.Get)
	handle("PATCH /api/v1/posts/{id}", strict, d.posts.Update)
	handle("GET /api/v1/posts/{id}/replies", strict, d.posts.Replies)
	handle("POST /api/v1/posts/{id}/like", strict, d.posts.Like)
	handle("DELETE /api/v1/posts/{id}/like", strict, d.posts.Unlike)
	handle("POST /api/v1/posts/{id}/share", strict, d.posts.Share)
	handle("DELETE /api/v1/posts/{id}/share", strict, d.posts.Unshare)

	handle("GET /api/v1/feed", strict, d.posts.Feed)

	handle("POST /api/v1/login", a.limiter.Limit, d.login.Login)
	handle("POST /api/v1/password/reset", a.limiter.Limit, d.reset.Request)
	handle("POST /api/v1/password/reset/confirm", a.limiter.Limit, d.reset.Confirm)

	mux.HandleFunc("GET "+healthPath, d.health.Health)

	var h http.Handler = mux
	h = middleware.Recovery(a.logger)(h)
	h = middleware.Logging(a.logger, healthPath)(h)
	h = middleware.RequestID(h)
	return h
}
