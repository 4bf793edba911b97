// Package app wires storage, services, handlers and middleware into a
// runnable HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/microblog/internal/server/auth"
	"github.com/iudanet/microblog/internal/server/config"
	"github.com/iudanet/microblog/internal/server/feed"
	"github.com/iudanet/microblog/internal/server/graph"
	"github.com/iudanet/microblog/internal/server/handlers"
	"github.com/iudanet/microblog/internal/server/middleware"
	"github.com/iudanet/microblog/internal/server/reset"
	"github.com/iudanet/microblog/internal/server/storage/sqlite"
)

// purgeInterval is how often expired reset tokens are deleted
const purgeInterval = time.Hour

// App is an assembled server
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	storage  *sqlite.Storage
	limiter  *middleware.RateLimiter
	flow     *reset.Flow
	handler  http.Handler
	notifier reset.Notifier
	version  string
}

// Option customises New
type Option func(*App)

// WithNotifier replaces the notifier chosen from the SMTP settings
func WithNotifier(n reset.Notifier) Option {
	return func(a *App) { a.notifier = n }
}

// WithVersion sets the version reported by the health endpoint
func WithVersion(v string) Option {
	return func(a *App) { a.version = v }
}

// New opens the database and builds the handler tree
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	a := &App{cfg: cfg, logger: logger, version: "dev"}
	for _, opt := range opts {
		opt(a)
	}

	store, err := sqlite.New(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	a.storage = store

	if a.notifier == nil {
		a.notifier = newNotifier(cfg.SMTP, logger)
	}

	graphStore := graph.New(store, logger)
	builder := feed.NewBuilder(store, feed.NewCursorCodec([]byte(cfg.Feed.CursorSecret)), logger,
		feed.WithLimits(cfg.Feed.DefaultLimit, cfg.Feed.MaxLimit))
	a.flow = reset.NewFlow(store, a.notifier, reset.Config{BaseURL: cfg.HTTP.PublicURL, TTL: cfg.Reset.TokenTTL}, logger)
	a.limiter = middleware.NewRateLimiter(cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow, logger)

	resolver := auth.NewResolver(store, logger)
	limits := handlers.Limits{Default: cfg.Feed.DefaultLimit, Max: cfg.Feed.MaxLimit}

	a.handler = a.routes(routeDeps{
		users:    handlers.NewUserHandler(logger, graphStore, limits),
		posts:    handlers.NewPostHandler(logger, graphStore, builder),
		login:    handlers.NewLoginHandler(logger, auth.NewAuthenticator(store, logger), graphStore),
		reset:    handlers.NewResetHandler(logger, a.flow),
		health:   handlers.NewHealthHandler(logger, store, a.version),
		resolver: resolver,
	})
	return a, nil
}

func newNotifier(cfg config.SMTPConfig, logger *slog.Logger) reset.Notifier {
	if cfg.Host == "" {
		logger.Warn("SMTP host not configured, reset links will only be logged")
		return reset.NewLogNotifier(logger)
	}
	return reset.NewSMTPNotifier(reset.SMTPConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
	})
}

// Handler returns the root HTTP handler
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
// Expired reset tokens are purged in the background.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.cfg.HTTP.Addr,
		Handler:      a.handler,
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		a.purgeLoop(gctx, purgeInterval)
		return nil
	})

	return g.Wait()
}

func (a *App) purgeLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.flow.PurgeExpired(ctx)
			if err != nil {
				a.logger.Error("failed to purge reset tokens", "error", err)
				continue
			}
			if n > 0 {
				a.logger.Info("expired reset tokens purged", "count", n)
			}
		}
	}
}

// Close releases the rate limiter and the database
func (a *App) Close() error {
	a.limiter.Stop()
	return a.storage.Close()
}
