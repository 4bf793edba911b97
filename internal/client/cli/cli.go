// Package cli implements the commands of the microblog command-line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"

	"github.com/iudanet/microblog/internal/client/api"
	"github.com/iudanet/microblog/internal/client/iocli"
	"github.com/iudanet/microblog/internal/client/storage"
)

// ErrUsage is returned when a command gets the wrong arguments
var ErrUsage = errors.New("invalid usage")

// ErrNotLoggedIn is returned by commands that need a saved session
var ErrNotLoggedIn = errors.New("not logged in, run 'microblog login' first")

type Cli struct {
	apiClient *api.Client
	sessions  storage.SessionStorage
	io        iocli.IO
	now       func() time.Time
}

// New creates a client bound to one server and one local session store
func New(apiClient *api.Client, sessions storage.SessionStorage, io iocli.IO) *Cli {
	return &Cli{
		apiClient: apiClient,
		sessions:  sessions,
		io:        io,
		now:       time.Now,
	}
}

// session returns the saved session together with a client authenticated by it
func (c *Cli) session(ctx context.Context) (*storage.Session, *api.Client, error) {
	sess, err := c.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNoSession) {
			return nil, nil, ErrNotLoggedIn
		}
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}
	return sess, c.apiClient.WithCredentials(sess.Username, sess.APIKey), nil
}

// saveSession stores credentials returned by register or login
func (c *Cli) saveSession(ctx context.Context, creds *api.CredentialsResponse) error {
	sess := &storage.Session{
		SavedAt:   c.now().UTC(),
		ServerURL: c.apiClient.BaseURL(),
		Username:  creds.User.Username,
		APIKey:    creds.APIKey,
		UserID:    creds.User.ID,
	}
	if err := c.sessions.SaveSession(ctx, sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (c *Cli) success(format string, a ...any) {
	_, _ = color.New(color.FgGreen).Fprintf(c.io, "✓ "+format+"\n", a...)
}

func (c *Cli) warn(format string, a ...any) {
	_, _ = color.New(color.FgYellow).Fprintf(c.io, "⚠️  "+format+"\n", a...)
}

func (c *Cli) header(title string) {
	_, _ = color.New(color.FgCyan, color.Bold).Fprintf(c.io, "=== %s ===\n", title)
	c.io.Println()
}

// parseID reads a numeric post id argument
func parseID(args []string, what string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected <%s>", ErrUsage, what)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive number, got %q", ErrUsage, what, args[0])
	}
	return id, nil
}

// PrintUsage writes the command summary
func PrintUsage(w io.Writer) {
	bold := color.New(color.Bold)
	_, _ = bold.Fprintln(w, "Microblog Client")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  microblog [OPTIONS] COMMAND [ARGS]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -version                 Show version information")
	fmt.Fprintln(w, "  -server URL              Server URL (default: http://localhost:8080)")
	fmt.Fprintln(w, "  -db PATH                 Path to local session database (default: microblog-client.db)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  register                 Create an account and log in")
	fmt.Fprintln(w, "  login                    Log in with username or email")
	fmt.Fprintln(w, "  logout                   Forget the saved API key")
	fmt.Fprintln(w, "  status                   Show the logged in user")
	fmt.Fprintln(w, "  post <text>              Publish a post")
	fmt.Fprintln(w, "  reply <id> <text>        Reply to a post")
	fmt.Fprintln(w, "  follow <username>        Follow a user")
	fmt.Fprintln(w, "  unfollow <username>      Stop following a user")
	fmt.Fprintln(w, "  like <id>                Like a post")
	fmt.Fprintln(w, "  unlike <id>              Remove a like")
	fmt.Fprintln(w, "  share <id>               Share a post with your followers")
	fmt.Fprintln(w, "  feed [-n N] [-q TERMS] [-more]")
	fmt.Fprintln(w, "                           Show the home feed, -more continues where the last page stopped")
	fmt.Fprintln(w, "  reset-password <email>   Mail a password reset link")
	fmt.Fprintln(w, "  reset-confirm <token>    Choose a new password with a reset token")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  microblog register")
	fmt.Fprintln(w, "  microblog post 'hello world'")
	fmt.Fprintln(w, "  microblog follow alice")
	fmt.Fprintln(w, "  microblog feed -n 10")
	fmt.Fprintln(w, "  microblog -server https://example.com login")
}
