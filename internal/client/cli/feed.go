package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/iudanet/microblog/internal/client/api"
	dto "github.com/iudanet/microblog/pkg/api"
)

func (c *Cli) runFeed(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("feed", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	limit := fs.Int("n", 0, "posts per page")
	query := fs.String("q", "", "search terms")
	more := fs.Bool("more", false, "continue from the last page")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	sess, client, err := c.session(ctx)
	if err != nil {
		return err
	}

	q := api.FeedQuery{Limit: *limit, Query: *query}
	if *more {
		cursor, err := c.sessions.GetFeedCursor(ctx, sess.Username)
		if err != nil {
			return err
		}
		if cursor == "" {
			c.io.Println("No more posts.")
			return nil
		}
		q.Cursor = cursor
	}

	page, err := client.Feed(ctx, q)
	if err != nil {
		return err
	}

	if len(page.Objects) == 0 {
		c.io.Println("No posts.")
	}
	for i := range page.Objects {
		c.printPost(&page.Objects[i])
	}

	// курсор сохраняем только для фида без фильтра
	if *query == "" {
		if err := c.sessions.SaveFeedCursor(ctx, sess.Username, page.Meta.Next); err != nil {
			return err
		}
	}
	if page.Meta.Next != "" {
		c.io.Println("Run 'microblog feed -more' for the next page.")
	}
	return nil
}

func (c *Cli) printPost(p *dto.PostResponse) {
	gray := color.New(color.FgHiBlack)

	_, _ = color.New(color.FgCyan).Fprintf(c.io, "#%d", p.ID)
	_, _ = gray.Fprintf(c.io, " by user %d at %s", p.UserID, p.CreatedAt.Local().Format("2006-01-02 15:04"))
	if p.InReplyTo != nil {
		_, _ = gray.Fprintf(c.io, " in reply to #%d", *p.InReplyTo)
	}
	c.io.Println()

	for _, line := range strings.Split(p.Text, "\n") {
		c.io.Printf("  %s\n", line)
	}

	heart := "♡"
	if p.LikedByCurrentUser {
		heart = "♥"
	}
	_, _ = gray.Fprintf(c.io, "  %s %d  ↻ %d  ↩ %d\n\n", heart, p.Likes, p.Shares, p.Replies)
}
