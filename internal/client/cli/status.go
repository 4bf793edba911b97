package cli

import (
	"context"
	"errors"
	"time"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.header("Authentication Status")

	sess, client, err := c.session(ctx)
	if errors.Is(err, ErrNotLoggedIn) {
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'microblog login' to authenticate.")
		return nil
	}
	if err != nil {
		return err
	}

	c.io.Printf("Server: %s\n", sess.ServerURL)
	c.io.Printf("Logged in since: %s\n", sess.SavedAt.Format(time.RFC3339))

	me, err := client.Me(ctx)
	if err != nil {
		c.warn("Saved key was rejected: %v", err)
		c.io.Println("Run 'microblog login' again.")
		return nil
	}

	c.io.Println("Status: Authenticated")
	c.io.Printf("Username: %s (id %d)\n", me.Username, me.ID)
	if me.FullName != "" {
		c.io.Printf("Name: %s\n", me.FullName)
	}
	c.io.Printf("Posts: %d  Followers: %d  Following: %d\n", me.Posts, me.Followers, me.Following)
	return nil
}
