package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/microblog/internal/client/storage"
)

// runLogout only forgets the key locally, the server keeps it valid
func (c *Cli) runLogout(ctx context.Context) error {
	err := c.sessions.DeleteSession(ctx)
	if errors.Is(err, storage.ErrNoSession) {
		c.io.Println("Not logged in.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	c.success("Logged out")
	return nil
}
