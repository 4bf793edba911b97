package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runFollow(ctx context.Context, args []string, follow bool) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected <username>", ErrUsage)
	}

	_, client, err := c.session(ctx)
	if err != nil {
		return err
	}

	user, err := client.FindUser(ctx, args[0])
	if err != nil {
		return err
	}

	if follow {
		if err := client.Follow(ctx, user.ID); err != nil {
			return err
		}
		c.success("Following %s", user.Username)
		return nil
	}

	if err := client.Unfollow(ctx, user.ID); err != nil {
		return err
	}
	c.success("Unfollowed %s", user.Username)
	return nil
}
