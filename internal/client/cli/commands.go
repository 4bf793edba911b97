package cli

import (
	"context"
	"fmt"
)

// Run dispatches one command. args excludes the command name.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "post":
		return c.runPost(ctx, args)
	case "reply":
		return c.runReply(ctx, args)
	case "follow":
		return c.runFollow(ctx, args, true)
	case "unfollow":
		return c.runFollow(ctx, args, false)
	case "like", "unlike", "share":
		return c.runRelation(ctx, command, args)
	case "feed":
		return c.runFeed(ctx, args)
	case "reset-password":
		return c.runResetPassword(ctx, args)
	case "reset-confirm":
		return c.runResetConfirm(ctx, args)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, command)
	}
}
