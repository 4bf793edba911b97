package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/iudanet/microblog/pkg/api"
)

func (c *Cli) runPost(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: expected <text>", ErrUsage)
	}
	return c.publish(ctx, api.PostRequest{Text: strings.Join(args, " ")})
}

func (c *Cli) runReply(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: expected <post-id> <text>", ErrUsage)
	}
	parent, err := parseID(args[:1], "post-id")
	if err != nil {
		return err
	}
	return c.publish(ctx, api.PostRequest{InReplyTo: &parent, Text: strings.Join(args[1:], " ")})
}

func (c *Cli) publish(ctx context.Context, req api.PostRequest) error {
	_, client, err := c.session(ctx)
	if err != nil {
		return err
	}

	post, err := client.CreatePost(ctx, req)
	if err != nil {
		return err
	}

	c.success("Posted #%d", post.ID)
	return nil
}
