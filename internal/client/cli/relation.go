package cli

import (
	"context"
)

// runRelation handles like, unlike and share of a post
func (c *Cli) runRelation(ctx context.Context, command string, args []string) error {
	id, err := parseID(args, "post-id")
	if err != nil {
		return err
	}

	_, client, err := c.session(ctx)
	if err != nil {
		return err
	}

	switch command {
	case "like":
		err = client.Like(ctx, id)
	case "unlike":
		err = client.Unlike(ctx, id)
	default:
		err = client.Share(ctx, id)
	}
	if err != nil {
		return err
	}

	c.success("%s #%d", pastTense[command], id)
	return nil
}

var pastTense = map[string]string{
	"like":   "Liked",
	"unlike": "Unliked",
	"share":  "Shared",
}
