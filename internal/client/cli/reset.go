package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/microblog/pkg/api"
)

func (c *Cli) runResetPassword(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected <email>", ErrUsage)
	}

	resp, err := c.apiClient.RequestReset(ctx, args[0])
	if err != nil {
		return err
	}

	c.success("%s", resp.Message)
	if resp.Warning != "" {
		c.warn("%s", resp.Warning)
	}
	return nil
}

func (c *Cli) runResetConfirm(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected <token>", ErrUsage)
	}

	password, err := c.readNewPassword()
	if err != nil {
		return err
	}

	err = c.apiClient.ConfirmReset(ctx, api.ResetConfirmRequest{
		Token:        args[0],
		NewPassword:  password,
		Confirmation: password,
	})
	if err != nil {
		return err
	}

	c.success("Password changed, run 'microblog login'")
	return nil
}
