package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/microblog/internal/validation"
	"github.com/iudanet/microblog/pkg/api"
)

func (c *Cli) runLogin(ctx context.Context) error {
	c.header("Login")

	identifier, err := c.io.ReadInput("Username or email: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	req := api.LoginRequest{Password: password}
	if validation.IsEmail(identifier) {
		req.Email = identifier
	} else {
		req.Username = identifier
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	creds, err := c.apiClient.Login(ctx, req)
	if err != nil {
		return err
	}

	if err := c.saveSession(ctx, creds); err != nil {
		return err
	}

	c.io.Println()
	c.success("Login successful!")
	c.io.Printf("Username: %s\n", creds.User.Username)
	return nil
}
