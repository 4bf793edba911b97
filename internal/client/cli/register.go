package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/microblog/internal/validation"
	"github.com/iudanet/microblog/pkg/api"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.header("Registration")

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}
	if err := validation.ValidateUsername(username); err != nil {
		return err
	}

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}

	password, err := c.readNewPassword()
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Registering...")

	creds, err := c.apiClient.Register(ctx, api.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}

	if err := c.saveSession(ctx, creds); err != nil {
		return err
	}

	c.io.Println()
	c.success("Registration successful!")
	c.io.Printf("Username: %s\n", creds.User.Username)
	c.io.Printf("User ID: %d\n", creds.User.ID)
	c.io.Println("You are now logged in.")
	return nil
}

// readNewPassword asks for a password twice
func (c *Cli) readNewPassword() (string, error) {
	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return "", err
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password confirmation: %w", err)
	}
	if password != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return password, nil
}
