package auth

import "errors"

var (
	// ErrUnauthorized is returned for any failed credential resolution.
	// It does not tell a missing user from a wrong key.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMalformedCredential is returned for an ApiKey header without the
	// identifier:key separator
	ErrMalformedCredential = errors.New("malformed credential")

	// Login outcomes, each reported distinctly
	ErrInvalidUser       = errors.New("invalid user")
	ErrAccountDisabled   = errors.New("your account is disabled")
	ErrIncorrectPassword = errors.New("incorrect password")
)
