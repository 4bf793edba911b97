package storage

import "errors"

// Common client storage errors
var (
	// ErrNoSession indicates that nobody is logged in
	ErrNoSession = errors.New("no saved session")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
