package validation

import (
	"net/mail"
	"regexp"
	"strings"
)

// UsernamePattern определяет допустимый формат username.
// '@' is excluded so a username never parses as an email address.
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+$`)

const (
	// MinUsernameLen минимальная длина username
	MinUsernameLen = 2
	// MaxUsernameLen максимальная длина username
	MaxUsernameLen = 30
	// MinPasswordLen is the shortest password accepted on registration and reset
	MinPasswordLen = 4
	// MaxEmailLen bounds the stored address
	MaxEmailLen = 254
)

// ValidateUsername checks length and the allowed alphabet
func ValidateUsername(username string) error {
	if username == "" {
		return fieldError("username", "cannot be empty")
	}
	if len(username) < MinUsernameLen {
		return fieldError("username", "must be at least %d characters long", MinUsernameLen)
	}
	if len(username) > MaxUsernameLen {
		return fieldError("username", "must not exceed %d characters", MaxUsernameLen)
	}
	if !UsernamePattern.MatchString(username) {
		return fieldError("username", "can only contain letters, numbers and . + - _")
	}
	return nil
}

// ValidatePassword checks the minimal password policy
func ValidatePassword(password string) error {
	if password == "" {
		return fieldError("password", "cannot be empty")
	}
	if len([]rune(password)) < MinPasswordLen {
		return fieldError("password", "must be at least %d characters long", MinPasswordLen)
	}
	return nil
}

// ValidateEmail requires a bare address, no display name
func ValidateEmail(email string) error {
	if email == "" {
		return fieldError("email", "cannot be empty")
	}
	if len(email) > MaxEmailLen {
		return fieldError("email", "must not exceed %d characters", MaxEmailLen)
	}
	if !IsEmail(email) {
		return fieldError("email", "is not a valid address")
	}
	return nil
}

// IsEmail reports whether s is syntactically a bare email address.
// Credential resolution uses it to decide between email and username lookup.
func IsEmail(s string) bool {
	if !strings.Contains(s, "@") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s
}
