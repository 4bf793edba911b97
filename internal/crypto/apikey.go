package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
)

// APIKeySize is the number of random bytes behind an API key
const APIKeySize = 24

// GenerateAPIKey returns a base58 encoded random secret
func GenerateAPIKey() (string, error) {
	buf := make([]byte, APIKeySize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	return base58.Encode(buf), nil
}

// KeysEqual compares two secrets in constant time
func KeysEqual(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
