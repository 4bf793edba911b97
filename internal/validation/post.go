package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/iudanet/microblog/internal/models"
)

// ValidatePostText enforces non-blank text of at most models.MaxPostLength runes
func ValidatePostText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fieldError("text", "cannot be empty")
	}
	if n := utf8.RuneCountInString(text); n > models.MaxPostLength {
		return fieldError("text", "must not exceed %d characters, got %d", models.MaxPostLength, n)
	}
	return nil
}
