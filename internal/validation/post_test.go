package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/microblog/internal/models"
)

func TestValidatePostText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{name: "short", text: "hello"},
		{name: "exact limit", text: strings.Repeat("x", models.MaxPostLength)},
		{name: "multibyte at limit", text: strings.Repeat("ж", models.MaxPostLength)},
		{name: "over limit", text: strings.Repeat("x", models.MaxPostLength+1), wantErr: true},
		{name: "empty", text: "", wantErr: true},
		{name: "blank", text: "   \n\t", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePostText(tt.text)
			if tt.wantErr {
				var vErr *Error
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, "text", vErr.Field)
				return
			}
			assert.NoError(t, err)
		})
	}
}
