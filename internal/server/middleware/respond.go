package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/iudanet/microblog/pkg/api"
)

// writeError sends an api.ErrorResponse with the given status
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: code, Message: message})
}
