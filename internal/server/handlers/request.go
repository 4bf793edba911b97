package handlers

import (
	"net/http"
	"strconv"

	"github.com/iudanet/microblog/internal/server/auth"
	"github.com/iudanet/microblog/internal/server/search"
	"github.com/iudanet/microblog/internal/server/storage"
	"github.com/iudanet/microblog/internal/validation"
)

// Limits bounds the page size of offset-paginated lists
type Limits struct {
	Default int
	Max     int
}

// DefaultLimits matches the feed builder defaults
var DefaultLimits = Limits{Default: 20, Max: 100}

func (l Limits) clamp(limit int) int {
	switch {
	case limit <= 0:
		return l.Default
	case limit > l.Max:
		return l.Max
	default:
		return limit
	}
}

// pathID parses a positive integer path value
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errField(name, "must be a positive integer")
	}
	return id, nil
}

// queryInt parses an optional non-negative integer query parameter
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errField(name, "must be a non-negative integer")
	}
	return n, nil
}

// parsePage reads limit and offset, clamping limit to l
func parsePage(r *http.Request, l Limits) (storage.Page, error) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		return storage.Page{}, err
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		return storage.Page{}, err
	}
	return storage.Page{Limit: l.clamp(limit), Offset: offset}, nil
}

func queryTerms(r *http.Request) []string {
	return search.ParseTerms(r.URL.Query().Get("q"))
}

// requireUser returns the authenticated caller id or auth.ErrUnauthorized
func requireUser(r *http.Request) (int64, error) {
	id := auth.UserIDFromContext(r.Context())
	if id == 0 {
		return 0, auth.ErrUnauthorized
	}
	return id, nil
}

func errField(field, message string) error {
	return &validation.Error{Field: field, Message: message}
}
