package auth

import (
	"net/http"
	"strings"
)

const (
	// Scheme is the Authorization scheme token, matched case-insensitively
	Scheme = "ApiKey"
	// DefaultIdentifierField is the query/form field carrying the identifier
	DefaultIdentifierField = "identifier"
	// KeyField is the query/form field carrying the secret key
	KeyField = "api_key"
)

// Credentials is what a request presents for authentication
type Credentials struct {
	Identifier string
	Key        string
	// FromHeader is set when the Authorization header carried the credentials
	FromHeader bool
}

// Present reports whether any credential was supplied
func (c Credentials) Present() bool {
	return c.FromHeader || c.Identifier != "" || c.Key != ""
}

// Extract reads credentials from the ApiKey Authorization header or, when
// that header is absent, from query/form fields. A header with the ApiKey
// scheme but no separator is ErrMalformedCredential; it never falls through
// to the query fields.
func Extract(r *http.Request, identifierField string) (Credentials, error) {
	if identifierField == "" {
		identifierField = DefaultIdentifierField
	}

	if value, ok := apiKeyHeader(r.Header.Get("Authorization")); ok {
		identifier, key, found := strings.Cut(value, ":")
		if !found {
			return Credentials{}, ErrMalformedCredential
		}
		return Credentials{Identifier: identifier, Key: key, FromHeader: true}, nil
	}

	return Credentials{
		Identifier: formValue(r, identifierField),
		Key:        formValue(r, KeyField),
	}, nil
}

// apiKeyHeader returns the part after "ApiKey " if the header uses that scheme
func apiKeyHeader(header string) (string, bool) {
	scheme, value, _ := strings.Cut(strings.TrimSpace(header), " ")
	if !strings.EqualFold(scheme, Scheme) {
		return "", false
	}
	return strings.TrimSpace(value), true
}

// formValue reads a query parameter, then an urlencoded body field
func formValue(r *http.Request, name string) string {
	if v := r.URL.Query().Get(name); v != "" {
		return v
	}
	ct := r.Header.Get("Content-Type")
	if r.Body != nil && strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		return r.PostFormValue(name)
	}
	return ""
}
