package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/microblog/internal/crypto"
	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/storage"
)

// mockUserFinder - mock реализация UserFinder для тестов
type mockUserFinder struct {
	byUsername map[string]*models.User
	byEmail    map[string][]*models.User
	err        error
	calls      []string
}

func newMockUserFinder(users ...*models.User) *mockUserFinder {
	m := &mockUserFinder{
		byUsername: make(map[string]*models.User),
		byEmail:    make(map[string][]*models.User),
	}
	for _, u := range users {
		m.byUsername[u.Username] = u
		key := strings.ToLower(u.Email)
		m.byEmail[key] = append(m.byEmail[key], u)
	}
	return m
}

func (m *mockUserFinder) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.calls = append(m.calls, "username:"+username)
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byUsername[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserFinder) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.calls = append(m.calls, "email:"+email)
	if m.err != nil {
		return nil, m.err
	}
	users := m.byEmail[strings.ToLower(email)]
	switch len(users) {
	case 0:
		return nil, storage.ErrUserNotFound
	case 1:
		return users[0], nil
	default:
		return nil, storage.ErrAmbiguousUser
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestResolver_Resolve(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice", Email: "alice@example.com", APIKey: "alice-key", IsActive: true}
	frozen := &models.User{ID: 2, Username: "frozen", Email: "frozen@example.com", APIKey: "frozen-key"}
	twin1 := &models.User{ID: 3, Username: "twin1", Email: "twin@example.com", APIKey: "twin-key", IsActive: true}
	twin2 := &models.User{ID: 4, Username: "twin2", Email: "twin@example.com", APIKey: "twin-key", IsActive: true}

	tests := []struct {
		wantErr   error
		wantUser  *models.User
		name      string
		method    string
		creds     Credentials
		wantCalls []string
	}{
		{
			name:      "by username",
			creds:     Credentials{Identifier: "alice", Key: "alice-key"},
			method:    http.MethodGet,
			wantUser:  alice,
			wantCalls: []string{"username:alice"},
		},
		{
			name:      "by email only",
			creds:     Credentials{Identifier: "Alice@example.com", Key: "alice-key"},
			method:    http.MethodGet,
			wantUser:  alice,
			wantCalls: []string{"email:Alice@example.com"},
		},
		{
			name:      "wrong key",
			creds:     Credentials{Identifier: "alice", Key: "nope"},
			method:    http.MethodGet,
			wantErr:   ErrUnauthorized,
			wantCalls: []string{"username:alice"},
		},
		{
			name:      "unknown user is indistinguishable from wrong key",
			creds:     Credentials{Identifier: "ghost", Key: "alice-key"},
			method:    http.MethodGet,
			wantErr:   ErrUnauthorized,
			wantCalls: []string{"username:ghost"},
		},
		{
			name:      "email does not fall back to username",
			creds:     Credentials{Identifier: "ghost@example.com", Key: "alice-key"},
			method:    http.MethodGet,
			wantErr:   ErrUnauthorized,
			wantCalls: []string{"email:ghost@example.com"},
		},
		{
			name:      "inactive",
			creds:     Credentials{Identifier: "frozen", Key: "frozen-key"},
			method:    http.MethodGet,
			wantErr:   ErrUnauthorized,
			wantCalls: []string{"username:frozen"},
		},
		{
			name:      "ambiguous email",
			creds:     Credentials{Identifier: "twin@example.com", Key: "twin-key"},
			method:    http.MethodGet,
			wantErr:   ErrUnauthorized,
			wantCalls: []string{"email:twin@example.com"},
		},
		{
			name:    "missing credentials",
			creds:   Credentials{},
			method:  http.MethodGet,
			wantErr: ErrUnauthorized,
		},
		{
			name:   "public method is anonymous",
			creds:  Credentials{},
			method: http.MethodPost,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newMockUserFinder(alice, frozen, twin1, twin2)
			r := NewResolver(users, discardLogger()).WithPublicMethods("post")

			u, err := r.Resolve(context.Background(), tt.creds, tt.method)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, u)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantUser, u)
			}
			assert.Equal(t, tt.wantCalls, users.calls)
		})
	}
}

func TestResolver_StorageFailure(t *testing.T) {
	users := newMockUserFinder()
	users.err = errors.New("disk on fire")

	_, err := NewResolver(users, discardLogger()).Resolve(context.Background(),
		Credentials{Identifier: "alice", Key: "k"}, http.MethodGet)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestExtract(t *testing.T) {
	tests := []struct {
		wantErr error
		setup   func() *http.Request
		name    string
		field   string
		want    Credentials
	}{
		{
			name: "header",
			setup: func() *http.Request {
				r := httptest.NewRequest(http.MethodGet, "/?identifier=bob&api_key=bobkey", nil)
				r.Header.Set("Authorization", "ApiKey alice:secret")
				return r
			},
			want: Credentials{Identifier: "alice", Key: "secret", FromHeader: true},
		},
		{
			name: "scheme is case-insensitive",
			setup: func() *http.Request {
				r := httptest.NewRequest(http.MethodGet, "/", nil)
				r.Header.Set("Authorization", "apikey alice@example.com:secret:with:colons")
				return r
			},
			want: Credentials{Identifier: "alice@example.com", Key: "secret:with:colons", FromHeader: true},
		},
		{
			name: "malformed header does not fall through",
			setup: func() *http.Request {
				r := httptest.NewRequest(http.MethodGet, "/?identifier=bob&api_key=bobkey", nil)
				r.Header.Set("Authorization", "ApiKey alice-no-separator")
				return r
			},
			wantErr: ErrMalformedCredential,
		},
		{
			name: "bare scheme",
			setup: func() *http.Request {
				r := httptest.NewRequest(http.MethodGet, "/", nil)
				r.Header.Set("Authorization", "ApiKey")
				return r
			},
			wantErr: ErrMalformedCredential,
		},
		{
			name: "query fields",
			setup: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/?identifier=bob&api_key=bobkey", nil)
			},
			want: Credentials{Identifier: "bob", Key: "bobkey"},
		},
		{
			name:  "custom identifier field",
			field: "username",
			setup: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/?username=bob&api_key=bobkey", nil)
			},
			want: Credentials{Identifier: "bob", Key: "bobkey"},
		},
		{
			name: "form body",
			setup: func() *http.Request {
				body := url.Values{"identifier": {"bob"}, "api_key": {"bobkey"}}.Encode()
				r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return r
			},
			want: Credentials{Identifier: "bob", Key: "bobkey"},
		},
		{
			name: "other scheme falls through to query",
			setup: func() *http.Request {
				r := httptest.NewRequest(http.MethodGet, "/?identifier=bob&api_key=bobkey", nil)
				r.Header.Set("Authorization", "Bearer abc")
				return r
			},
			want: Credentials{Identifier: "bob", Key: "bobkey"},
		},
		{
			name: "nothing",
			setup: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/", nil)
			},
			want: Credentials{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.setup(), tt.field)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthenticator_Login(t *testing.T) {
	hash, err := crypto.HashPassword("1234")
	require.NoError(t, err)

	alice := &models.User{ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: hash, IsActive: true}
	frozen := &models.User{ID: 2, Username: "frozen", Email: "frozen@example.com", PasswordHash: hash}
	a := NewAuthenticator(newMockUserFinder(alice, frozen), discardLogger())

	tests := []struct {
		wantErr    error
		name       string
		identifier string
		password   string
	}{
		{name: "username", identifier: "alice", password: "1234"},
		{name: "email", identifier: "alice@example.com", password: "1234"},
		{name: "unknown", identifier: "ghost", password: "1234", wantErr: ErrInvalidUser},
		{name: "empty identifier", identifier: "", password: "1234", wantErr: ErrInvalidUser},
		{name: "disabled", identifier: "frozen", password: "1234", wantErr: ErrAccountDisabled},
		{name: "wrong password", identifier: "alice", password: "4321", wantErr: ErrIncorrectPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := a.Login(context.Background(), tt.identifier, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, alice.ID, u.ID)
		})
	}
}

func TestUserContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, UserFromContext(ctx))
	assert.Zero(t, UserIDFromContext(ctx))

	ctx = WithUser(ctx, &models.User{ID: 7})
	assert.Equal(t, int64(7), UserIDFromContext(ctx))
}
