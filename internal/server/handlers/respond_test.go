package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/microblog/internal/server/auth"
	"github.com/iudanet/microblog/internal/server/feed"
	"github.com/iudanet/microblog/internal/server/graph"
	"github.com/iudanet/microblog/internal/server/storage"
	"github.com/iudanet/microblog/internal/validation"
	"github.com/iudanet/microblog/pkg/api"
)

func TestSendServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{name: "validation", err: &validation.Error{Field: "text", Message: "too long"}, wantStatus: http.StatusBadRequest, wantCode: "validation_error", wantField: "text"},
		{name: "wrapped validation", err: fmt.Errorf("create: %w", &validation.Error{Field: "email", Message: "bad"}), wantStatus: http.StatusBadRequest, wantCode: "validation_error", wantField: "email"},
		{name: "bad body", err: errBadBody, wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
		{name: "cursor", err: feed.ErrInvalidCursor, wantStatus: http.StatusBadRequest, wantCode: "invalid_cursor"},
		{name: "unauthorized", err: auth.ErrUnauthorized, wantStatus: http.StatusUnauthorized, wantCode: "unauthorized"},
		{name: "not owner", err: graph.ErrNotOwner, wantStatus: http.StatusForbidden, wantCode: "forbidden"},
		{name: "user not found", err: storage.ErrUserNotFound, wantStatus: http.StatusNotFound, wantCode: "not_found"},
		{name: "relation not found", err: storage.ErrRelationNotFound, wantStatus: http.StatusNotFound, wantCode: "not_found"},
		{name: "already following", err: storage.ErrAlreadyFollowing, wantStatus: http.StatusConflict, wantCode: "conflict"},
		{name: "self follow", err: storage.ErrInvalidRelation, wantStatus: http.StatusUnprocessableEntity, wantCode: "invalid_relation"},
		{name: "unknown", err: errors.New("disk full"), wantStatus: http.StatusInternalServerError, wantCode: "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			sendServiceError(context.Background(), w, setupTestLogger(), tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp api.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.wantCode, resp.Error)
			assert.Equal(t, tt.wantField, resp.Field)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, resp.Message, "disk full")
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"text":"hi"}`},
		{name: "empty", body: "", wantErr: true},
		{name: "broken", body: `{"text":`, wantErr: true},
		{name: "too large", body: `{"text":"` + strings.Repeat("a", maxBodyBytes) + `"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var v api.PostUpdateRequest
			err := decodeJSON(httptest.NewRecorder(), r, &v)
			if tt.wantErr {
				assert.ErrorIs(t, err, errBadBody)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "hi", v.Text)
		})
	}
}

func TestParsePage(t *testing.T) {
	limits := Limits{Default: 20, Max: 50}

	tests := []struct {
		name    string
		query   string
		want    storage.Page
		wantErr bool
	}{
		{name: "defaults", query: "", want: storage.Page{Limit: 20}},
		{name: "explicit", query: "limit=5&offset=10", want: storage.Page{Limit: 5, Offset: 10}},
		{name: "clamped", query: "limit=500", want: storage.Page{Limit: 50}},
		{name: "negative offset", query: "offset=-1", wantErr: true},
		{name: "not a number", query: "limit=ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			page, err := parsePage(r, limits)
			if tt.wantErr {
				var verr *validation.Error
				assert.ErrorAs(t, err, &verr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, page)
		})
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		value   string
		want    int64
		wantErr bool
	}{
		{value: "42", want: 42},
		{value: "0", wantErr: true},
		{value: "-3", wantErr: true},
		{value: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.SetPathValue("id", tt.value)
			id, err := pathID(r, "id")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, window(items, storage.Page{Limit: 2}))
	assert.Equal(t, []int{4, 5}, window(items, storage.Page{Limit: 10, Offset: 3}))
	assert.Equal(t, items, window(items, storage.Page{}))
	assert.Nil(t, window(items, storage.Page{Limit: 2, Offset: 5}))
}
