// Package api is the HTTP client of the microblog /api/v1 interface.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iudanet/microblog/pkg/api"
)

// ErrUserNotFound is returned by FindUser when no user has the exact username
var ErrUserNotFound = errors.New("user not found")

// Error is a non-2xx response decoded from api.ErrorResponse
type Error struct {
	api.ErrorResponse
	StatusCode int
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.ErrorResponse.Error
	}
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, msg)
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
	identifier string
	apiKey     string
}

// NewClient создает новый API клиент без учетных данных
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithCredentials returns a copy of the client that authenticates every
// request with the ApiKey header
func (c *Client) WithCredentials(identifier, apiKey string) *Client {
	cp := *c
	cp.identifier = identifier
	cp.apiKey = apiKey
	return &cp
}

// BaseURL returns the server the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.CredentialsResponse, error) {
	var resp api.CredentialsResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/users", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login обменивает логин и пароль на API ключ
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.CredentialsResponse, error) {
	var resp api.CredentialsResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Me returns the authenticated user
func (c *Client) Me(ctx context.Context) (*api.UserResponse, error) {
	var resp api.UserResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/users/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FindUser resolves a username through the user search
func (c *Client) FindUser(ctx context.Context, username string) (*api.UserResponse, error) {
	q := url.Values{"q": {username}, "limit": {"100"}}
	var resp api.UserList
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/users?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	for i := range resp.Objects {
		if resp.Objects[i].Username == username {
			return &resp.Objects[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
}

// CreatePost публикует пост или ответ
func (c *Client) CreatePost(ctx context.Context, req api.PostRequest) (*api.PostResponse, error) {
	var resp api.PostResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/posts", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Follow подписывает текущего пользователя на userID
func (c *Client) Follow(ctx context.Context, userID int64) error {
	return c.doRequest(ctx, http.MethodPost, userPath(userID, "follow"), nil, nil)
}

// Unfollow отписывает текущего пользователя от userID
func (c *Client) Unfollow(ctx context.Context, userID int64) error {
	return c.doRequest(ctx, http.MethodDelete, userPath(userID, "follow"), nil, nil)
}

// Like ставит лайк посту
func (c *Client) Like(ctx context.Context, postID int64) error {
	return c.doRequest(ctx, http.MethodPost, postPath(postID, "like"), nil, nil)
}

// Unlike снимает лайк
func (c *Client) Unlike(ctx context.Context, postID int64) error {
	return c.doRequest(ctx, http.MethodDelete, postPath(postID, "like"), nil, nil)
}

// Share делает репост
func (c *Client) Share(ctx context.Context, postID int64) error {
	return c.doRequest(ctx, http.MethodPost, postPath(postID, "share"), nil, nil)
}

// FeedQuery selects a window of the home feed
type FeedQuery struct {
	Cursor string
	Query  string
	Limit  int
}

// Feed returns one page of the home feed
func (c *Client) Feed(ctx context.Context, fq FeedQuery) (*api.PostList, error) {
	q := url.Values{}
	if fq.Limit > 0 {
		q.Set("limit", strconv.Itoa(fq.Limit))
	}
	if fq.Cursor != "" {
		q.Set("cursor", fq.Cursor)
	}
	if fq.Query != "" {
		q.Set("q", fq.Query)
	}

	path := "/api/v1/feed"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp api.PostList
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RequestReset asks the server to mail a reset link
func (c *Client) RequestReset(ctx context.Context, email string) (*api.MessageResponse, error) {
	var resp api.MessageResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/password/reset", api.ResetRequest{Email: email}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ConfirmReset sets a new password with a reset token
func (c *Client) ConfirmReset(ctx context.Context, req api.ResetConfirmRequest) error {
	return c.doRequest(ctx, http.MethodPost, "/api/v1/password/reset/confirm", req, nil)
}

func userPath(id int64, action string) string {
	return fmt.Sprintf("/api/v1/users/%d/%s", id, action)
}

func postPath(id int64, action string) string {
	return fmt.Sprintf("/api/v1/posts/%d/%s", id, action)
}

// doRequest выполняет HTTP запрос и декодирует ответ в result
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "ApiKey "+c.identifier+":"+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, &apiErr.ErrorResponse); err != nil || apiErr.ErrorResponse.Error == "" {
			apiErr.ErrorResponse = api.ErrorResponse{Error: http.StatusText(resp.StatusCode), Message: string(respBody)}
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
