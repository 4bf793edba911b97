package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/microblog/internal/client/api"
	"github.com/iudanet/microblog/internal/client/storage/boltdb"
	"github.com/iudanet/microblog/internal/server/app"
	"github.com/iudanet/microblog/internal/server/config"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// fakeIO отдаёт заранее заготовленные ответы и копит вывод
type fakeIO struct {
	inputs []string
	out    bytes.Buffer
}

func (f *fakeIO) Println(a ...any)               { fmt.Fprintln(&f.out, a...) }
func (f *fakeIO) Printf(format string, a ...any) { fmt.Fprintf(&f.out, format, a...) }
func (f *fakeIO) Write(p []byte) (int, error)    { return f.out.Write(p) }

func (f *fakeIO) ReadInput(prompt string) (string, error) {
	f.out.WriteString(prompt)
	if len(f.inputs) == 0 {
		return "", io.EOF
	}
	in := f.inputs[0]
	f.inputs = f.inputs[1:]
	return in, nil
}

func (f *fakeIO) ReadPassword(prompt string) (string, error) {
	return f.ReadInput(prompt)
}

// answer queues inputs and clears previous output
func (f *fakeIO) answer(inputs ...string) *fakeIO {
	f.inputs = inputs
	f.out.Reset()
	return f
}

func newTestServer(t *testing.T) string {
	t.Helper()
	cfg := config.Default()
	cfg.Database.Path = ":memory:"
	a, err := app.New(context.Background(), cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

// newTestCli создаёт клиента со своей локальной базой сессий
func newTestCli(t *testing.T, serverURL string) (*Cli, *fakeIO) {
	t.Helper()
	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	fio := &fakeIO{}
	return New(api.NewClient(serverURL), store, fio), fio
}

var postedRe = regexp.MustCompile(`Posted #(\d+)`)

func postedID(t *testing.T, out string) string {
	t.Helper()
	m := postedRe.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	return m[1]
}

func TestCli_SocialFlow(t *testing.T) {
	ctx := context.Background()
	url := newTestServer(t)
	alice, aliceIO := newTestCli(t, url)
	bob, bobIO := newTestCli(t, url)

	aliceIO.answer("alice", "alice@example.com", "secret", "secret")
	require.NoError(t, alice.Run(ctx, "register", nil))
	assert.Contains(t, aliceIO.out.String(), "Registration successful")

	bobIO.answer("bob", "bob@example.com", "hunter2", "hunter2")
	require.NoError(t, bob.Run(ctx, "register", nil))

	bobIO.answer()
	require.NoError(t, bob.Run(ctx, "post", []string{"first", "post"}))
	first := postedID(t, bobIO.out.String())

	bobIO.answer()
	require.NoError(t, bob.Run(ctx, "post", []string{"second post"}))

	aliceIO.answer()
	require.NoError(t, alice.Run(ctx, "follow", []string{"bob"}))
	assert.Contains(t, aliceIO.out.String(), "Following bob")

	aliceIO.answer()
	require.NoError(t, alice.Run(ctx, "like", []string{first}))
	assert.Contains(t, aliceIO.out.String(), "Liked #"+first)

	aliceIO.answer()
	require.NoError(t, alice.Run(ctx, "reply", []string{first, "nice"}))
	reply := postedID(t, aliceIO.out.String())

	// Страницы по одному посту в хронологическом порядке
	aliceIO.answer()
	require.NoError(t, alice.Run(ctx, "feed", []string{"-n", "1"}))
	out := aliceIO.out.String()
	assert.Contains(t, out, "first post")
	assert.Contains(t, out, "♥ 1  ↻ 0  ↩ 1")
	assert.Contains(t, out, "feed -more")

	aliceIO.answer()
	require.NoError(t, alice.Run(ctx, "feed", []string{"-n", "1", "-more"}))
	assert.Contains(t, aliceIO.out.String(), "second post")

	aliceIO.answer()
	require.NoError(t, alice.Run(ctx, "feed", []string{"-n", "1", "-more"}))
	out = aliceIO.out.String()
	assert.Contains(t, out, "#"+reply)
	assert.Contains(t, out, "in reply to #"+first)
	assert.NotContains(t, out, "feed -more")

	aliceIO.answer()
	require.NoError(t, alice.Run(ctx, "feed", []string{"-more"}))
	assert.Contains(t, aliceIO.out.String(), "No more posts.")

	aliceIO.answer()
	require.NoError(t, alice.Run(ctx, "status", nil))
	assert.Contains(t, aliceIO.out.String(), "Username: alice")
	assert.Contains(t, aliceIO.out.String(), "Following: 1")

	aliceIO.answer()
	require.NoError(t, alice.Run(ctx, "unfollow", []string{"bob"}))
	aliceIO.answer()
	require.NoError(t, alice.Run(ctx, "feed", nil))
	assert.NotContains(t, aliceIO.out.String(), "second post")

	// Повторный follow запрещён
	bobIO.answer()
	require.NoError(t, bob.Run(ctx, "follow", []string{"alice"}))
	var apiErr *api.Error
	require.ErrorAs(t, bob.Run(ctx, "follow", []string{"alice"}), &apiErr)
	assert.Equal(t, 409, apiErr.StatusCode)
}

func TestCli_LoginLogout(t *testing.T) {
	ctx := context.Background()
	url := newTestServer(t)
	c, fio := newTestCli(t, url)

	fio.answer("carol", "carol@example.com", "secret", "secret")
	require.NoError(t, c.Run(ctx, "register", nil))

	fio.answer()
	require.NoError(t, c.Run(ctx, "logout", nil))
	assert.Contains(t, fio.out.String(), "Logged out")

	fio.answer()
	require.NoError(t, c.Run(ctx, "logout", nil))
	assert.Contains(t, fio.out.String(), "Not logged in.")

	fio.answer()
	require.NoError(t, c.Run(ctx, "status", nil))
	assert.Contains(t, fio.out.String(), "Not authenticated")

	assert.ErrorIs(t, c.Run(ctx, "post", []string{"hi"}), ErrNotLoggedIn)

	fio.answer("carol@example.com", "wrong")
	var apiErr *api.Error
	require.ErrorAs(t, c.Run(ctx, "login", nil), &apiErr)
	assert.Equal(t, "incorrect_password", apiErr.ErrorResponse.Error)

	fio.answer("carol@example.com", "secret")
	require.NoError(t, c.Run(ctx, "login", nil))
	assert.Contains(t, fio.out.String(), "Username: carol")

	fio.answer()
	require.NoError(t, c.Run(ctx, "post", []string{"back again"}))
}

func TestCli_ResetPassword(t *testing.T) {
	ctx := context.Background()
	url := newTestServer(t)
	c, fio := newTestCli(t, url)

	fio.answer("dave", "dave@example.com", "secret", "secret")
	require.NoError(t, c.Run(ctx, "register", nil))

	fio.answer()
	require.NoError(t, c.Run(ctx, "reset-password", []string{"dave@example.com"}))
	assert.Contains(t, fio.out.String(), "password reset link sent")

	fio.answer("newpass", "different")
	assert.EqualError(t, c.Run(ctx, "reset-confirm", []string{"tok"}), "passwords do not match")

	fio.answer("newpass", "newpass")
	var apiErr *api.Error
	require.ErrorAs(t, c.Run(ctx, "reset-confirm", []string{"bogus"}), &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestCli_Usage(t *testing.T) {
	c, fio := newTestCli(t, "http://127.0.0.1:0")
	ctx := context.Background()

	tests := []struct {
		name    string
		command string
		args    []string
	}{
		{name: "unknown command", command: "dance"},
		{name: "post without text", command: "post"},
		{name: "reply without text", command: "reply", args: []string{"1"}},
		{name: "reply bad id", command: "reply", args: []string{"x", "hi"}},
		{name: "like without id", command: "like"},
		{name: "like negative id", command: "like", args: []string{"-3"}},
		{name: "follow two users", command: "follow", args: []string{"a", "b"}},
		{name: "feed bad flag", command: "feed", args: []string{"-nope"}},
		{name: "reset without email", command: "reset-password"},
		{name: "confirm without token", command: "reset-confirm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fio.answer()
			assert.ErrorIs(t, c.Run(ctx, tt.command, tt.args), ErrUsage)
		})
	}
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)
	for _, cmd := range []string{"register", "login", "follow", "feed", "reset-password"} {
		assert.Contains(t, buf.String(), cmd)
	}
}
