// Package testserver runs a fully wired store server for tests.
package testserver

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matthallesq/modlab/internal/app"
	"github.com/matthallesq/modlab/internal/domain/auth"
	"github.com/matthallesq/modlab/internal/fetchretry"
	"github.com/matthallesq/modlab/internal/remote"
	"github.com/matthallesq/modlab/internal/sqlstore"
)

const testPassword = "correct-horse-battery"

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlstore.DB
	App      *app.App
	Token    string
	TenantID string
}

// New starts a server over a fresh in-memory database and signs up one
// user whose session token is ts.Token.
func New(t *testing.T) *TestServer {
	t.Helper()

	db, err := sqlstore.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	a := app.New(db, app.Options{
		SessionTTL:     time.Hour,
		RequestTimeout: 10 * time.Second,
		MCPEnabled:     true,
	})
	server := httptest.NewServer(a.Handler)

	ts := &TestServer{Server: server, DB: db, App: a}
	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	ts.Token, ts.TenantID = ts.SignUp(t, "owner@example.com")
	return ts
}

// SignUp registers email and returns a session token and the new tenant id.
func (ts *TestServer) SignUp(t *testing.T, email string) (string, string) {
	t.Helper()

	ctx := context.Background()
	_, err := ts.App.Services.Auth.SignUp(ctx, auth.SignUpRequest{
		Email:       email,
		Password:    testPassword,
		DisplayName: email,
	})
	require.NoError(t, err)
	token, err := ts.App.Services.Auth.SignIn(ctx, email, testPassword)
	require.NoError(t, err)
	return token.AccessToken, token.Identity.ID
}

// AddAPIKey registers a long-lived key for tenantID.
func (ts *TestServer) AddAPIKey(t *testing.T, key, tenantID string) {
	t.Helper()
	repo := sqlstore.NewAPIKeyRepository(ts.DB)
	require.NoError(t, repo.Create(context.Background(), tenantID, auth.HashToken(key), "test"))
}

// Client returns a remote client authenticated as token, with fast retries.
func (ts *TestServer) Client(t *testing.T, token string) *remote.Client {
	t.Helper()
	c, err := remote.New(remote.Config{
		BaseURL: ts.Server.URL,
		Token:   token,
		Retry: fetchretry.Config{
			Timeout:    5 * time.Second,
			MaxRetries: 1,
			RetryDelay: 10 * time.Millisecond,
		},
	}, nil)
	require.NoError(t, err)
	return c
}
