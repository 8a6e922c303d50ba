package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/veldt-labs/boxrag-cli/internal/core/domain"
)

// memStore is an in-memory credentials store for tests.
type memStore struct {
	mu    sync.Mutex
	creds *domain.Credentials
	loads int
}

func (m *memStore) Load(_ context.Context) (*domain.Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.creds == nil {
		return nil, domain.ErrNotFound
	}
	c := *m.creds
	return &c, nil
}

func (m *memStore) Save(_ context.Context, creds *domain.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *creds
	m.creds = &c
	return nil
}

func (m *memStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = nil
	return nil
}

func (m *memStore) Close() error { return nil }

func testConfig(tokenURL string) Config {
	return Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:9999/callback",
		Endpoint:     oauth2.Endpoint{AuthURL: tokenURL + "/authorize", TokenURL: tokenURL + "/token"},
	}
}

func TestGetTokenRequiresCredentials(t *testing.T) {
	p, err := NewProvider(testConfig("http://unused.invalid"), &memStore{})
	require.NoError(t, err)

	_, err = p.GetToken(context.Background())
	assert.True(t, errors.Is(err, domain.ErrAuthRequired))
}

func TestGetTokenValidCredentials(t *testing.T) {
	store := &memStore{creds: &domain.Credentials{
		AccessToken:  "valid-token",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(1 * time.Hour),
	}}
	p, err := NewProvider(testConfig("http://unused.invalid"), store)
	require.NoError(t, err)

	token, err := p.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "valid-token", token)
}

func TestGetTokenUsesCache(t *testing.T) {
	store := &memStore{creds: &domain.Credentials{
		AccessToken: "valid-token",
		Expiry:      time.Now().Add(1 * time.Hour),
	}}
	p, err := NewProvider(testConfig("http://unused.invalid"), store)
	require.NoError(t, err)

	_, err = p.GetToken(context.Background())
	require.NoError(t, err)
	_, err = p.GetToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, store.loads)
}

func TestGetTokenExpiredWithoutRefreshToken(t *testing.T) {
	store := &memStore{creds: &domain.Credentials{
		AccessToken: "stale",
		Expiry:      time.Now().Add(-1 * time.Hour),
	}}
	p, err := NewProvider(testConfig("http://unused.invalid"), store)
	require.NoError(t, err)

	_, err = p.GetToken(context.Background())
	assert.True(t, errors.Is(err, domain.ErrAuthExpired))
}

func TestGetTokenRefreshesAndPersists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.FormValue("grant_type"))
		assert.Equal(t, "old-refresh", r.FormValue("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"access_token": "new-access",
			"refresh_token": "new-refresh",
			"token_type": "bearer",
			"expires_in": 3600
		}`))
	}))
	defer srv.Close()

	store := &memStore{creds: &domain.Credentials{
		UserID:       "u1",
		AccessToken:  "stale",
		RefreshToken: "old-refresh",
		Expiry:       time.Now().Add(-1 * time.Hour),
	}}
	p, err := NewProvider(testConfig(srv.URL), store)
	require.NoError(t, err)

	token, err := p.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new-access", token)

	// Box rotates refresh tokens: the new pair must be persisted.
	assert.Equal(t, "new-access", store.creds.AccessToken)
	assert.Equal(t, "new-refresh", store.creds.RefreshToken)
	assert.Equal(t, "u1", store.creds.UserID)
	assert.True(t, store.creds.Expiry.After(time.Now()))
}

func TestGetTokenRefreshRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	store := &memStore{creds: &domain.Credentials{
		AccessToken:  "stale",
		RefreshToken: "revoked",
		Expiry:       time.Now().Add(-1 * time.Hour),
	}}
	p, err := NewProvider(testConfig(srv.URL), store)
	require.NoError(t, err)

	_, err = p.GetToken(context.Background())
	assert.True(t, errors.Is(err, domain.ErrAuthExpired))
}

func TestIsAuthenticated(t *testing.T) {
	p, err := NewProvider(testConfig("http://unused.invalid"), &memStore{})
	require.NoError(t, err)
	assert.False(t, p.IsAuthenticated(context.Background()))

	store := &memStore{creds: &domain.Credentials{AccessToken: "tok"}}
	p, err = NewProvider(testConfig("http://unused.invalid"), store)
	require.NoError(t, err)
	assert.True(t, p.IsAuthenticated(context.Background()))
}

func TestFlowStateMismatch(t *testing.T) {
	f, err := NewFlow(testConfig("http://unused.invalid"))
	require.NoError(t, err)

	_, err = f.Exchange(context.Background(), "code", "wrong-state")
	assert.ErrorContains(t, err, "state mismatch")
}

func TestFlowExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.FormValue("grant_type"))
		assert.Equal(t, "the-code", r.FormValue("code"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"access_token": "access",
			"refresh_token": "refresh",
			"token_type": "bearer",
			"expires_in": 3600
		}`))
	}))
	defer srv.Close()

	f, err := NewFlow(testConfig(srv.URL))
	require.NoError(t, err)
	assert.Contains(t, f.AuthURL(), "state="+f.State())

	creds, err := f.Exchange(context.Background(), "the-code", f.State())
	require.NoError(t, err)
	assert.Equal(t, "access", creds.AccessToken)
	assert.Equal(t, "refresh", creds.RefreshToken)
	assert.True(t, creds.HasRefreshToken())
}
