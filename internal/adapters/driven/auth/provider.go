// Package auth provides OAuth 2.0 authentication against Box, backed
// by a persistent credentials store so tokens survive between runs.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/veldt-labs/boxrag-cli/internal/core/domain"
	"github.com/veldt-labs/boxrag-cli/internal/core/ports/driven"
	"github.com/veldt-labs/boxrag-cli/internal/logger"
)

// Ensure Provider implements the TokenProvider interface.
var _ driven.TokenProvider = (*Provider)(nil)

// BoxEndpoint is the Box OAuth 2.0 endpoint pair.
var BoxEndpoint = oauth2.Endpoint{
	AuthURL:  "https://account.box.com/api/oauth2/authorize",
	TokenURL: "https://api.box.com/oauth2/token",
}

// defaultRefreshBuffer refreshes tokens slightly before they expire so
// in-flight requests never carry a token about to lapse.
const defaultRefreshBuffer = 5 * time.Minute

// Config holds the OAuth application settings.
type Config struct {
	// ClientID is the Box application client ID (required).
	ClientID string

	// ClientSecret is the Box application client secret (required).
	ClientSecret string

	// RedirectURL is the registered redirect URI for the auth code flow.
	RedirectURL string

	// Endpoint overrides the Box endpoint pair (tests).
	Endpoint oauth2.Endpoint
}

func (c Config) oauth2Config() *oauth2.Config {
	endpoint := c.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = BoxEndpoint
	}
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Endpoint:     endpoint,
	}
}

// Provider supplies valid access tokens, refreshing them through the
// OAuth refresh grant and persisting the rotated tokens. Box rotates
// the refresh token on every refresh, so persisting is not optional.
type Provider struct {
	cfg   *oauth2.Config
	store driven.CredentialsStore

	mu            sync.RWMutex
	cachedToken   string
	cacheExpiry   time.Time
	refreshBuffer time.Duration
}

// NewProvider creates a token provider on top of a credentials store.
func NewProvider(cfg Config, store driven.CredentialsStore) (*Provider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("auth: client ID and secret are required")
	}
	return &Provider{
		cfg:           cfg.oauth2Config(),
		store:         store,
		refreshBuffer: defaultRefreshBuffer,
	}, nil
}

// GetToken returns a valid access token, refreshing if necessary.
// Returns domain.ErrAuthRequired when no credentials are stored and
// domain.ErrAuthExpired when the stored tokens can no longer be used.
func (p *Provider) GetToken(ctx context.Context) (string, error) {
	// Fast path: check cache with read lock
	p.mu.RLock()
	if p.cachedToken != "" && time.Now().Before(p.cacheExpiry) {
		token := p.cachedToken
		p.mu.RUnlock()
		return token, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if p.cachedToken != "" && time.Now().Before(p.cacheExpiry) {
		return p.cachedToken, nil
	}

	creds, err := p.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrAuthRequired
		}
		return "", fmt.Errorf("load credentials: %w", err)
	}
	if creds.AccessToken == "" {
		return "", domain.ErrAuthRequired
	}

	needsRefresh := creds.IsExpired()
	if !creds.Expiry.IsZero() {
		needsRefresh = needsRefresh || time.Until(creds.Expiry) < p.refreshBuffer
	}

	if needsRefresh {
		if !creds.HasRefreshToken() {
			return "", domain.ErrAuthExpired
		}
		if err := p.refresh(ctx, creds); err != nil {
			return "", err
		}
	}

	p.cachedToken = creds.AccessToken
	if !creds.Expiry.IsZero() {
		p.cacheExpiry = creds.Expiry.Add(-p.refreshBuffer)
	} else {
		p.cacheExpiry = time.Now().Add(1 * time.Hour)
	}

	return p.cachedToken, nil
}

// refresh exchanges the refresh token for a new token pair and persists
// the result. Mutates creds in place.
func (p *Provider) refresh(ctx context.Context, creds *domain.Credentials) error {
	logger.Debug("Access token expired, refreshing")

	src := p.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken})
	token, err := src.Token()
	if err != nil {
		return fmt.Errorf("%w: refresh token rejected: %v", domain.ErrAuthExpired, err)
	}

	creds.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		creds.RefreshToken = token.RefreshToken
	}
	creds.Expiry = token.Expiry
	creds.UpdatedAt = time.Now()

	if err := p.store.Save(ctx, creds); err != nil {
		return fmt.Errorf("save refreshed credentials: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether usable credentials exist.
func (p *Provider) IsAuthenticated(ctx context.Context) bool {
	p.mu.RLock()
	if p.cachedToken != "" && time.Now().Before(p.cacheExpiry) {
		p.mu.RUnlock()
		return true
	}
	p.mu.RUnlock()

	creds, err := p.store.Load(ctx)
	if err != nil {
		return false
	}
	return creds.IsAuthenticated()
}

// InvalidateCache clears the cached token.
func (p *Provider) InvalidateCache() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cachedToken = ""
	p.cacheExpiry = time.Time{}
}
