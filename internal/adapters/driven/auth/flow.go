package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/veldt-labs/boxrag-cli/internal/core/domain"
)

// Flow drives the interactive authorization code exchange. The caller
// presents the URL, collects the code and state out of band, and calls
// Exchange to obtain credentials worth persisting.
type Flow struct {
	cfg   *oauth2.Config
	state string
}

// NewFlow creates a login flow with a fresh random state value.
func NewFlow(cfg Config) (*Flow, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("auth: client ID and secret are required")
	}
	return &Flow{
		cfg:   cfg.oauth2Config(),
		state: uuid.NewString(),
	}, nil
}

// AuthURL returns the authorization URL the user must visit.
func (f *Flow) AuthURL() string {
	return f.cfg.AuthCodeURL(f.state)
}

// State returns the expected state parameter.
func (f *Flow) State() string {
	return f.state
}

// Exchange trades an authorization code for credentials. The returned
// credentials carry tokens only; the caller fills in the user identity.
func (f *Flow) Exchange(ctx context.Context, code, state string) (*domain.Credentials, error) {
	if state != f.state {
		return nil, fmt.Errorf("auth: state mismatch, possible CSRF")
	}

	token, err := f.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	return &domain.Credentials{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
		UpdatedAt:    time.Now(),
	}, nil
}
