package domain

import "time"

// Credentials stores the OAuth tokens for the authenticated storage
// provider account. One account is configured at a time; its user ID is
// also the vector index namespace.
type Credentials struct {
	// UserID is the provider's identifier for the account.
	UserID string `json:"user_id"`

	// Login is the account's display login (email or username).
	Login string `json:"login,omitempty"`

	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`

	// RefreshToken is used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`

	// Expiry is when the access token expires.
	Expiry time.Time `json:"expiry,omitempty"`

	// UpdatedAt is when the credentials were last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// IsExpired returns true if the access token has expired.
func (c *Credentials) IsExpired() bool {
	if c.Expiry.IsZero() {
		return false
	}
	return time.Now().After(c.Expiry)
}

// IsAuthenticated returns true if the credentials contain a token.
func (c *Credentials) IsAuthenticated() bool {
	return c != nil && c.AccessToken != ""
}

// HasRefreshToken returns true if a refresh token is available.
func (c *Credentials) HasRefreshToken() bool {
	return c != nil && c.RefreshToken != ""
}
