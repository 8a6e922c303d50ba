package driven

import "context"

// TokenProvider provides access tokens for authenticated API calls.
// Implementations handle token refresh transparently: GetToken is an
// explicit "ensure authenticated, return current token" operation that
// returns a fresh credential value instead of mutating shared state.
type TokenProvider interface {
	// GetToken returns a valid access token, refreshing first if the
	// stored one has expired. Returns domain.ErrAuthRequired when no
	// credentials are stored and domain.ErrAuthExpired when refresh
	// fails.
	GetToken(ctx context.Context) (string, error)

	// IsAuthenticated returns true if stored credentials exist.
	IsAuthenticated(ctx context.Context) bool
}
