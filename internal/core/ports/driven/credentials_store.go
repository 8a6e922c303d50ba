package driven

import (
	"context"

	"github.com/veldt-labs/boxrag-cli/internal/core/domain"
)

// CredentialsStore persists OAuth tokens between runs so the operator
// does not re-authorise on every invocation.
type CredentialsStore interface {
	// Load returns the stored credentials, or domain.ErrNotFound when
	// none have been saved.
	Load(ctx context.Context) (*domain.Credentials, error)

	// Save stores the credentials, replacing any previous value.
	Save(ctx context.Context, creds *domain.Credentials) error

	// Clear removes stored credentials.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
