package driven

import (
	"context"

	"github.com/veldt-labs/boxrag-cli/internal/core/domain"
)

// VectorIndex is the hosted similarity index. The service embeds record
// text and query text server-side; no vectors cross this boundary.
//
// Records are partitioned by namespace (the storage-provider user ID).
// Upserts and queries under one namespace can never observe another's
// records.
type VectorIndex interface {
	// EnsureIndex creates the backing index with integrated embedding if
	// it does not exist yet. Idempotent.
	EnsureIndex(ctx context.Context) error

	// UpsertRecords writes one batch of records under the namespace.
	// Records with an existing ID are overwritten, so re-ingesting a
	// file replaces its chunks in place.
	UpsertRecords(ctx context.Context, namespace string, records []domain.Record) error

	// Query runs a similarity search for text under the namespace and
	// returns up to topK hits ordered by descending score. Returns
	// domain.ErrNoResults when nothing matches.
	Query(ctx context.Context, namespace, text string, topK int) ([]domain.QueryHit, error)
}
