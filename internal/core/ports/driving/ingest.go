package driving

import (
	"context"

	"github.com/veldt-labs/boxrag-cli/internal/core/domain"
)

// Ingestor drives the folder ingestion pipeline: select supported files,
// extract and clean their text, chunk it, assemble records and upsert
// them into the vector index under the authenticated user's namespace.
type Ingestor interface {
	// IngestFolder processes every supported file in the folder.
	// Per-file failures are recorded in the report and never abort the
	// run; the returned error is reserved for setup failures (listing
	// the folder, resolving the user).
	IngestFolder(ctx context.Context, folderID string) (*domain.IngestReport, error)

	// DownloadFolder writes local copies of every supported file in the
	// folder into destDir, named as the remote names. Returns the
	// written file names.
	DownloadFolder(ctx context.Context, folderID, destDir string) ([]string, error)
}
