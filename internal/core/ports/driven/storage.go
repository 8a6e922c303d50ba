package driven

import (
	"context"
	"io"

	"github.com/veldt-labs/boxrag-cli/internal/core/domain"
)

// Account identifies the authenticated storage-provider user.
type Account struct {
	// ID is the provider's user identifier. It is also the vector index
	// namespace for everything this user ingests.
	ID string

	// Login is the account's display login (email or username).
	Login string
}

// StorageProvider fetches files and extracted text from the cloud file
// storage service. All calls are synchronous request/response; the
// provider handles pagination internally.
type StorageProvider interface {
	// CurrentUser returns the authenticated account.
	CurrentUser(ctx context.Context) (Account, error)

	// ListFolder returns descriptors for every file directly inside the
	// folder. Non-file entries (subfolders, web links) are omitted.
	ListFolder(ctx context.Context, folderID string) ([]domain.FileDescriptor, error)

	// ExtractText returns the provider-generated text representation of
	// a file. Fails with domain.ErrRepresentationNotReady while the
	// provider is still generating it, domain.ErrNoTextContent when the
	// file has no text representation at all, and domain.ErrDownloadFailed
	// on transport errors retrieving the content.
	ExtractText(ctx context.Context, fileID string) (string, error)

	// Download streams the raw file content to w.
	Download(ctx context.Context, fileID string, w io.Writer) error
}
