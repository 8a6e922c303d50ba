package domain

import "time"

// FileDescriptor describes a file as reported by the storage provider.
// Descriptors are immutable; they are fetched once per ingestion run.
type FileDescriptor struct {
	// ID is the provider-assigned file identifier.
	ID string

	// Name is the file name including its extension.
	Name string

	// Size is the file size in bytes.
	Size int64

	// CreatedAt is when the file was created at the provider.
	CreatedAt time.Time

	// ModifiedAt is when the file was last modified at the provider.
	ModifiedAt time.Time
}
