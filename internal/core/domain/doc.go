// Package domain defines the core business entities for boxrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - FileDescriptor: A file as listed by the storage provider
//   - Chunk: One overlapping slice of a file's extracted text
//   - Record: The storable unit (chunk + file metadata) for the index
//   - QueryHit: A ranked similarity-search result
//   - IngestReport: The outcome of one folder ingestion run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
