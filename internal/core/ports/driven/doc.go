// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports).
//
// Every non-trivial capability is delegated through one of these ports:
// file storage and text extraction (StorageProvider), vector similarity
// search with server-side embedding (VectorIndex), text generation
// (CompletionService), token lifecycle (TokenProvider) and local
// configuration/credential persistence. The core services only ever see
// these interfaces, never the concrete HTTP clients behind them.
package driven
