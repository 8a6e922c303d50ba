package domain

// FileFailure records a single file that could not be ingested.
type FileFailure struct {
	// FileID is the provider file identifier.
	FileID string

	// FileName is the file name, kept for operator-facing output.
	FileName string

	// Err is the error that stopped ingestion of this file.
	Err error
}

// IngestReport summarises one folder ingestion run. Partial failure is
// the expected steady state: failed files are listed here rather than
// aborting the run.
type IngestReport struct {
	// RunID identifies the ingestion run in logs.
	RunID string

	// FolderID is the folder that was ingested.
	FolderID string

	// Processed counts files whose records were fully upserted.
	Processed int

	// Skipped counts files with no text representation available.
	// These are not failures; the provider simply has nothing to index.
	Skipped int

	// RecordsWritten is the total number of records upserted.
	RecordsWritten int

	// Failed lists files that errored during extraction, cleaning,
	// chunking or upsert.
	Failed []FileFailure
}
