package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/veldt-labs/boxrag-cli/internal/chunker"
	"github.com/veldt-labs/boxrag-cli/internal/cleaner"
	"github.com/veldt-labs/boxrag-cli/internal/core/domain"
	"github.com/veldt-labs/boxrag-cli/internal/core/ports/driven"
	"github.com/veldt-labs/boxrag-cli/internal/core/ports/driving"
	"github.com/veldt-labs/boxrag-cli/internal/logger"
)

// Ensure Ingestor implements the interface.
var _ driving.Ingestor = (*Ingestor)(nil)

// DefaultUpsertBatchSize is the maximum records per upsert call.
const DefaultUpsertBatchSize = 96

// IngestorConfig tunes the ingestion pipeline. Zero values fall back to
// the defaults.
type IngestorConfig struct {
	// ChunkSize is the chunk length in bytes (default 2000).
	ChunkSize int

	// ChunkOverlap is the overlap between consecutive chunks (default 100).
	ChunkOverlap int

	// UpsertBatchSize is the maximum records per upsert call (default 96).
	UpsertBatchSize int
}

func (c IngestorConfig) withDefaults() IngestorConfig {
	if c.ChunkSize == 0 {
		c.ChunkSize = chunker.DefaultChunkSize
	}
	if c.ChunkOverlap == 0 {
		c.ChunkOverlap = chunker.DefaultOverlap
	}
	if c.UpsertBatchSize == 0 {
		c.UpsertBatchSize = DefaultUpsertBatchSize
	}
	return c
}

// Ingestor runs the folder ingestion pipeline: list, select, extract,
// clean, chunk, assemble, upsert. One file failing never stops the rest.
type Ingestor struct {
	storage driven.StorageProvider
	index   driven.VectorIndex
	cfg     IngestorConfig
}

// NewIngestor creates a new ingestion service.
func NewIngestor(storage driven.StorageProvider, index driven.VectorIndex, cfg IngestorConfig) *Ingestor {
	return &Ingestor{
		storage: storage,
		index:   index,
		cfg:     cfg.withDefaults(),
	}
}

// IngestFolder processes every supported file in the folder and upserts
// the resulting records under the authenticated user's namespace.
func (s *Ingestor) IngestFolder(ctx context.Context, folderID string) (*domain.IngestReport, error) {
	account, err := s.storage.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	files, err := s.storage.ListFolder(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("list folder %s: %w", folderID, err)
	}

	selected := SelectSupported(files)
	logger.Info("Ingesting folder %s: %d of %d files supported", folderID, len(selected), len(files))

	report := &domain.IngestReport{
		RunID:    uuid.New().String(),
		FolderID: folderID,
	}

	for _, file := range selected {
		written, err := s.ingestFile(ctx, file, account.ID)
		switch {
		case errors.Is(err, domain.ErrNoTextContent):
			// The provider has nothing to index for this file. A skip,
			// not a failure.
			logger.Warn("Skipping %s: %v", file.Name, err)
			report.Skipped++
		case err != nil:
			// Hard failures surface even without -v; the file is recorded
			// and the rest of the folder keeps going.
			logger.Error("Failed to ingest %s: %v", file.Name, err)
			report.Failed = append(report.Failed, domain.FileFailure{
				FileID:   file.ID,
				FileName: file.Name,
				Err:      err,
			})
		default:
			report.Processed++
			report.RecordsWritten += written
		}
	}

	logger.Info("Ingest run %s complete: %d processed, %d skipped, %d failed, %d records",
		report.RunID, report.Processed, report.Skipped, len(report.Failed), report.RecordsWritten)
	return report, nil
}

// ingestFile runs the per-file pipeline and returns the record count.
func (s *Ingestor) ingestFile(ctx context.Context, file domain.FileDescriptor, namespace string) (int, error) {
	logger.Debug("Extracting text for %s (%s)", file.Name, file.ID)
	raw, err := s.storage.ExtractText(ctx, file.ID)
	if err != nil {
		return 0, fmt.Errorf("extract: %w", err)
	}

	text := cleaner.Clean(raw)

	chunks, err := chunker.Split(text, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if err != nil {
		return 0, fmt.Errorf("chunk: %w", err)
	}
	logger.Debug("Chunked %s into %d chunks", file.Name, len(chunks))

	records := make([]domain.Record, len(chunks))
	for i, chunk := range chunks {
		records[i] = domain.NewRecord(chunk, file, namespace)
	}

	written, err := s.upsertAll(ctx, namespace, records)
	if err != nil {
		return written, fmt.Errorf("upsert: %w", err)
	}
	return written, nil
}

// upsertAll writes records in consecutive batches of at most the
// configured batch size, preserving input order. A rejected batch aborts
// the remaining batches of this record set; a batch is all-or-nothing
// from the caller's perspective.
func (s *Ingestor) upsertAll(ctx context.Context, namespace string, records []domain.Record) (int, error) {
	written := 0
	for batch := 0; written < len(records); batch++ {
		end := written + s.cfg.UpsertBatchSize
		if end > len(records) {
			end = len(records)
		}
		if err := s.index.UpsertRecords(ctx, namespace, records[written:end]); err != nil {
			return written, &domain.UpsertError{Batch: batch, Err: err}
		}
		logger.Debug("Upserted batch %d (%d records)", batch, end-written)
		written = end
	}
	return written, nil
}

// DownloadFolder writes local copies of every supported file in the
// folder into destDir, named as the remote names.
func (s *Ingestor) DownloadFolder(ctx context.Context, folderID, destDir string) ([]string, error) {
	files, err := s.storage.ListFolder(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("list folder %s: %w", folderID, err)
	}

	names := make([]string, 0, len(files))
	for _, file := range SelectSupported(files) {
		if err := s.downloadOne(ctx, file, destDir); err != nil {
			return names, fmt.Errorf("download %s: %w", file.Name, err)
		}
		names = append(names, file.Name)
	}
	return names, nil
}

func (s *Ingestor) downloadOne(ctx context.Context, file domain.FileDescriptor, destDir string) error {
	// Remote names come from an external system; keep only the base name
	// so a crafted name cannot escape destDir.
	path := filepath.Join(destDir, filepath.Base(file.Name))
	out, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := s.storage.Download(ctx, file.ID, out); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	return out.Close()
}
