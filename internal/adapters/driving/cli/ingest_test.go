package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veldt-labs/boxrag-cli/internal/core/domain"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [folder-id]", ingestCmd.Use)
}

func TestIngestCmd_PrintsSummary(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "123"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Files processed: 2")
	assert.Contains(t, buf.String(), "Records written: 7")
}

func TestIngestCmd_DefaultsToRootFolder(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := ingestService.(*mockIngestor)
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"ingest"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, []string{"0"}, mock.folders)
}

func TestIngestCmd_ListsFailures(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	ingestService = &mockIngestor{report: &domain.IngestReport{
		FolderID:  "123",
		Processed: 1,
		Failed: []domain.FileFailure{
			{FileID: "f2", FileName: "broken.pdf", Err: domain.ErrDownloadFailed},
		},
	}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "123"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Failures (1):")
	assert.Contains(t, buf.String(), "broken.pdf")
}

func TestIngestCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "--json", "123"})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestJSON = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "\"RecordsWritten\": 7")
}

func TestIngestCmd_AuthRequired(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	ingestService = &mockIngestor{err: domain.ErrAuthRequired}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "123"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "boxrag auth login")
}

func TestIngestCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	ingestService = &mockIngestor{err: errors.New("folder listing failed")}

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"ingest", "123"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ingest failed")
}

func TestIngestCmd_ServiceNotConfigured(t *testing.T) {
	oldService := ingestService
	ingestService = nil
	defer func() {
		ingestService = oldService
	}()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"ingest", "123"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ingest service not configured")
}
