package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veldt-labs/boxrag-cli/internal/core/domain"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [folder-id]",
	Short: "Index a Box folder into the vector store",
	Long: `Lists the files in a Box folder, extracts their text, splits it into
overlapping chunks, and upserts the chunks into the vector index under a
namespace derived from the authenticated Box account.

Files that fail are reported individually; the rest of the folder is
still processed. Without an argument the folder ID comes from the
box.folder_id config key, falling back to "0" (the Box root folder).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	folderID := defaultFolderID(args)
	ctx := context.Background()

	if tokenProvider != nil && !tokenProvider.IsAuthenticated(ctx) {
		return errors.New("not authenticated, run: boxrag auth login")
	}

	if err := ensureIndexReady(ctx); err != nil {
		return err
	}

	report, err := ingestService.IngestFolder(ctx, folderID)
	if err != nil {
		if errors.Is(err, domain.ErrAuthRequired) {
			return errors.New("not authenticated, run: boxrag auth login")
		}
		return fmt.Errorf("ingest failed: %w", err)
	}

	if ingestJSON {
		return outputIngestJSON(cmd, report)
	}
	return outputIngestSummary(cmd, report)
}

// defaultFolderID resolves the folder argument against config.
func defaultFolderID(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if configStore != nil {
		if id := configStore.GetString("box.folder_id"); id != "" {
			return id
		}
	}
	return "0"
}

func outputIngestJSON(cmd *cobra.Command, report *domain.IngestReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputIngestSummary(cmd *cobra.Command, report *domain.IngestReport) error {
	cmd.Printf("Folder %s ingested:\n", report.FolderID)
	cmd.Printf("  Files processed: %d\n", report.Processed)
	cmd.Printf("  Files skipped:   %d\n", report.Skipped)
	cmd.Printf("  Records written: %d\n", report.RecordsWritten)

	if len(report.Failed) > 0 {
		cmd.Println()
		cmd.Printf("Failures (%d):\n", len(report.Failed))
		for _, failure := range report.Failed {
			cmd.Printf("  %s (%s): %v\n", failure.FileName, failure.FileID, failure.Err)
		}
	}

	return nil
}
