package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var downloadDir string

var downloadCmd = &cobra.Command{
	Use:   "download [folder-id]",
	Short: "Download the supported files of a Box folder",
	Long: `Downloads every supported file in a Box folder to a local directory,
without touching the vector index. Useful for inspecting exactly what
ingest would read.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadDir, "out", "o", ".", "destination directory")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	folderID := defaultFolderID(args)

	paths, err := ingestService.DownloadFolder(context.Background(), folderID, downloadDir)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	if len(paths) == 0 {
		cmd.Println("No supported files in folder.")
		return nil
	}

	for _, path := range paths {
		cmd.Println(path)
	}
	cmd.Printf("Downloaded %d file(s) to %s\n", len(paths), downloadDir)
	return nil
}
