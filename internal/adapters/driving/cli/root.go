// Package cli implements the boxrag command line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veldt-labs/boxrag-cli/internal/adapters/driven/auth"
	"github.com/veldt-labs/boxrag-cli/internal/core/ports/driven"
	"github.com/veldt-labs/boxrag-cli/internal/core/ports/driving"
	"github.com/veldt-labs/boxrag-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected by the composition root before Execute runs.
// Commands check for nil so tests can swap in mocks.
var (
	ingestService    driving.Ingestor
	answerService    driving.Answerer
	storageProvider  driven.StorageProvider
	vectorIndex      driven.VectorIndex
	tokenProvider    driven.TokenProvider
	credentialsStore driven.CredentialsStore
	configStore      driven.ConfigStore
	authConfig       auth.Config
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "boxrag",
	Short: "Index Box folders into a vector store and ask questions about them",
	Long: `boxrag ingests documents from a Box folder, extracts and chunks
their text, and upserts the chunks into a hosted vector index. Questions
are answered by retrieving the most relevant chunks and passing them as
context to a language model.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// Services bundles everything the commands need.
type Services struct {
	Ingestor         driving.Ingestor
	Answerer         driving.Answerer
	Storage          driven.StorageProvider
	Index            driven.VectorIndex
	TokenProvider    driven.TokenProvider
	CredentialsStore driven.CredentialsStore
	ConfigStore      driven.ConfigStore
	AuthConfig       auth.Config
}

// SetServices wires the services into the command tree.
func SetServices(s Services) {
	ingestService = s.Ingestor
	answerService = s.Answerer
	storageProvider = s.Storage
	vectorIndex = s.Index
	tokenProvider = s.TokenProvider
	credentialsStore = s.CredentialsStore
	configStore = s.ConfigStore
	authConfig = s.AuthConfig
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

// ensureIndexReady resolves the vector index host before the first
// upsert or query of a process. Each command that talks to the index
// calls this, since the resolution from a previous run does not outlive
// its process. No-op when no index adapter is wired.
func ensureIndexReady(ctx context.Context) error {
	if vectorIndex == nil {
		return nil
	}
	if err := vectorIndex.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("prepare index: %w", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
