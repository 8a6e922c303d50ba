// Command boxrag indexes Box folders into a hosted vector index and
// answers questions about them.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/veldt-labs/boxrag-cli/internal/adapters/driven/auth"
	"github.com/veldt-labs/boxrag-cli/internal/adapters/driven/box"
	configfile "github.com/veldt-labs/boxrag-cli/internal/adapters/driven/config/file"
	"github.com/veldt-labs/boxrag-cli/internal/adapters/driven/llm/openai"
	"github.com/veldt-labs/boxrag-cli/internal/adapters/driven/pinecone"
	"github.com/veldt-labs/boxrag-cli/internal/adapters/driven/storage/sqlite"
	"github.com/veldt-labs/boxrag-cli/internal/adapters/driving/cli"
	"github.com/veldt-labs/boxrag-cli/internal/core/services"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local overrides for development; absence is not an error.
	_ = godotenv.Load()

	configStore, err := configfile.NewConfigStore(os.Getenv("BOXRAG_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}

	credentialsStore, err := sqlite.NewStore(os.Getenv("BOXRAG_DATA_DIR"))
	if err != nil {
		return fmt.Errorf("open credentials store: %w", err)
	}
	defer credentialsStore.Close()

	authCfg := auth.Config{
		ClientID:     getSetting(configStore, "box.client_id", "BOX_CLIENT_ID"),
		ClientSecret: getSetting(configStore, "box.client_secret", "BOX_CLIENT_SECRET"),
	}

	var storage *box.Client
	var tokenProvider *auth.Provider
	if authCfg.ClientID != "" && authCfg.ClientSecret != "" {
		tokenProvider, err = auth.NewProvider(authCfg, credentialsStore)
		if err != nil {
			return fmt.Errorf("configure token provider: %w", err)
		}
		storage = box.NewClient(tokenProvider, box.Config{})
	}

	var index *pinecone.Index
	if key := getSetting(configStore, "pinecone.api_key", "PINECONE_API_KEY"); key != "" {
		index, err = pinecone.NewIndex(pinecone.Config{
			APIKey:    key,
			IndexName: configStore.GetString("pinecone.index"),
			IndexHost: getSetting(configStore, "pinecone.index_host", "PINECONE_INDEX_HOST"),
		})
		if err != nil {
			return fmt.Errorf("configure vector index: %w", err)
		}
	}

	var completion *openai.CompletionService
	if key := getSetting(configStore, "openai.api_key", "OPENAI_API_KEY"); key != "" {
		completion, err = openai.NewCompletionService(openai.Config{
			APIKey: key,
			Model:  configStore.GetString("openai.model"),
		})
		if err != nil {
			return fmt.Errorf("configure completion service: %w", err)
		}
	}

	svc := cli.Services{
		CredentialsStore: credentialsStore,
		ConfigStore:      configStore,
		AuthConfig:       authCfg,
	}
	if storage != nil {
		svc.Storage = storage
		svc.TokenProvider = tokenProvider
	}
	if index != nil {
		svc.Index = index
	}

	if storage != nil && index != nil {
		svc.Ingestor = services.NewIngestor(storage, index, services.IngestorConfig{
			ChunkSize:    configStore.GetInt("ingest.chunk_size"),
			ChunkOverlap: configStore.GetInt("ingest.chunk_overlap"),
		})
		if completion != nil {
			svc.Answerer = services.NewAnswerer(storage, index, completion)
		}
	}

	cli.SetVersion(version)
	cli.SetServices(svc)
	return cli.Execute()
}

// getSetting prefers the config file, falling back to the environment.
func getSetting(store *configfile.ConfigStore, key, envVar string) string {
	if v := store.GetString(key); v != "" {
		return v
	}
	return os.Getenv(envVar)
}
