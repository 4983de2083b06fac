// Command askdocs answers natural-language questions about a folder
// of PDF documents, with citations.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/askdocs-cli/internal/adapters/driven/ai"
	boltblob "github.com/custodia-labs/askdocs-cli/internal/adapters/driven/blob/bolt"
	fsblob "github.com/custodia-labs/askdocs-cli/internal/adapters/driven/blob/fs"
	s3blob "github.com/custodia-labs/askdocs-cli/internal/adapters/driven/blob/s3"
	"github.com/custodia-labs/askdocs-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/askdocs-cli/internal/adapters/driven/extract/pdf"
	"github.com/custodia-labs/askdocs-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/askdocs-cli/internal/chunker"
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/core/services"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
	"github.com/custodia-labs/askdocs-cli/internal/vectorindex"
	"github.com/custodia-labs/askdocs-cli/internal/vectorindex/flat"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load .env if present; API keys may live there.
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "askdocs: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("creating config store: %w", err)
	}

	promptStore, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("creating prompt store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, &ai.ConfigValidator{})

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	corpus := store.CorpusStore()
	history := store.HistoryStore()

	blobs, err := openBlobStore(ctx, settings)
	if err != nil {
		return fmt.Errorf("opening blob store: %w", err)
	}
	defer blobs.Close()

	svcs := cli.Services{
		History:  services.NewHistoryService(history),
		Settings: settingsService,
	}

	// The AI-backed services need a working embedding provider. When
	// it is not configured, the catalog and settings commands still
	// work; ask and index commands report what to configure.
	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		logger.Debug("Embedding service unavailable: %v", err)
	}

	llm, err := ai.CreateLLMService(&settings.LLM)
	if err != nil {
		logger.Debug("LLM service unavailable: %v", err)
	}

	webSearch, err := ai.CreateWebSearchService(&settings.WebSearch)
	if err != nil {
		logger.Debug("Web search unavailable: %v", err)
	}

	if embedder != nil {
		newIndex := func() driven.VectorIndex {
			return flat.New(flat.Config{
				ModelName: settings.Embedding.Model,
				Blobs:     blobs,
			})
		}

		handle := vectorindex.NewHandle(newIndex())
		reportIndexLoad(os.Stderr, handle.Load(ctx))

		chk := chunker.New(
			chunker.WithMaxChunkSize(settings.Chunk.MaxChunkSize),
			chunker.WithOverlap(settings.Chunk.Overlap),
		)

		indexService := services.NewIndexService(
			corpus, pdf.New(), embedder, chk, handle, newIndex, settings.Corpus.DocsDir,
		)
		svcs.Index = indexService
		svcs.Document = services.NewDocumentService(corpus, indexService)

		if llm != nil {
			retriever := services.NewRetriever(embedder, handle, settings.Search.TopK)

			var strategy services.SufficiencyStrategy
			switch settings.Search.Policy {
			case domain.SufficiencyLLM:
				strategy = services.NewLLMStrategy(llm)
			default:
				strategy = services.NewThresholdStrategy(settings.Search.ScoreThreshold)
			}

			agent := services.NewAgent(
				retriever, strategy, llm, webSearch, settings.WebSearch.MaxResults,
			)
			agent.SetPromptStore(promptStore)

			svcs.Ask = services.NewAskService(agent, services.NewComposer(), history)
		}
	}

	cli.SetServices(svcs)
	cli.SetVersion(version)
	cli.Execute()
	return nil
}

// openBlobStore opens the snapshot storage selected in settings.
// reportIndexLoad surfaces the outcome of loading the persisted index
// snapshot. A missing snapshot is normal on first run. A malformed one
// must not pass silently: every query would run against an empty index,
// so the user is told to rebuild.
func reportIndexLoad(w io.Writer, err error) {
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		logger.Debug("No index snapshot yet: %v", err)
	case errors.Is(err, domain.ErrMalformedIndex):
		fmt.Fprintf(w, "askdocs: index snapshot is unusable: %v\n", err)
		fmt.Fprintln(w, "askdocs: run 'askdocs reindex' to rebuild it")
	default:
		fmt.Fprintf(w, "askdocs: could not load index snapshot: %v\n", err)
	}
}

func openBlobStore(ctx context.Context, settings *domain.AppSettings) (driven.BlobStore, error) {
	switch settings.Storage.Backend {
	case domain.StorageBolt:
		path, err := defaultDataPath("blobs.db")
		if err != nil {
			return nil, err
		}
		return boltblob.NewBlobStore(path)

	case domain.StorageS3:
		return s3blob.NewBlobStore(ctx, s3blob.Config{
			Endpoint:  settings.Storage.S3Endpoint,
			Bucket:    settings.Storage.S3Bucket,
			AccessKey: settings.Storage.S3AccessKey,
			SecretKey: settings.Storage.S3SecretKey,
		})

	default:
		dir, err := defaultDataPath("blobs")
		if err != nil {
			return nil, err
		}
		return fsblob.NewBlobStore(dir)
	}
}

// defaultDataPath resolves a name under ~/.askdocs/data.
func defaultDataPath(name string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".askdocs", "data", name), nil
}
