// Package cli wires the cobra command tree for the Leasewise CLI.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/leasewise/leasewise-cli/internal/adapters/driven/docsource"
	embollama "github.com/leasewise/leasewise-cli/internal/adapters/driven/embedding/ollama"
	embopenai "github.com/leasewise/leasewise-cli/internal/adapters/driven/embedding/openai"
	llmollama "github.com/leasewise/leasewise-cli/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/leasewise/leasewise-cli/internal/adapters/driven/llm/openai"
	"github.com/leasewise/leasewise-cli/internal/adapters/driven/storage/sqlite"
	"github.com/leasewise/leasewise-cli/internal/chunker"
	"github.com/leasewise/leasewise-cli/internal/config"
	"github.com/leasewise/leasewise-cli/internal/core/ports/driven"
	"github.com/leasewise/leasewise-cli/internal/core/services"
	"github.com/leasewise/leasewise-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagConfig   string
	flagDocument string
	flagVerbose  bool
)

// app holds the wired services for the lifetime of one command.
type app struct {
	cfg       *config.Config
	docPath   string
	embedder  driven.EmbeddingService
	llm       driven.LLMService
	store     *sqlite.Store
	indexes   *services.IndexManager
	assistant *services.Answerer
	closers   []io.Closer
}

var rootCmd = &cobra.Command{
	Use:   "leasewise",
	Short: "Ask questions about a tenancy agreement",
	Long: `Leasewise answers natural-language questions about a contract document.

It retrieves the most relevant clauses by semantic similarity, decides
whether the document actually grounds an answer, and either answers
from the best clauses or synthesises every relevant clause for
comprehensive questions.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
		// A .env file is the conventional place for the API key.
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config.toml")
	rootCmd.PersistentFlags().StringVarP(&flagDocument, "document", "d", "", "path to the contract document")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose pipeline logging to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig resolves and loads the configuration file.
func loadConfig() (*config.Config, error) {
	path := flagConfig
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

// newApp wires the adapters and core services for commands that need
// them. Callers must defer app.close().
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	docPath := flagDocument
	if docPath == "" {
		docPath = cfg.Document.Path
	}
	if docPath == "" {
		return nil, errors.New("no document configured: pass --document or set document.path in the config")
	}

	a := &app{cfg: cfg, docPath: docPath}

	a.embedder, err = newEmbedder(cfg.Embedding)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, a.embedder)

	a.llm, err = newLLM(cfg.LLM)
	if err != nil {
		a.close()
		return nil, err
	}
	a.closers = append(a.closers, a.llm)

	a.store, err = sqlite.NewStore(cfg.DataDir)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("opening index store: %w", err)
	}
	a.closers = append(a.closers, a.store)

	split := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.Size),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)

	a.indexes = services.NewIndexManager(docsource.NewFileSource(), a.store, a.embedder, split)

	retriever := services.NewRetriever(a.embedder)
	a.assistant = services.NewAnswerer(retriever, a.llm, cfg.Strategy(), services.NewLexicalRouter(),
		services.AnswerConfig{
			TopKRetrieval:      cfg.Retrieval.TopK,
			TopKContext:        cfg.Retrieval.TopKContext,
			TopKComprehensive:  cfg.Retrieval.TopKComprehensive,
			RelevanceThreshold: cfg.Retrieval.RelevanceThreshold,

			NotFoundAnswer:         cfg.Templates.NotFound,
			HedgedPrefix:           cfg.Templates.HedgedPrefix,
			GenerationFailedAnswer: cfg.Templates.GenerationFailed,
		})

	return a, nil
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

func newEmbedder(cfg config.ProviderConfig) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case "", "openai":
		return embopenai.NewEmbeddingService(embopenai.Config{
			APIKey:  os.Getenv(keyEnv(cfg)),
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case "ollama":
		return embollama.NewEmbeddingService(embollama.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

func newLLM(cfg config.ProviderConfig) (driven.LLMService, error) {
	switch cfg.Provider {
	case "", "openai":
		return llmopenai.NewLLMService(llmopenai.Config{
			APIKey:  os.Getenv(keyEnv(cfg)),
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case "ollama":
		return llmollama.NewLLMService(llmollama.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func keyEnv(cfg config.ProviderConfig) string {
	if cfg.APIKeyEnv != "" {
		return cfg.APIKeyEnv
	}
	return "OPENAI_API_KEY"
}
