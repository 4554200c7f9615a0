// Package config loads and persists the application configuration as a
// TOML file. Threshold values are empirically tuned outside the core
// (grid search over a labelled question set) and arrive here as plain
// configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default file locations.
const (
	DefaultDirName  = ".leasewise"
	DefaultFileName = "config.toml"
)

// Config is the root application configuration.
type Config struct {
	// Document is the active contract document.
	Document DocumentConfig `toml:"document"`

	// DataDir is where the index database lives.
	// Empty means ~/.leasewise/data.
	DataDir string `toml:"data_dir"`

	Chunking   ChunkingConfig   `toml:"chunking"`
	Retrieval  RetrievalConfig  `toml:"retrieval"`
	Confidence ConfidenceConfig `toml:"confidence"`
	Templates  TemplatesConfig  `toml:"templates"`
	Embedding  ProviderConfig   `toml:"embedding"`
	LLM        ProviderConfig   `toml:"llm"`
}

// TemplatesConfig overrides the degraded answer texts. Empty fields
// keep the built-in defaults.
type TemplatesConfig struct {
	// NotFound is shown when the document does not ground an answer.
	NotFound string `toml:"not_found,omitempty"`

	// HedgedPrefix introduces a medium-confidence clause.
	HedgedPrefix string `toml:"hedged_prefix,omitempty"`

	// GenerationFailed is shown when the generation call errored.
	GenerationFailed string `toml:"generation_failed,omitempty"`
}

// DocumentConfig selects the active contract.
type DocumentConfig struct {
	// Path is the filesystem path of the contract document.
	Path string `toml:"path"`
}

// ChunkingConfig configures how documents are split.
type ChunkingConfig struct {
	// Size is the maximum characters per chunk.
	Size int `toml:"size"`

	// Overlap is the characters shared between consecutive chunks.
	// Must be strictly less than Size.
	Overlap int `toml:"overlap"`
}

// RetrievalConfig configures the candidate pools and inclusion gate.
type RetrievalConfig struct {
	// TopK is the candidate pool for single-passage answers.
	TopK int `toml:"top_k"`

	// TopKContext is how many passages reach the generator.
	TopKContext int `toml:"top_k_context"`

	// TopKComprehensive is the candidate pool for comprehensive answers.
	TopKComprehensive int `toml:"top_k_comprehensive"`

	// RelevanceThreshold is the lenient inclusion gate for
	// comprehensive answers (distance, 0..2).
	RelevanceThreshold float64 `toml:"relevance_threshold"`
}

// ConfidenceConfig selects and parameterises the answerability policy.
type ConfidenceConfig struct {
	// Policy is "binary" or "graded".
	Policy string `toml:"policy"`

	// Threshold is the binary policy's exclusive can-answer bound.
	Threshold float64 `toml:"threshold"`

	// High and Medium are the graded policy's class bounds.
	High   float64 `toml:"high"`
	Medium float64 `toml:"medium"`
}

// ProviderConfig configures an embedding or LLM provider.
type ProviderConfig struct {
	// Provider is "openai" or "ollama".
	Provider string `toml:"provider"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `toml:"base_url,omitempty"`

	// Model names the model to use; empty means the provider default.
	Model string `toml:"model,omitempty"`

	// APIKeyEnv names the environment variable holding the API key
	// (OpenAI only).
	APIKeyEnv string `toml:"api_key_env,omitempty"`
}

// Default returns the tuned default configuration.
func Default() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			Size:    450,
			Overlap: 100,
		},
		Retrieval: RetrievalConfig{
			TopK:               10,
			TopKContext:        3,
			TopKComprehensive:  50,
			RelevanceThreshold: 0.80,
		},
		Confidence: ConfidenceConfig{
			Policy:    "binary",
			Threshold: 0.65,
			High:      0.60,
			Medium:    0.80,
		},
		Embedding: ProviderConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		LLM: ProviderConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			APIKeyEnv: "OPENAI_API_KEY",
		},
	}
}

// DefaultPath returns ~/.leasewise/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName, DefaultFileName), nil
}

// Load reads the config from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path, creating directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Validate checks internal consistency.
func (c *Config) Validate() error {
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunking.size must be positive, got %d", c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunking.overlap must be in [0, size), got %d", c.Chunking.Overlap)
	}
	if c.Retrieval.TopK < 1 || c.Retrieval.TopKComprehensive < 1 {
		return fmt.Errorf("retrieval top_k values must be >= 1")
	}
	switch c.Confidence.Policy {
	case "binary", "graded":
	default:
		return fmt.Errorf("confidence.policy must be binary or graded, got %q", c.Confidence.Policy)
	}
	if c.Confidence.Policy == "graded" && c.Confidence.High >= c.Confidence.Medium {
		return fmt.Errorf("confidence.high (%.2f) must be below confidence.medium (%.2f)",
			c.Confidence.High, c.Confidence.Medium)
	}
	return nil
}
