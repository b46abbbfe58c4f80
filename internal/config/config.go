// Package config loads the application configuration from a YAML file,
// falling back to defaults when no file is present.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// IndexConfig selects and configures the vector store backend.
type IndexConfig struct {
	Backend  string        `yaml:"backend"`
	Location string        `yaml:"location"`
	Qdrant   *QdrantConfig `yaml:"qdrant,omitempty"`
}

// QdrantConfig contains connection details for the qdrant backend.
type QdrantConfig struct {
	Addr       string `yaml:"addr"`
	Collection string `yaml:"collection"`
}

// RetrieverConfig configures query-time retrieval.
type RetrieverConfig struct {
	TopK int `yaml:"top_k"`
}

// OllamaConfig names the embedding and generation models.
type OllamaConfig struct {
	BaseURL    string `yaml:"base_url"`
	EmbedModel string `yaml:"embed_model"`
	LLMModel   string `yaml:"llm_model"`
	NumThread  int    `yaml:"num_thread"`
}

// Config is the root application configuration.
type Config struct {
	Source    string          `yaml:"source"`
	ChunkSize int             `yaml:"chunk_size"`
	Index     IndexConfig     `yaml:"index"`
	Retriever RetrieverConfig `yaml:"retriever"`
	Ollama    OllamaConfig    `yaml:"ollama"`
}

// Load reads a config from path. A missing file returns defaults; a
// malformed file is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Source == "" {
		cfg.Source = "books.jsonl"
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = 10000
	}
	if cfg.Index.Backend == "" {
		cfg.Index.Backend = "sqlite"
	}
	if cfg.Index.Location == "" {
		cfg.Index.Location = "BooksDB"
	}
	if cfg.Index.Backend == "qdrant" {
		if cfg.Index.Qdrant == nil {
			cfg.Index.Qdrant = &QdrantConfig{}
		}
		if cfg.Index.Qdrant.Addr == "" {
			cfg.Index.Qdrant.Addr = "localhost:6334"
		}
		if cfg.Index.Qdrant.Collection == "" {
			cfg.Index.Qdrant.Collection = "books"
		}
	}
	if cfg.Retriever.TopK == 0 {
		cfg.Retriever.TopK = 50
	}
	if cfg.Ollama.BaseURL == "" {
		cfg.Ollama.BaseURL = "http://localhost:11434"
	}
	if cfg.Ollama.EmbedModel == "" {
		cfg.Ollama.EmbedModel = "nomic-embed-text"
	}
	if cfg.Ollama.LLMModel == "" {
		cfg.Ollama.LLMModel = "llama3.2"
	}
	if cfg.Ollama.NumThread == 0 {
		cfg.Ollama.NumThread = 8
	}
}
