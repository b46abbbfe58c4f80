package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}

	if cfg.Source != "books.jsonl" {
		t.Errorf("unexpected default source: %s", cfg.Source)
	}
	if cfg.Index.Backend != "sqlite" || cfg.Index.Location != "BooksDB" {
		t.Errorf("unexpected default index config: %+v", cfg.Index)
	}
	if cfg.Retriever.TopK != 50 {
		t.Errorf("unexpected default top_k: %d", cfg.Retriever.TopK)
	}
	if cfg.Ollama.LLMModel != "llama3.2" || cfg.Ollama.NumThread != 8 {
		t.Errorf("unexpected ollama defaults: %+v", cfg.Ollama)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
source: catalog.jsonl
index:
  backend: qdrant
retriever:
  top_k: 10
ollama:
  llm_model: mistral
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Source != "catalog.jsonl" {
		t.Errorf("source not overridden: %s", cfg.Source)
	}
	if cfg.Retriever.TopK != 10 {
		t.Errorf("top_k not overridden: %d", cfg.Retriever.TopK)
	}
	if cfg.Ollama.LLMModel != "mistral" {
		t.Errorf("llm_model not overridden: %s", cfg.Ollama.LLMModel)
	}
	if cfg.Ollama.EmbedModel != "nomic-embed-text" {
		t.Error("unset fields should keep defaults")
	}
	if cfg.Index.Qdrant == nil || cfg.Index.Qdrant.Addr != "localhost:6334" {
		t.Error("qdrant backend should get connection defaults")
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("source: [unclosed"), 0644)

	if _, err := Load(path); err == nil {
		t.Error("malformed config should error")
	}
}
