// Package ports defines interfaces for external dependencies.
// Usecases depend on these abstractions, not concrete implementations.
// Adapters implement these interfaces.
package ports

import (
	"context"

	"github.com/shelfrag/bookrag/internal/domain/entities"
)

// EmbeddingService generates vector embeddings for text.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// LLMService generates text responses from a language model.
type LLMService interface {
	// Generate produces a response for a fully rendered prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// VectorStore persists and queries embedded documents.
type VectorStore interface {
	// Store saves documents with their embeddings. Identifiers are
	// deterministic, so a colliding document overwrites the previous one.
	Store(ctx context.Context, docs []entities.IndexedDocument) error

	// Search finds the topK documents nearest to the query embedding,
	// nearest first.
	Search(ctx context.Context, embedding []float32, topK int) ([]entities.QueryResult, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Clear removes all data from the store.
	Clear(ctx context.Context) error

	// Close releases the store's resources.
	Close() error
}

// CatalogLoader reads the source file into normalized records.
type CatalogLoader interface {
	Load(ctx context.Context, path string) ([]entities.Record, error)
}

// FileWatcher monitors a single file for changes.
type FileWatcher interface {
	// Watch starts monitoring the file and emits events.
	Watch(ctx context.Context, path string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)
