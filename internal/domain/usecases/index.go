// Package usecases - index.go handles index construction and retrieval.
package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shelfrag/bookrag/internal/domain/entities"
	"github.com/shelfrag/bookrag/internal/domain/ports"
)

// defaultTopK is the retriever's fixed result size.
const defaultTopK = 50

// Indexer builds the vector index from synthesized documents, or leaves an
// already-populated store untouched.
type Indexer struct {
	embedder ports.EmbeddingService
	store    ports.VectorStore
	logger   *slog.Logger
}

// NewIndexer creates an Indexer with injected dependencies.
func NewIndexer(embedder ports.EmbeddingService, store ports.VectorStore, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{embedder: embedder, store: store, logger: logger}
}

// BuildOrLoad populates the store from docs unless it already holds
// documents, in which case the existing index is used as-is and docs are
// ignored. Presence of stored documents is the sole load signal; no
// staleness check against the source is performed. Returns true when a
// fresh index was built.
func (ix *Indexer) BuildOrLoad(ctx context.Context, docs []entities.Document) (bool, error) {
	n, err := ix.store.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: counting stored documents: %v", entities.ErrIndex, err)
	}
	if n > 0 {
		ix.logger.Info("loaded existing vector index", "documents", n)
		return false, nil
	}

	if err := ix.build(ctx, docs); err != nil {
		return false, err
	}
	ix.logger.Info("built vector index", "documents", len(docs))
	return true, nil
}

// Rebuild discards the stored index and builds it fresh from docs.
func (ix *Indexer) Rebuild(ctx context.Context, docs []entities.Document) error {
	if err := ix.store.Clear(ctx); err != nil {
		return fmt.Errorf("%w: clearing store: %v", entities.ErrIndex, err)
	}
	if err := ix.build(ctx, docs); err != nil {
		return err
	}
	ix.logger.Info("rebuilt vector index", "documents", len(docs))
	return nil
}

func (ix *Indexer) build(ctx context.Context, docs []entities.Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}
	embeddings, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d documents: %w", len(docs), err)
	}

	indexed := make([]entities.IndexedDocument, len(docs))
	for i := range docs {
		indexed[i] = entities.IndexedDocument{Document: docs[i], Embedding: embeddings[i]}
	}
	if err := ix.store.Store(ctx, indexed); err != nil {
		return fmt.Errorf("storing %d documents: %w", len(docs), err)
	}
	return nil
}

// Retriever answers top-k nearest-document lookups against the store.
// k is fixed at construction, not renegotiated per call.
type Retriever struct {
	embedder ports.EmbeddingService
	store    ports.VectorStore
	topK     int
}

// NewRetriever creates a Retriever. topK <= 0 falls back to the default.
func NewRetriever(embedder ports.EmbeddingService, store ports.VectorStore, topK int) *Retriever {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &Retriever{embedder: embedder, store: store, topK: topK}
}

// Retrieve embeds the query with the same embedding service used at build
// time and returns the k nearest documents, nearest first. An empty index
// yields an empty result, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]entities.QueryResult, error) {
	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	results, err := r.store.Search(ctx, embedding, r.topK)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	return results, nil
}
