// Package vectordb - memory.go holds the in-memory store used by tests and
// the "memory" backend configuration.
package vectordb

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shelfrag/bookrag/internal/domain/entities"
)

// InMemoryStore is a brute-force in-memory vector store. Documents are kept
// in insertion order so tie-breaking matches the persisted backend.
type InMemoryStore struct {
	mu   sync.RWMutex
	docs []entities.IndexedDocument
	byID map[string]int
}

// NewInMemoryStore creates a new in-memory vector store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byID: make(map[string]int)}
}

// Store saves documents with their embeddings; a colliding identifier
// overwrites the earlier document in place.
func (s *InMemoryStore) Store(ctx context.Context, docs []entities.IndexedDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range docs {
		if i, ok := s.byID[doc.ID]; ok {
			s.docs[i] = doc
			continue
		}
		s.byID[doc.ID] = len(s.docs)
		s.docs = append(s.docs, doc)
	}
	return nil
}

// Search finds the topK documents nearest the query embedding.
func (s *InMemoryStore) Search(ctx context.Context, embedding []float32, topK int) ([]entities.QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.docs) > 0 && len(embedding) != len(s.docs[0].Embedding) {
		return nil, fmt.Errorf("%w: query dimension %d, index dimension %d",
			entities.ErrIndex, len(embedding), len(s.docs[0].Embedding))
	}

	type scored struct {
		doc   entities.Document
		score float64
	}
	results := make([]scored, len(s.docs))
	for i, doc := range s.docs {
		results[i] = scored{doc: doc.Document, score: cosineSimilarity(embedding, doc.Embedding)}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if len(results) > topK {
		results = results[:topK]
	}

	queryResults := make([]entities.QueryResult, len(results))
	for i, r := range results {
		queryResults[i] = entities.QueryResult{Document: r.doc, Score: r.score}
	}
	return queryResults, nil
}

// Count returns the number of stored documents.
func (s *InMemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

// Clear removes all data from the store.
func (s *InMemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = nil
	s.byID = make(map[string]int)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error { return nil }
