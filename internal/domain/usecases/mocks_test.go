package usecases

import (
	"context"
	"errors"

	"github.com/shelfrag/bookrag/internal/domain/entities"
)

// mockEmbedder implements ports.EmbeddingService for testing.
type mockEmbedder struct {
	calls int
	fail  bool
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.fail {
		return nil, errors.New("embedder down")
	}
	m.calls++
	return []float32{float32(len(text)), 1, 0}, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		emb, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = emb
	}
	return out, nil
}

// mockVectorStore implements ports.VectorStore for testing.
type mockVectorStore struct {
	docs      []entities.IndexedDocument
	storeErr  error
	searchErr error
}

func (m *mockVectorStore) Store(ctx context.Context, docs []entities.IndexedDocument) error {
	if m.storeErr != nil {
		return m.storeErr
	}
	m.docs = append(m.docs, docs...)
	return nil
}

func (m *mockVectorStore) Search(ctx context.Context, embedding []float32, topK int) ([]entities.QueryResult, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	n := len(m.docs)
	if n > topK {
		n = topK
	}
	results := make([]entities.QueryResult, 0, n)
	for i := 0; i < n; i++ {
		results = append(results, entities.QueryResult{Document: m.docs[i].Document, Score: 1 - float64(i)*0.1})
	}
	return results, nil
}

func (m *mockVectorStore) Count(ctx context.Context) (int, error) { return len(m.docs), nil }

func (m *mockVectorStore) Clear(ctx context.Context) error {
	m.docs = nil
	return nil
}

func (m *mockVectorStore) Close() error { return nil }

// mockLLM implements ports.LLMService for testing.
type mockLLM struct {
	response string
	prompt   string
	fail     bool
}

func (m *mockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if m.fail {
		return "", entities.ErrGeneration
	}
	m.prompt = prompt
	if m.response != "" {
		return m.response, nil
	}
	return "mocked answer", nil
}
