package usecases

import (
	"context"
	"testing"

	"github.com/shelfrag/bookrag/internal/domain/entities"
)

func TestIndexer_BuildsWhenStoreEmpty(t *testing.T) {
	embedder := &mockEmbedder{}
	store := &mockVectorStore{}
	ix := NewIndexer(embedder, store, nil)

	docs := Synthesize(twoBookCatalog())
	built, err := ix.BuildOrLoad(context.Background(), docs)

	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !built {
		t.Error("empty store should trigger a build")
	}
	if len(store.docs) != len(docs) {
		t.Errorf("expected %d stored documents, got %d", len(docs), len(store.docs))
	}
	if embedder.calls != len(docs) {
		t.Errorf("every document should be embedded once, got %d calls", embedder.calls)
	}
}

func TestIndexer_LoadsWhenStorePopulated(t *testing.T) {
	embedder := &mockEmbedder{}
	store := &mockVectorStore{
		docs: []entities.IndexedDocument{
			{Document: entities.Document{ID: "1", Type: entities.DocBook}, Embedding: []float32{1, 0, 0}},
		},
	}
	ix := NewIndexer(embedder, store, nil)

	built, err := ix.BuildOrLoad(context.Background(), Synthesize(twoBookCatalog()))

	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if built {
		t.Error("populated store should load, not build")
	}
	if embedder.calls != 0 {
		t.Error("load path must not embed the documents argument")
	}
	if len(store.docs) != 1 {
		t.Error("load path must not modify the store")
	}
}

func TestIndexer_EmbedderFailure(t *testing.T) {
	ix := NewIndexer(&mockEmbedder{fail: true}, &mockVectorStore{}, nil)

	_, err := ix.BuildOrLoad(context.Background(), Synthesize(twoBookCatalog()))

	if err == nil {
		t.Error("unreachable embedder should fail the build")
	}
}

func TestIndexer_Rebuild(t *testing.T) {
	embedder := &mockEmbedder{}
	store := &mockVectorStore{
		docs: []entities.IndexedDocument{
			{Document: entities.Document{ID: "stale", Type: entities.DocBook}},
		},
	}
	ix := NewIndexer(embedder, store, nil)

	docs := Synthesize(twoBookCatalog())
	if err := ix.Rebuild(context.Background(), docs); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}

	if len(store.docs) != len(docs) {
		t.Errorf("expected %d documents after rebuild, got %d", len(docs), len(store.docs))
	}
	for _, d := range store.docs {
		if d.ID == "stale" {
			t.Error("rebuild should discard previous documents")
		}
	}
}

func TestRetriever_Retrieve(t *testing.T) {
	store := &mockVectorStore{
		docs: []entities.IndexedDocument{
			{Document: entities.Document{ID: "1", Type: entities.DocBook, Content: "Book: A by X."}},
			{Document: entities.Document{ID: "Author-X", Type: entities.DocAuthorAggregate}},
		},
	}
	r := NewRetriever(&mockEmbedder{}, store, 50)

	results, err := r.Retrieve(context.Background(), "books by X")

	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Document.ID != "1" {
		t.Error("results should be nearest first")
	}
}

func TestRetriever_EmptyIndex(t *testing.T) {
	r := NewRetriever(&mockEmbedder{}, &mockVectorStore{}, 50)

	results, err := r.Retrieve(context.Background(), "anything")

	if err != nil {
		t.Fatalf("empty index should not error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty result set, got %d", len(results))
	}
}

func TestRetriever_DefaultTopK(t *testing.T) {
	r := NewRetriever(&mockEmbedder{}, &mockVectorStore{}, 0)
	if r.topK != defaultTopK {
		t.Errorf("expected default topK %d, got %d", defaultTopK, r.topK)
	}
}

func TestRetriever_EmbedderFailure(t *testing.T) {
	r := NewRetriever(&mockEmbedder{fail: true}, &mockVectorStore{}, 50)

	_, err := r.Retrieve(context.Background(), "q")

	if err == nil {
		t.Error("embedder failure should propagate")
	}
}
