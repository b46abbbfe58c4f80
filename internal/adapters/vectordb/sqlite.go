// Package vectordb provides vector store adapters.
// SQLiteStore is the persisted backend: the index directory holds a single
// SQLite database file whose presence is the load-vs-build signal.
package vectordb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/shelfrag/bookrag/internal/domain/entities"
)

// SQLiteStore implements ports.VectorStore with SQLite-based persistence.
// Embeddings are stored as JSON blobs and searched brute-force; the corpus
// is a few thousand documents, so no ANN structure is needed.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the persisted index under location.
func NewSQLiteStore(location string) (*SQLiteStore, error) {
	if location == "" {
		location = "BooksDB"
	}
	if err := os.MkdirAll(location, 0755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(location, "vectors.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: initializing schema: %v", entities.ErrIndex, err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		type TEXT NOT NULL,
		content TEXT NOT NULL,
		document BLOB NOT NULL,
		embedding BLOB NOT NULL
	);
	CREATE TABLE IF NOT EXISTS index_meta (
		key TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// dimension returns the recorded embedding dimensionality, 0 when unset.
func (s *SQLiteStore) dimension(ctx context.Context) (int, error) {
	var dim int
	err := s.db.QueryRowContext(ctx, `SELECT value FROM index_meta WHERE key = 'dimension'`).Scan(&dim)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return dim, err
}

// Store saves documents with their embeddings. Positions record insertion
// order so tied similarity scores resolve deterministically.
func (s *SQLiteStore) Store(ctx context.Context, docs []entities.IndexedDocument) error {
	if len(docs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	dim, err := s.dimension(ctx)
	if err != nil {
		return fmt.Errorf("%w: reading index metadata: %v", entities.ErrIndex, err)
	}
	if dim == 0 {
		dim = len(docs[0].Embedding)
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO index_meta (key, value) VALUES ('dimension', ?)`, dim); err != nil {
			return fmt.Errorf("%w: recording dimension: %v", entities.ErrIndex, err)
		}
	}

	var next int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM documents`).Scan(&next); err != nil {
		return fmt.Errorf("%w: reading positions: %v", entities.ErrIndex, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO documents (id, position, type, content, document, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		if len(doc.Embedding) != dim {
			return fmt.Errorf("%w: document %s has dimension %d, index has %d",
				entities.ErrIndex, doc.ID, len(doc.Embedding), dim)
		}
		docJSON, err := json.Marshal(doc.Document)
		if err != nil {
			return fmt.Errorf("encoding document %s: %w", doc.ID, err)
		}
		embJSON, err := json.Marshal(doc.Embedding)
		if err != nil {
			return fmt.Errorf("encoding embedding %s: %w", doc.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, doc.ID, next, string(doc.Type), doc.Content, docJSON, embJSON); err != nil {
			return fmt.Errorf("inserting document %s: %w", doc.ID, err)
		}
		next++
	}

	return tx.Commit()
}

// Search finds the topK documents nearest the query embedding by cosine
// similarity, nearest first, ties broken by insertion order.
func (s *SQLiteStore) Search(ctx context.Context, embedding []float32, topK int) ([]entities.QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dim, err := s.dimension(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: reading index metadata: %v", entities.ErrIndex, err)
	}
	if dim > 0 && len(embedding) != dim {
		return nil, fmt.Errorf("%w: query dimension %d, index dimension %d",
			entities.ErrIndex, len(embedding), dim)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT document, embedding FROM documents ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying documents: %v", entities.ErrIndex, err)
	}
	defer rows.Close()

	type scored struct {
		doc   entities.Document
		score float64
	}

	var results []scored
	for rows.Next() {
		var docJSON, embJSON []byte
		if err := rows.Scan(&docJSON, &embJSON); err != nil {
			return nil, fmt.Errorf("%w: scanning row: %v", entities.ErrIndex, err)
		}

		var doc entities.Document
		if err := json.Unmarshal(docJSON, &doc); err != nil {
			return nil, fmt.Errorf("%w: corrupt document record: %v", entities.ErrIndex, err)
		}
		var emb []float32
		if err := json.Unmarshal(embJSON, &emb); err != nil {
			return nil, fmt.Errorf("%w: corrupt embedding record: %v", entities.ErrIndex, err)
		}

		results = append(results, scored{doc: doc, score: cosineSimilarity(embedding, emb)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading documents: %v", entities.ErrIndex, err)
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
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting documents: %v", entities.ErrIndex, err)
	}
	return n, nil
}

// Clear removes all data from the store, including the recorded dimension.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM index_meta`)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
