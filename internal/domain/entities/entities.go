// Package entities contains core business entities.
// These are the enterprise business rules - pure domain objects with no external dependencies.
package entities

// Record is one normalized book entry from the source catalog.
// Numeric fields are pointers: nil means the source value was missing or
// could not be coerced.
type Record struct {
	ID            string
	Title         string
	Authors       []string
	Year          *int
	AverageRating *float64
	RatingsCount  *int64
	ImageURL      string

	// Decade is derived from Year (floor(year/10)*10), nil when Year is nil.
	Decade *int
}

// DocumentType tags the four document variants synthesized from the catalog.
type DocumentType string

const (
	DocBook            DocumentType = "Book"
	DocAuthorAggregate DocumentType = "AuthorAggregate"
	DocDecadeAggregate DocumentType = "DecadeAggregate"
	DocTopRated        DocumentType = "TopRated"
)

// Document is a retrievable text unit with typed metadata.
// Exactly one metadata field matching Type is non-nil.
type Document struct {
	ID      string       `json:"id"`
	Type    DocumentType `json:"type"`
	Content string       `json:"content"`

	Book     *BookMeta     `json:"book,omitempty"`
	Author   *AuthorMeta   `json:"author,omitempty"`
	Decade   *DecadeMeta   `json:"decade,omitempty"`
	TopRated *TopRatedMeta `json:"top_rated,omitempty"`
}

// BookMeta carries the per-book metadata of a Book document.
type BookMeta struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Year          *int     `json:"year,omitempty"`
	Decade        *int     `json:"decade,omitempty"`
	AverageRating *float64 `json:"average_rating,omitempty"`
	RatingsCount  *int64   `json:"ratings_count,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
}

// AuthorMeta carries the metadata of an AuthorAggregate document.
type AuthorMeta struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

// DecadeMeta carries the metadata of a DecadeAggregate document.
type DecadeMeta struct {
	Decade int `json:"decade"`
	Count  int `json:"count"`
}

// TopRatedMeta carries the metadata of a TopRated document.
type TopRatedMeta struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	AverageRating float64  `json:"average_rating"`
	RatingsCount  *int64   `json:"ratings_count,omitempty"`
}

// IndexedDocument is a document paired with its embedding, as held by the
// vector store.
type IndexedDocument struct {
	Document
	Embedding []float32 `json:"embedding"`
}

// QueryResult is a retrieved document with its similarity score.
type QueryResult struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// ChatResponse is the generated answer with the documents that backed it.
type ChatResponse struct {
	Answer  string        `json:"answer"`
	Sources []QueryResult `json:"sources"`
}
