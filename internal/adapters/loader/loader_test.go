package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shelfrag/bookrag/internal/domain/entities"
)

func writeCatalog(t *testing.T, lines string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "books.jsonl")
	if err := os.WriteFile(path, []byte(lines), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestJSONLLoader_Load(t *testing.T) {
	path := writeCatalog(t, `{"id":1,"title":"A","authors":["X"],"publication_year":1990,"average_rating":4.5,"ratings_count":10,"image_url":"http://img/a"}
{"id":2,"title":"B","authors":["X","Y"],"publication_year":1990,"average_rating":3.0,"ratings_count":5,"image_url":"http://img/b"}
`)

	records, err := NewJSONLLoader(0).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.ID != "1" || first.Title != "A" {
		t.Errorf("unexpected first record: %+v", first)
	}
	if first.Year == nil || *first.Year != 1990 {
		t.Error("year not coerced")
	}
	if first.Decade == nil || *first.Decade != 1990 {
		t.Error("decade not derived")
	}
	if first.AverageRating == nil || *first.AverageRating != 4.5 {
		t.Error("rating not coerced")
	}
	if first.RatingsCount == nil || *first.RatingsCount != 10 {
		t.Error("count not coerced")
	}
	if len(records[1].Authors) != 2 {
		t.Error("authors not preserved as a sequence")
	}
}

func TestJSONLLoader_PreservesFileOrder(t *testing.T) {
	path := writeCatalog(t, `{"id":"c","title":"C"}
{"id":"a","title":"A"}
{"id":"b","title":"B"}
`)

	records, err := NewJSONLLoader(0).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	want := []string{"c", "a", "b"}
	for i, id := range want {
		if records[i].ID != id {
			t.Errorf("position %d: expected id %s, got %s", i, id, records[i].ID)
		}
	}
}

func TestJSONLLoader_ChunkedMatchesUnchunked(t *testing.T) {
	path := writeCatalog(t, `{"id":1,"title":"A"}
{"id":2,"title":"B"}
{"id":3,"title":"C"}
{"id":4,"title":"D"}
{"id":5,"title":"E"}
`)

	plain, err := NewJSONLLoader(0).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("unchunked load failed: %v", err)
	}
	chunked, err := NewJSONLLoader(2).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("chunked load failed: %v", err)
	}

	if len(plain) != len(chunked) {
		t.Fatalf("length mismatch: %d vs %d", len(plain), len(chunked))
	}
	for i := range plain {
		if plain[i].ID != chunked[i].ID {
			t.Errorf("position %d: %s vs %s", i, plain[i].ID, chunked[i].ID)
		}
	}
}

func TestJSONLLoader_CoercionDegradesToMissing(t *testing.T) {
	path := writeCatalog(t, `{"id":1,"title":"A","authors":["X"],"publication_year":"not a year","average_rating":null,"ratings_count":"many"}
{"id":2,"title":"B","authors":["Y"],"publication_year":"1985","average_rating":"4.2","ratings_count":7}
`)

	records, err := NewJSONLLoader(0).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("coercion failures must not fail the load: %v", err)
	}

	if records[0].Year != nil || records[0].AverageRating != nil || records[0].RatingsCount != nil {
		t.Errorf("unparsable numerics should be nil: %+v", records[0])
	}
	if records[0].Decade != nil {
		t.Error("missing year implies missing decade")
	}

	if records[1].Year == nil || *records[1].Year != 1985 {
		t.Error("numeric string year should coerce")
	}
	if records[1].Decade == nil || *records[1].Decade != 1980 {
		t.Error("decade should derive from coerced year")
	}
	if records[1].AverageRating == nil || *records[1].AverageRating != 4.2 {
		t.Error("numeric string rating should coerce")
	}
}

func TestJSONLLoader_MissingFile(t *testing.T) {
	_, err := NewJSONLLoader(0).Load(context.Background(), "/nonexistent/books.jsonl")

	if !errors.Is(err, entities.ErrLoad) {
		t.Errorf("expected ErrLoad, got %v", err)
	}
}

func TestJSONLLoader_MalformedLine(t *testing.T) {
	path := writeCatalog(t, `{"id":1,"title":"A"}
this is not json
`)

	_, err := NewJSONLLoader(0).Load(context.Background(), path)

	if !errors.Is(err, entities.ErrLoad) {
		t.Errorf("expected ErrLoad for malformed line, got %v", err)
	}
}

func TestDecadeOf(t *testing.T) {
	cases := []struct {
		year, decade int
	}{
		{1990, 1990},
		{1999, 1990},
		{2000, 2000},
		{2007, 2000},
	}
	for _, c := range cases {
		if got := decadeOf(c.year); got != c.decade {
			t.Errorf("decadeOf(%d) = %d, expected %d", c.year, got, c.decade)
		}
	}
}
