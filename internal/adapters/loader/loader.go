// Package loader provides the catalog loading adapter.
// It reads line-delimited JSON book records and normalizes them into
// entities.Record values with coerced, nullable numeric fields.
package loader

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shelfrag/bookrag/internal/domain/entities"
)

// JSONLLoader loads book records from a JSONL file.
// A positive chunk size bounds how many records are decoded per batch before
// being appended to the result; order is always the file order.
type JSONLLoader struct {
	chunkSize int
}

// NewJSONLLoader creates a catalog loader. chunkSize <= 0 disables batching.
func NewJSONLLoader(chunkSize int) *JSONLLoader {
	return &JSONLLoader{chunkSize: chunkSize}
}

// rawRecord defers field decoding so a wrong-typed field degrades to missing
// instead of failing the whole line.
type rawRecord struct {
	ID              json.RawMessage `json:"id"`
	Title           json.RawMessage `json:"title"`
	Authors         json.RawMessage `json:"authors"`
	PublicationYear json.RawMessage `json:"publication_year"`
	AverageRating   json.RawMessage `json:"average_rating"`
	RatingsCount    json.RawMessage `json:"ratings_count"`
	ImageURL        json.RawMessage `json:"image_url"`
}

// Load reads all records from path. It fails with entities.ErrLoad when the
// file is absent or a line is not a JSON object; per-field coercion failures
// degrade that field to nil.
func (l *JSONLLoader) Load(ctx context.Context, path string) ([]entities.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", entities.ErrLoad, path, err)
	}
	defer file.Close()

	var records []entities.Record
	var batch []entities.Record

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var raw rawRecord
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return nil, fmt.Errorf("%w: line %d of %s is not a JSON record: %v", entities.ErrLoad, lineNo, path, err)
		}

		rec := normalize(raw)
		if l.chunkSize > 0 {
			batch = append(batch, rec)
			if len(batch) >= l.chunkSize {
				records = append(records, batch...)
				batch = batch[:0]
			}
		} else {
			records = append(records, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", entities.ErrLoad, path, err)
	}
	records = append(records, batch...)

	return records, nil
}

// normalize coerces one raw record into a Record, deriving the decade.
func normalize(raw rawRecord) entities.Record {
	rec := entities.Record{
		ID:            coerceText(raw.ID),
		Title:         coerceText(raw.Title),
		Authors:       coerceTextSlice(raw.Authors),
		Year:          coerceInt(raw.PublicationYear),
		AverageRating: coerceFloat(raw.AverageRating),
		ImageURL:      coerceText(raw.ImageURL),
	}
	if n := coerceInt(raw.RatingsCount); n != nil {
		c := int64(*n)
		rec.RatingsCount = &c
	}
	if rec.Year != nil {
		d := decadeOf(*rec.Year)
		rec.Decade = &d
	}
	return rec
}

func decadeOf(year int) int {
	d := (year / 10) * 10
	if year < 0 && year%10 != 0 {
		d -= 10
	}
	return d
}

// coerceText renders a JSON value as text: strings verbatim, numbers in
// their shortest form, anything else empty.
func coerceText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// coerceTextSlice accepts an array of strings, tolerating a bare string as a
// one-element sequence.
func coerceTextSlice(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, coerceText(item))
		}
		return out
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []string{s}
	}
	return nil
}

// coerceFloat parses a JSON number or numeric string, nil on anything else.
func coerceFloat(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return &f
		}
	}
	return nil
}

// coerceInt truncates a coerced float, matching numeric-to-integer casting
// of year and count columns.
func coerceInt(raw json.RawMessage) *int {
	f := coerceFloat(raw)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}
