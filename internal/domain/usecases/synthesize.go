// Package usecases contains application business rules.
// Usecases orchestrate entities and depend on port interfaces - no framework
// code, no external dependencies.
package usecases

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shelfrag/bookrag/internal/domain/entities"
)

// topRatedLimit caps the top-rated pass at the N best-rated books.
const topRatedLimit = 50

// Synthesize converts normalized records into the four retrievable document
// classes: one Book document per record, one AuthorAggregate per distinct
// author over the exploded record/author rows, one DecadeAggregate per
// distinct decade, and one TopRated document per top-rated record.
// It is a pure function of its input; pass order is fixed so index builds
// are deterministic.
func Synthesize(records []entities.Record) []entities.Document {
	docs := make([]entities.Document, 0, len(records))
	docs = append(docs, bookDocuments(records)...)
	docs = append(docs, authorDocuments(records)...)
	docs = append(docs, decadeDocuments(records)...)
	docs = append(docs, topRatedDocuments(records)...)
	return docs
}

func bookDocuments(records []entities.Record) []entities.Document {
	docs := make([]entities.Document, 0, len(records))
	for _, r := range records {
		docs = append(docs, entities.Document{
			ID:      r.ID,
			Type:    entities.DocBook,
			Content: bookSentence(r),
			Book: &entities.BookMeta{
				Title:         r.Title,
				Authors:       r.Authors,
				Year:          r.Year,
				Decade:        r.Decade,
				AverageRating: r.AverageRating,
				RatingsCount:  r.RatingsCount,
				ImageURL:      r.ImageURL,
			},
		})
	}
	return docs
}

// authorDocuments explodes each record into one row per author, so a book
// with N authors contributes N rows, then counts rows per trimmed author.
// Output order is count descending, author name ascending on ties.
func authorDocuments(records []entities.Record) []entities.Document {
	counts := make(map[string]int)
	for _, r := range records {
		for _, a := range r.Authors {
			counts[strings.TrimSpace(a)]++
		}
	}

	authors := make([]string, 0, len(counts))
	for a := range counts {
		authors = append(authors, a)
	}
	sort.Slice(authors, func(i, j int) bool {
		if counts[authors[i]] != counts[authors[j]] {
			return counts[authors[i]] > counts[authors[j]]
		}
		return authors[i] < authors[j]
	})

	docs := make([]entities.Document, 0, len(authors))
	for _, a := range authors {
		docs = append(docs, entities.Document{
			ID:      "Author-" + a,
			Type:    entities.DocAuthorAggregate,
			Content: fmt.Sprintf("Author %s has %d books in the dataset.", a, counts[a]),
			Author:  &entities.AuthorMeta{Author: a, Count: counts[a]},
		})
	}
	return docs
}

// decadeDocuments groups the original, non-exploded records by decade.
// Records without a year carry no decade and are skipped. Output order is
// decade ascending.
func decadeDocuments(records []entities.Record) []entities.Document {
	counts := make(map[int]int)
	for _, r := range records {
		if r.Decade != nil {
			counts[*r.Decade]++
		}
	}

	decades := make([]int, 0, len(counts))
	for d := range counts {
		decades = append(decades, d)
	}
	sort.Ints(decades)

	docs := make([]entities.Document, 0, len(decades))
	for _, d := range decades {
		docs = append(docs, entities.Document{
			ID:      "Decade-" + strconv.Itoa(d),
			Type:    entities.DocDecadeAggregate,
			Content: fmt.Sprintf("In the %ds, %d books were published.", d, counts[d]),
			Decade:  &entities.DecadeMeta{Decade: d, Count: counts[d]},
		})
	}
	return docs
}

// topRatedDocuments selects the best-rated records: records without a rating
// are excluded, the rest are stably sorted by rating descending (input order
// breaks ties) and the first topRatedLimit are kept.
func topRatedDocuments(records []entities.Record) []entities.Document {
	rated := make([]entities.Record, 0, len(records))
	for _, r := range records {
		if r.AverageRating != nil {
			rated = append(rated, r)
		}
	}
	sort.SliceStable(rated, func(i, j int) bool {
		return *rated[i].AverageRating > *rated[j].AverageRating
	})
	if len(rated) > topRatedLimit {
		rated = rated[:topRatedLimit]
	}

	docs := make([]entities.Document, 0, len(rated))
	for _, r := range rated {
		docs = append(docs, entities.Document{
			ID:      "TopRated-" + r.ID,
			Type:    entities.DocTopRated,
			Content: topRatedSentence(r),
			TopRated: &entities.TopRatedMeta{
				Title:         r.Title,
				Authors:       r.Authors,
				AverageRating: *r.AverageRating,
				RatingsCount:  r.RatingsCount,
			},
		})
	}
	return docs
}

// bookSentence renders the per-book summary. Clauses whose fields are
// missing are omitted entirely.
func bookSentence(r entities.Record) string {
	var sb strings.Builder
	sb.WriteString("Book: ")
	sb.WriteString(r.Title)
	sb.WriteString(" by ")
	sb.WriteString(strings.Join(r.Authors, ", "))
	sb.WriteString(".")
	if r.Year != nil {
		fmt.Fprintf(&sb, " Published in %d.", *r.Year)
	}
	if clause := ratingClause(r.AverageRating, r.RatingsCount); clause != "" {
		sb.WriteString(clause)
	}
	return sb.String()
}

func topRatedSentence(r entities.Record) string {
	var sb strings.Builder
	sb.WriteString("Highly rated book: ")
	sb.WriteString(r.Title)
	sb.WriteString(" by ")
	sb.WriteString(strings.Join(r.Authors, ", "))
	sb.WriteString(".")
	sb.WriteString(ratingClause(r.AverageRating, r.RatingsCount))
	return sb.String()
}

func ratingClause(rating *float64, count *int64) string {
	if rating == nil {
		return ""
	}
	clause := " Average rating " + strconv.FormatFloat(*rating, 'f', -1, 64)
	if count != nil {
		clause += fmt.Sprintf(" from %d ratings", *count)
	}
	return clause + "."
}
