package search

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/readingroom/bookclub/internal/genre"
)

// DefaultLimit is used when a search asks for no limit.
const DefaultLimit = 20

// Params configures a search.
type Params struct {
	Query string

	// Filters
	Subjects []string // genre names or slugs, any of them matches
	MinYear  int
	MaxYear  int

	Limit  int
	Offset int

	Highlight bool
}

// Result is a page of matches.
type Result struct {
	Query    string       `json:"query"`
	Total    uint64       `json:"total"`
	TookMs   int64        `json:"took_ms"`
	Hits     []Hit        `json:"hits"`
	Subjects []FacetCount `json:"subjects,omitempty"`
}

// Hit is one matching book.
type Hit struct {
	Key        string            `json:"key"`
	Title      string            `json:"title"`
	Authors    string            `json:"authors,omitempty"`
	Score      float64           `json:"score"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// FacetCount is a subject and how many matches carry it.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search runs a plain text search, best matches first.
func (s *Index) Search(ctx context.Context, q string, limit int) (*Result, error) {
	return s.SearchWith(ctx, Params{Query: q, Limit: limit})
}

// SearchWith runs a search with filters.
func (s *Index) SearchWith(ctx context.Context, params Params) (*Result, error) {
	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}

	req := bleve.NewSearchRequestOptions(buildQuery(params), params.Limit, params.Offset, false)
	req.SortBy([]string{"-_score"})
	req.Fields = []string{"key", "title", "authors"}
	req.AddFacet("subjects", bleve.NewFacetRequest("subject_slugs", 20))
	if params.Highlight {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("title")
		req.Highlight.AddField("authors")
	}

	s.mu.RLock()
	res, err := s.index.SearchInContext(ctx, req)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}
	for _, h := range res.Hits {
		hit := Hit{Key: h.ID, Score: h.Score}
		if t, ok := h.Fields["title"].(string); ok {
			hit.Title = t
		}
		if a, ok := h.Fields["authors"].(string); ok {
			hit.Authors = a
		}
		if len(h.Fragments) > 0 {
			hit.Highlights = make(map[string]string, len(h.Fragments))
			for field, fragments := range h.Fragments {
				if len(fragments) > 0 {
					hit.Highlights[field] = fragments[0]
				}
			}
		}
		out.Hits = append(out.Hits, hit)
	}

	if facet, ok := res.Facets["subjects"]; ok && facet.Terms != nil {
		for _, term := range facet.Terms.Terms() {
			out.Subjects = append(out.Subjects, FacetCount{Value: term.Term, Count: term.Count})
		}
	}
	return out, nil
}

func buildQuery(params Params) query.Query {
	var queries []query.Query

	if q := strings.TrimSpace(params.Query); q != "" {
		title := bleve.NewMatchQuery(q)
		title.SetField("title")
		title.SetBoost(3.0)

		authors := bleve.NewMatchQuery(q)
		authors.SetField("authors")
		authors.SetBoost(2.0)

		subjects := bleve.NewMatchQuery(q)
		subjects.SetField("subjects")
		subjects.SetBoost(1.5)

		description := bleve.NewMatchQuery(q)
		description.SetField("description")

		sentence := bleve.NewMatchQuery(q)
		sentence.SetField("first_sentence")

		// Typo tolerance on single-word titles.
		fuzzy := bleve.NewFuzzyQuery(strings.ToLower(q))
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("title")
		fuzzy.SetBoost(0.8)

		text := []query.Query{title, authors, subjects, description, sentence, fuzzy}
		if len(q) >= 2 {
			prefix := bleve.NewPrefixQuery(strings.ToLower(q))
			prefix.SetField("title")
			prefix.SetBoost(0.5)
			text = append(text, prefix)
		}
		queries = append(queries, bleve.NewDisjunctionQuery(text...))
	}

	if len(params.Subjects) > 0 {
		subjects := make([]query.Query, len(params.Subjects))
		for i, s := range params.Subjects {
			tq := bleve.NewTermQuery(genre.Slugify(s))
			tq.SetField("subject_slugs")
			subjects[i] = tq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(subjects...))
	}

	if params.MinYear > 0 || params.MaxYear > 0 {
		minYear := float64(params.MinYear)
		maxYear := float64(params.MaxYear)
		if params.MaxYear == 0 {
			maxYear = math.MaxFloat64
		}
		inclusive := true
		years := bleve.NewNumericRangeInclusiveQuery(&minYear, &maxYear, &inclusive, &inclusive)
		years.SetField("year")
		queries = append(queries, years)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}
