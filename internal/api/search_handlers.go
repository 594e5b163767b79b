package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/readingroom/bookclub/internal/errors"
	"github.com/readingroom/bookclub/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search books",
		Description: "Full-text search over titles, authors, subjects and descriptions",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// SearchInput holds the query parameters.
type SearchInput struct {
	Query     string   `query:"q" doc:"Search text; empty matches everything"`
	Subjects  []string `query:"subject" doc:"Subject slugs to filter by"`
	MinYear   int      `query:"min_year" minimum:"0"`
	MaxYear   int      `query:"max_year" minimum:"0"`
	Limit     int      `query:"limit" minimum:"0" maximum:"100" default:"20"`
	Offset    int      `query:"offset" minimum:"0"`
	Highlight bool     `query:"highlight"`
}

// SearchOutput wraps the search result.
type SearchOutput struct {
	Body *search.Result
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if s.index == nil {
		return nil, domainerrors.ErrInternal.WithDetails("search index not configured")
	}

	result, err := s.index.SearchWith(ctx, search.Params{
		Query:     input.Query,
		Subjects:  input.Subjects,
		MinYear:   input.MinYear,
		MaxYear:   input.MaxYear,
		Limit:     input.Limit,
		Offset:    input.Offset,
		Highlight: input.Highlight,
	})
	if err != nil {
		s.logger.Error("search failed", "query", input.Query, "error", err)
		return nil, err
	}
	return &SearchOutput{Body: result}, nil
}
