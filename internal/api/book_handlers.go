package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readingroom/bookclub/internal/domain"
	domainerrors "github.com/readingroom/bookclub/internal/errors"
	"github.com/readingroom/bookclub/internal/grade"
	"github.com/readingroom/bookclub/internal/ordering"
	"github.com/readingroom/bookclub/internal/ratings"
	"github.com/readingroom/bookclub/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns the books in page order with their review state and grade",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book by OpenLibrary work id",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "listGrades",
		Method:      http.MethodGet,
		Path:        "/api/v1/grades",
		Summary:     "Grade scale",
		Description: "Returns the point-to-grade scale from best to worst",
		Tags:        []string{"Books"},
	}, s.handleListGrades)
}

// === DTOs ===

// RatingEntry is one rater's score as stored.
type RatingEntry struct {
	Rater string `json:"rater"`
	Score string `json:"score" doc:"Raw score; empty when unrated"`
}

// BookResponse is a book as the page sees it.
type BookResponse struct {
	Key              string        `json:"key" doc:"OpenLibrary work key"`
	Title            string        `json:"title"`
	Authors          string        `json:"authors"`
	FirstPublishYear *int          `json:"first_publish_year,omitempty"`
	Proposer         string        `json:"proposer,omitempty"`
	ReviewDate       string        `json:"review_date,omitempty"`
	ReviewState      string        `json:"review_state" enum:"unset,scheduled,reviewed"`
	Subjects         []string      `json:"subjects"`
	CoverPath        string        `json:"cover_path,omitempty"`
	CoverURL         string        `json:"cover_url,omitempty"`
	Displayable      bool          `json:"displayable" doc:"Whether the ratings are complete enough to show"`
	WithheldReason   string        `json:"withheld_reason,omitempty"`
	Average          *float64      `json:"average,omitempty"`
	Grade            string        `json:"grade,omitempty"`
	Ratings          []RatingEntry `json:"ratings"`
}

// ListBooksOutput wraps the ordered book list.
type ListBooksOutput struct {
	Body struct {
		Books []BookResponse `json:"books"`
		Total int            `json:"total"`
	}
}

// GetBookInput selects a book.
type GetBookInput struct {
	ID string `path:"id" doc:"Work id, e.g. OL45804W"`
}

// BookOutput wraps a single book.
type BookOutput struct {
	Body BookResponse
}

// GradesOutput wraps the grade scale.
type GradesOutput struct {
	Body struct {
		Steps []grade.Step `json:"steps"`
	}
}

// === Handlers ===

func (s *Server) handleListBooks(_ context.Context, _ *struct{}) (*ListBooksOutput, error) {
	snap, err := s.preview.Snapshot()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ordered := ordering.Order(snap.Books)
	out := &ListBooksOutput{}
	out.Body.Books = make([]BookResponse, 0, len(ordered))
	for i := range ordered {
		out.Body.Books = append(out.Body.Books, toBookResponse(&ordered[i], now))
	}
	out.Body.Total = len(out.Body.Books)
	return out, nil
}

func (s *Server) handleGetBook(_ context.Context, input *GetBookInput) (*BookOutput, error) {
	snap, err := s.preview.Snapshot()
	if err != nil {
		return nil, err
	}

	key := service.WorkKey(input.ID)
	for i := range snap.Books {
		if snap.Books[i].Key() == key {
			return &BookOutput{Body: toBookResponse(&snap.Books[i], time.Now())}, nil
		}
	}
	return nil, domainerrors.NotFoundf("book %s not found", key)
}

func (s *Server) handleListGrades(_ context.Context, _ *struct{}) (*GradesOutput, error) {
	out := &GradesOutput{}
	out.Body.Steps = grade.Scale()
	return out, nil
}

func toBookResponse(b *domain.Book, now time.Time) BookResponse {
	resp := BookResponse{
		Key:         b.Key(),
		Title:       b.Title(),
		Authors:     b.Meta.Authors,
		Proposer:    b.Proposer,
		ReviewDate:  string(b.ReviewDate),
		ReviewState: b.ReviewDate.State(now).String(),
		Subjects:    []string(b.Meta.Subjects),
		CoverPath:   b.Meta.CoverPath,
		CoverURL:    b.Meta.CoverURL,
		Ratings:     make([]RatingEntry, 0, len(b.Ratings)),
	}
	if resp.Subjects == nil {
		resp.Subjects = []string{}
	}
	if b.Meta.FirstPublishYear.Valid {
		year := b.Meta.FirstPublishYear.Value
		resp.FirstPublishYear = &year
	}
	for _, e := range b.Ratings {
		resp.Ratings = append(resp.Ratings, RatingEntry{Rater: e.Key, Score: e.Value.String()})
	}

	reason, _ := ratings.Check(b.Ratings)
	resp.Displayable = reason == ""
	resp.WithheldReason = reason
	if resp.Displayable {
		avg := ratings.Average(b.Ratings)
		resp.Average = &avg
		resp.Grade = grade.ToGrade(ratings.RoundedAverage(b.Ratings))
	}
	return resp
}
