package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/readingroom/bookclub/internal/domain"
	domainerrors "github.com/readingroom/bookclub/internal/errors"
	"github.com/readingroom/bookclub/internal/format"
	"github.com/readingroom/bookclub/internal/issue"
	"github.com/readingroom/bookclub/internal/store"
	"github.com/readingroom/bookclub/internal/validation"
)

// AddReviewRequest is the content of a "review a book" issue.
type AddReviewRequest struct {
	BookID   string // "/works/OL…W" or the bare "OL…W"
	Reviewer string
	Grade    string
	Review   string
}

// AddReviewResult reports what AddReview did. Like AddBookResult it is
// returned on failure too.
type AddReviewResult struct {
	Request AddReviewRequest
	Book    *domain.Book // the updated record, nil on failure
	Notes   *issue.Notes
}

type reviewInput struct {
	BookID   string `json:"book_id" validate:"required,workkey"`
	Reviewer string `json:"reviewer" validate:"required"`
	Grade    int    `json:"grade" validate:"gte=1,lte=15"`
}

// ReviewService records grades and reviews.
type ReviewService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewReviewService creates a review service.
func NewReviewService(store *store.Store, logger *slog.Logger) *ReviewService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ReviewService{
		store:     store,
		validator: validation.New(),
		logger:    logger,
	}
}

// AddReview stores the reviewer's grade and review on the book. The
// reviewer must be one of the book's participants.
func (s *ReviewService) AddReview(ctx context.Context, req AddReviewRequest) (*AddReviewResult, error) {
	notes := issue.NewNotes(s.logger)
	res := &AddReviewResult{Request: req, Notes: notes}

	in := reviewInput{
		BookID:   WorkKey(req.BookID),
		Reviewer: strings.TrimSpace(req.Reviewer),
	}

	grade, err := strconv.Atoi(strings.TrimSpace(req.Grade))
	if err != nil {
		notes.Warn("Grade '%s' is not an integer between 1 and 15.", req.Grade)
		return res, domainerrors.Validationf("grade %q is not an integer between 1 and 15", req.Grade)
	}
	in.Grade = grade

	if err := s.validator.Validate(in); err != nil {
		s.warnInvalid(notes, req, err)
		return res, err
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	err = s.store.UpdateBooks(func(books []domain.Book) ([]domain.Book, error) {
		i := indexOf(books, in.BookID)
		if i < 0 {
			notes.Warn("Book id '%s' not found.", in.BookID)
			return nil, domainerrors.NotFoundf("book %s not found", in.BookID)
		}
		book := &books[i]

		names := participantsOf(book)
		name, ok := matchParticipant(names, in.Reviewer)
		if !ok {
			notes.Warn("Reviewer '%s' was no participant (%s).", in.Reviewer, format.JoinAnd(names, true))
			return nil, domainerrors.ValidationWithDetails(
				"reviewer was no participant",
				map[string]string{"reviewer": in.Reviewer},
			)
		}

		book.Ratings.Set(name, domain.ScoreOf(in.Grade))
		var text *string
		if review := strings.TrimSpace(req.Review); review != "" {
			text = &review
		}
		book.Reviews.Set(name, text)

		updated := *book
		res.Book = &updated
		return books, nil
	})
	if err != nil {
		res.Book = nil
		return res, err
	}

	s.logger.Info("review added",
		"key", in.BookID,
		"reviewer", in.Reviewer,
		"grade", in.Grade,
	)
	return res, nil
}

func (s *ReviewService) warnInvalid(notes *issue.Notes, req AddReviewRequest, err error) {
	var derr *domainerrors.Error
	if !domainerrors.As(err, &derr) {
		return
	}
	fields, _ := derr.Details.(map[string]string)
	if _, ok := fields["book_id"]; ok {
		notes.Warn("Book id '%s' is not an OpenLibrary work id.", req.BookID)
	}
	if _, ok := fields["reviewer"]; ok {
		notes.Warn("No reviewer given.")
	}
	if _, ok := fields["grade"]; ok {
		notes.Warn("Grade '%s' is not an integer between 1 and 15.", req.Grade)
	}
}

// Summary renders the markdown comment for the issue.
func (r *AddReviewResult) Summary() string {
	sum := issue.NewSummary()
	sum.Line("book id: %s", r.Request.BookID).
		Line("reviewer: %s", r.Request.Reviewer).
		Line("grade: %s", r.Request.Grade).
		Line("review: %s", r.Request.Review)
	if r.Book != nil {
		sum.Line("\n✅ **Review stored for %s**", r.Book.Title())
	} else {
		sum.Line("\n❌ **No review stored**")
	}
	return sum.Notes(r.Notes).String()
}

// WorkKey normalizes a book id to a full work key. Bare ids such as
// "OL45804W" gain the "/works/" prefix.
func WorkKey(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.HasPrefix(id, "/") {
		return id
	}
	if rest, ok := strings.CutPrefix(id, "works/"); ok {
		return "/works/" + rest
	}
	return "/works/" + id
}

func indexOf(books []domain.Book, key string) int {
	for i := range books {
		if books[i].Key() == key {
			return i
		}
	}
	return -1
}

// participantsOf lists the people with a review slot, then anyone who only
// has a rating slot.
func participantsOf(b *domain.Book) []string {
	names := b.Reviews.Keys()
	for _, k := range b.Ratings.Keys() {
		if !b.Reviews.Has(k) {
			names = append(names, k)
		}
	}
	return names
}

// matchParticipant finds name among names, falling back to a case-insensitive
// match so "arne" finds "Arne".
func matchParticipant(names []string, name string) (string, bool) {
	for _, n := range names {
		if n == name {
			return n, true
		}
	}
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}
