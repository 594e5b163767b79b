// Package service implements the issue-driven workflows that change the
// book list: proposing a book and recording a review.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/readingroom/bookclub/internal/domain"
	domainerrors "github.com/readingroom/bookclub/internal/errors"
	"github.com/readingroom/bookclub/internal/format"
	"github.com/readingroom/bookclub/internal/genre"
	"github.com/readingroom/bookclub/internal/issue"
	"github.com/readingroom/bookclub/internal/media/covers"
	"github.com/readingroom/bookclub/internal/metadata/openlibrary"
	"github.com/readingroom/bookclub/internal/store"
)

// Issue form placeholders left in place when the proposer skipped a field.
const (
	placeholderDate     = "YYYY-MM-DD"
	placeholderProposer = "namehere"
	placeholderGuests   = "namehere, namehere, namehere"
)

var nonISBN = regexp.MustCompile(`[^0-9X]`)

// MetadataSearcher finds works on OpenLibrary.
type MetadataSearcher interface {
	Search(ctx context.Context, query string) (*openlibrary.SearchResponse, error)
	SearchURL(query string) string
	CoverURL(coverID int) string
}

// CoverFetcher stores a cover image under an id.
type CoverFetcher interface {
	Download(ctx context.Context, id, url string) (*covers.Cover, error)
}

// AddBookRequest is the content of a "propose a book" issue.
type AddBookRequest struct {
	ISBN       string
	Title      string // issue title, searched when the ISBN is unusable
	ReviewDate string
	Proposer   string
	Guests     string // comma separated
}

// AddBookResult reports what AddBook did. It is returned even when AddBook
// fails so the outcome can be posted back to the issue.
type AddBookResult struct {
	Query        string
	SearchURL    string
	ReviewDate   string
	Proposer     string
	Participants []string
	Book         *domain.Book // nil when no entry was created
	Notes        *issue.Notes
}

// BookService adds proposed books to the list.
type BookService struct {
	store    *store.Store
	metadata MetadataSearcher
	covers   CoverFetcher
	logger   *slog.Logger
}

// NewBookService creates a book service. coverFetcher may be nil, in which
// case only the remote cover URL is recorded.
func NewBookService(store *store.Store, metadata MetadataSearcher, coverFetcher CoverFetcher, logger *slog.Logger) *BookService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BookService{
		store:    store,
		metadata: metadata,
		covers:   coverFetcher,
		logger:   logger,
	}
}

// AddBook looks the proposal up on OpenLibrary and appends a new record with
// an empty rating and review slot per participant.
func (s *BookService) AddBook(ctx context.Context, req AddBookRequest) (*AddBookResult, error) {
	notes := issue.NewNotes(s.logger)
	res := &AddBookResult{
		ReviewDate: strings.TrimSpace(req.ReviewDate),
		Notes:      notes,
	}

	query := nonISBN.ReplaceAllString(req.ISBN, "")
	if len(query) != 10 && len(query) != 13 {
		query = strings.TrimSpace(req.Title)
		notes.Warn("No valid ISBN detected, trying issue title: `%s`", query)
	}
	res.Query = query
	if query == "" {
		return res, domainerrors.Validation("no ISBN or title to search for")
	}
	res.SearchURL = s.metadata.SearchURL(query)

	if res.ReviewDate == placeholderDate {
		notes.Warn("Review date is still placeholder (`%s`).", placeholderDate)
	} else if res.ReviewDate != "" {
		if _, err := time.Parse(time.DateOnly, res.ReviewDate); err != nil {
			notes.Warn("Review date `%s` is not in YYYY-MM-DD format.", res.ReviewDate)
		}
	}

	proposer := strings.TrimSpace(req.Proposer)
	if proposer == placeholderProposer {
		notes.Warn("Proposer is still placeholder (`%s`).", placeholderProposer)
	}
	res.Proposer = titleCase(proposer)

	guests := strings.TrimSpace(req.Guests)
	if guests == placeholderGuests {
		notes.Warn("Guests are still placeholder, not adding guests.")
		guests = ""
	}

	club, err := s.store.LoadClub()
	if err != nil {
		return res, err
	}
	res.Participants = participants(club.PermanentMembers, guests)
	if len(res.Participants) == 0 {
		notes.Warn("No participants specified.")
	}

	err = s.store.UpdateBooks(func(books []domain.Book) ([]domain.Book, error) {
		for _, b := range books {
			if b.Query == query {
				notes.Warn("The query `%s` was already queried, skipping.", query)
				return nil, domainerrors.AlreadyExistsf("query %q was already added", query)
			}
		}

		doc, err := s.lookup(ctx, query, notes)
		if err != nil {
			return nil, err
		}

		for _, b := range books {
			if b.Key() == doc.Key {
				notes.Warn("A work with key `%s` (%s) already exists, skipping.", doc.Key, b.Title())
				return nil, domainerrors.AlreadyExistsf("work %s (%s) already exists", doc.Key, b.Title())
			}
		}

		book := domain.Book{
			Query:      query,
			ReviewDate: domain.ReviewDate(res.ReviewDate),
			Proposer:   res.Proposer,
			Meta:       s.buildMeta(ctx, doc, notes),
		}
		for _, name := range res.Participants {
			book.Ratings.Set(name, domain.Score{})
			book.Reviews.Set(name, nil)
		}

		res.Book = &book
		return append(books, book), nil
	})
	if err != nil {
		res.Book = nil
		return res, err
	}

	s.logger.Info("book added",
		"query", query,
		"key", res.Book.Key(),
		"title", res.Book.Title(),
		"participants", len(res.Participants),
	)
	return res, nil
}

// lookup returns the best match for query: the work with the most editions.
func (s *BookService) lookup(ctx context.Context, query string, notes *issue.Notes) (*openlibrary.Doc, error) {
	resp, err := s.metadata.Search(ctx, query)
	if err != nil {
		notes.Warn("OpenLibrary search for `%s` failed: %v", query, err)
		return nil, domainerrors.Upstreamf(err, "search OpenLibrary")
	}
	notes.Notice("Querying: %s (actual query URL: %s)", query, resp.URL)

	if resp.NumFound == 0 || len(resp.Docs) == 0 {
		notes.Warn("No results found on OpenLibrary for query `%s`.", query)
		return nil, domainerrors.NotFoundf("no OpenLibrary results for %q", query)
	}
	if resp.NumFound > 1 {
		notes.Warn("Result is ambiguous, %d matches found. Selecting match with most editions.", resp.NumFound)
	}

	doc := &resp.Docs[0]
	for _, field := range doc.Missing() {
		notes.Notice("The field `%s` yielded no data", field)
	}
	if doc.Key == "" {
		return nil, domainerrors.Upstreamf(nil, "OpenLibrary match for %q has no work key", query)
	}
	return doc, nil
}

func (s *BookService) buildMeta(ctx context.Context, doc *openlibrary.Doc, notes *issue.Notes) domain.Meta {
	meta := domain.Meta{
		Key:              doc.Key,
		Type:             doc.Type,
		Title:            doc.Title,
		Authors:          format.JoinAnd(doc.AuthorNames, true),
		FirstPublishYear: optionalInt(doc, "first_publish_year", doc.FirstPublishYear),
		FirstEdition:     doc.FirstEdition,
		PagesMedian:      optionalInt(doc, "number_of_pages_median", doc.PagesMedian),
		Description:      doc.Description.Markdown(),
		Subjects:         genre.Filter(doc.Subjects),
		EditionCount:     optionalInt(doc, "edition_count", doc.EditionCount),
		WikidataIDs:      uniqueSorted(doc.WikidataIDs),
		Places:           doc.Places,
		Times:            doc.Times,
	}
	if len(doc.FirstSentence) > 0 {
		meta.FirstSentence = doc.FirstSentence[0]
	}

	if doc.CoverID <= 0 {
		notes.Notice("The query yielded no cover image")
		return meta
	}

	meta.CoverURL = s.metadata.CoverURL(doc.CoverID)
	if s.covers == nil {
		return meta
	}
	cover, err := s.covers.Download(ctx, strconv.Itoa(doc.CoverID), meta.CoverURL)
	if err != nil {
		notes.Warn("Cover download failed, linking the remote image instead: %v", err)
		return meta
	}
	meta.CoverPath = cover.PublicPath
	meta.CoverBlurHash = cover.BlurHash
	return meta
}

// Summary renders the markdown comment for the issue.
func (r *AddBookResult) Summary() string {
	sum := issue.NewSummary()
	if r.SearchURL != "" {
		sum.Line("**Query:** %s (%s)\n\n", r.Query, r.SearchURL)
	} else {
		sum.Line("**Query:** %s\n\n", r.Query)
	}

	if r.Book == nil {
		sum.Line("❌ **No book entry created**\n")
		return sum.Notes(r.Notes).String()
	}

	sum.Line("✅ **Book entry created**\n")
	sum.Heading(2, "Metadata")
	sum.Heading(3, "Fetched Data")
	m := r.Book.Meta
	sum.Field("key", m.Key).
		Field("type", m.Type).
		Field("title", m.Title).
		Field("authors", m.Authors).
		Field("first_publish_year", optionalString(m.FirstPublishYear)).
		Field("first_edition", m.FirstEdition).
		Field("number_of_pages_median", optionalString(m.PagesMedian)).
		Field("first_sentence", m.FirstSentence).
		Field("description", m.Description).
		Field("subjects", strings.Join(m.Subjects, ", ")).
		Field("edition_count", optionalString(m.EditionCount)).
		Field("id_wikidata", strings.Join(m.WikidataIDs, ", ")).
		Field("place", strings.Join(m.Places, ", ")).
		Field("time", strings.Join(m.Times, ", ")).
		Field("cover_path", m.CoverPath).
		Field("cover_url", m.CoverURL)

	sum.Heading(3, "Review Data")
	sum.Field("Review date", r.ReviewDate).
		Field("Proposed by", r.Proposer).
		Field("Participants", strings.Join(r.Participants, ", "))
	return sum.Notes(r.Notes).String()
}

// participants returns the permanent members followed by the guests, title
// cased and without repeats.
func participants(members []string, guests string) []string {
	var out []string
	add := func(name string) {
		name = titleCase(strings.TrimSpace(name))
		if name != "" && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	for _, m := range members {
		add(m)
	}
	for g := range strings.SplitSeq(guests, ",") {
		add(g)
	}
	return out
}

func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

func optionalInt(doc *openlibrary.Doc, field string, v int) domain.OptionalInt {
	if !doc.Has(field) {
		return domain.OptionalInt{}
	}
	return domain.Int(v)
}

func optionalString(o domain.OptionalInt) string {
	if !o.Valid {
		return ""
	}
	return fmt.Sprint(o.Value)
}

func uniqueSorted(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
