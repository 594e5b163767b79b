package render

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/readingroom/bookclub/internal/domain"
	"github.com/readingroom/bookclub/internal/format"
	"github.com/readingroom/bookclub/internal/grade"
	"github.com/readingroom/bookclub/internal/loader"
	"github.com/readingroom/bookclub/internal/ordering"
	"github.com/readingroom/bookclub/internal/popup"
	"github.com/readingroom/bookclub/internal/ratings"
)

const (
	openLibraryURL = "https://openlibrary.org"
	wikidataURL    = "https://www.wikidata.org/wiki/"
)

// Page is the template model for index.html.
type Page struct {
	Title string
	Books []BookView
	// Popup is the sanitized ratings popup; empty when the club has none.
	Popup template.HTML
	Hover HoverScript
}

// HoverScript feeds the page script the popup geometry and the state names
// of popup.Next, so the browser follows the same transitions.
type HoverScript struct {
	Spacing     float64
	HideDelayMs int64
	Hidden      string
	Visible     string
	PendingHide string
}

func hoverScript() HoverScript {
	return HoverScript{
		Spacing:     popup.Spacing,
		HideDelayMs: popup.DefaultHideDelay.Milliseconds(),
		Hidden:      popup.Hidden.String(),
		Visible:     popup.Visible.String(),
		PendingHide: popup.PendingHide.String(),
	}
}

// BookView is one book section.
type BookView struct {
	Key           string
	Title         string
	Authors       string
	Cover         *Cover
	MetaLines     []template.HTML
	FirstSentence string
	Description   template.HTML
	State         domain.ReviewState
	Announcement  string
	Ratings       *RatingsView
	Reviews       []ReviewView
}

// Cover is the cover image margin note.
type Cover struct {
	Src      string
	Alt      string
	BlurHash string
}

// RatingsView is the ratings block shown once a book has been reviewed and
// every rater has scored it.
type RatingsView struct {
	Lines    []template.HTML
	Sentence string
	Average  float64
	Score    int
	Grade    string
}

// ReviewView is one written review.
type ReviewView struct {
	Rater string
	Text  string
}

// BuildPage turns a snapshot into the page model: books are ordered by review
// date and each section carries only the blocks its data supports.
func (r *Renderer) BuildPage(snap *loader.Snapshot, now time.Time) (*Page, error) {
	page := &Page{Title: snap.Club.Name, Hover: hoverScript()}

	if len(snap.Popup) > 0 {
		fragment, err := SanitizeFragment(snap.Popup)
		if err != nil {
			return nil, err
		}
		page.Popup = fragment
	}

	for _, b := range ordering.Order(snap.Books) {
		page.Books = append(page.Books, r.buildBook(&b, snap.Club, now))
	}
	return page, nil
}

func (r *Renderer) buildBook(b *domain.Book, club domain.Club, now time.Time) BookView {
	r.logger.Debug("building book section", "title", b.Title())

	view := BookView{
		Key:           b.Key(),
		Title:         b.Title(),
		Authors:       b.Meta.Authors,
		MetaLines:     metaLines(b),
		FirstSentence: b.Meta.FirstSentence,
		Description:   r.markdown(b.Meta.Description),
		State:         b.ReviewDate.State(now),
	}

	if src := coverSrc(b); src != "" {
		view.Cover = &Cover{Src: src, Alt: b.Title(), BlurHash: b.Meta.CoverBlurHash}
	}

	date := b.ReviewDate.Display()
	switch view.State {
	case domain.ReviewScheduled:
		view.Announcement = b.Title() + " will be reviewed on " + date + "."
	case domain.ReviewReviewed:
		if ratings.IsDisplayable(b.Ratings, b.Title(), r.logger) {
			view.Ratings = ratingsView(b, club, date)
		}
		view.Reviews = reviews(b)
	}
	return view
}

func coverSrc(b *domain.Book) string {
	if b.Meta.CoverPath != "" {
		return b.Meta.CoverPath
	}
	return b.Meta.CoverURL
}

func metaLines(b *domain.Book) []template.HTML {
	m := b.Meta

	var key template.HTML
	if m.Key != "" {
		key = template.HTML(`<a href="` + template.HTMLEscapeString(openLibraryURL+m.Key) + `"><code>` +
			template.HTMLEscapeString(b.WorkID()) + `</code></a>`)
	}

	wikidata := make([]template.HTML, 0, len(m.WikidataIDs))
	for _, id := range m.WikidataIDs {
		id = template.HTMLEscapeString(id)
		wikidata = append(wikidata, template.HTML(`<a href="`+wikidataURL+id+`"><code>`+id+`</code></a>`))
	}

	lines := []template.HTML{
		format.MetaLine("Authors", m.Authors),
		format.MetaLine("First published", m.FirstPublishYear),
		format.MetaLine("Edition count", m.EditionCount),
		format.MetaLine("Pages", m.PagesMedian),
		format.MetaLine("Subjects", m.Subjects),
		format.MetaLine("Places", m.Places),
		format.MetaLine("Time", m.Times),
		format.MetaLine("OpenLibrary key", key),
		format.MetaLine("Wikidata IDs", wikidata),
	}

	out := lines[:0]
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func ratingsView(b *domain.Book, club domain.Club, date string) *RatingsView {
	avg := ratings.Average(b.Ratings)
	score := ratings.RoundedAverage(b.Ratings)

	lines := make([]template.HTML, 0, len(b.Ratings))
	for _, e := range b.Ratings {
		lines = append(lines, format.MetaLine(e.Key, e.Value))
	}

	return &RatingsView{
		Lines: lines,
		Sentence: "On " + date + " " + b.Title() + " was rated by the " + club.Name +
			" with an average of " + strconv.FormatFloat(avg, 'f', -1, 64) +
			" out of " + strconv.Itoa(grade.MaxScore) + " points.",
		Average: avg,
		Score:   score,
		Grade:   grade.ToGrade(score),
	}
}

func reviews(b *domain.Book) []ReviewView {
	var out []ReviewView
	for _, e := range b.Reviews {
		if e.Value == nil || strings.TrimSpace(*e.Value) == "" {
			continue
		}
		out = append(out, ReviewView{Rater: e.Key, Text: strings.TrimSpace(*e.Value)})
	}
	return out
}

func (r *Renderer) markdown(src string) template.HTML {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		r.logger.Warn("markdown conversion failed", "error", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}
