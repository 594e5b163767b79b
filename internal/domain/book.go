// Package domain contains the book-club entities read from club.json and
// books.json.
package domain

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
)

// Book is one entry of books.json: the club's bookkeeping around an
// OpenLibrary work.
type Book struct {
	Query      string     `json:"query,omitempty"`
	ReviewDate ReviewDate `json:"review_date"`
	Proposer   string     `json:"proposer,omitempty"`
	Ratings    Ratings    `json:"ratings"`
	Reviews    Reviews    `json:"reviews"`
	Meta       Meta       `json:"meta" validate:"required"`
}

// Meta holds the OpenLibrary work metadata captured when the book was added.
type Meta struct {
	Key              string      `json:"key" validate:"required"`
	Type             string      `json:"type,omitempty"`
	Title            string      `json:"title" validate:"required"`
	Authors          string      `json:"authors"`
	FirstPublishYear OptionalInt `json:"first_publish_year"`
	FirstEdition     string      `json:"first_edition,omitempty"`
	PagesMedian      OptionalInt `json:"number_of_pages_median"`
	FirstSentence    string      `json:"first_sentence,omitempty"`
	Description      string      `json:"description,omitempty"` // markdown
	Subjects         StringList  `json:"subjects"`
	EditionCount     OptionalInt `json:"edition_count"`
	WikidataIDs      StringList  `json:"id_wikidata"`
	Places           StringList  `json:"place"`
	Times            StringList  `json:"time"`
	CoverPath        string      `json:"cover_path,omitempty"`
	CoverURL         string      `json:"cover_url,omitempty"`
	CoverBlurHash    string      `json:"cover_blurhash,omitempty"`
}

// Key returns the book's stable identifier, its OpenLibrary work key.
func (b *Book) Key() string { return b.Meta.Key }

// Title returns the book title.
func (b *Book) Title() string { return b.Meta.Title }

// WorkID returns the work key without the "/works/" prefix.
func (b *Book) WorkID() string {
	return strings.TrimPrefix(b.Meta.Key, "/works/")
}

// OptionalInt is an integer that may be missing. The data files written by
// earlier tooling use "" for missing numbers, so both "" and null decode as
// unset. Values that are not numbers at all, such as "c. 1813", also decode
// as unset and are logged; one odd field must not keep the page from
// rendering.
type OptionalInt struct {
	Value int
	Valid bool
}

// Int returns a set OptionalInt.
func Int(v int) OptionalInt {
	return OptionalInt{Value: v, Valid: true}
}

// UnmarshalJSON accepts a number, a numeric string, "", or null. Anything
// else leaves the value unset.
func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	*o = OptionalInt{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			slog.Warn("ignoring non-numeric value", "value", s)
			return nil
		}
		*o = Int(n)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		slog.Warn("ignoring non-numeric value", "value", string(data))
		return nil
	}
	if v, err := n.Int64(); err == nil {
		*o = Int(int(v))
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		slog.Warn("ignoring non-numeric value", "value", n.String())
		return nil
	}
	*o = Int(int(f))
	return nil
}

// MarshalJSON writes null for unset values.
func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(o.Value)), nil
}

// StringList is a list of strings that also accepts a single string in the
// data file. Empty strings decode to an empty list.
type StringList []string

// UnmarshalJSON accepts an array of strings, a string, or null. Array items
// that are not strings are skipped, and any other value decodes as an empty
// list; both are logged.
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s = strings.TrimSpace(s); s == "" {
			*l = nil
		} else {
			*l = StringList{s}
		}
		return nil
	case len(data) > 0 && data[0] == '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		items := make(StringList, 0, len(raw))
		for _, r := range raw {
			var s string
			if err := json.Unmarshal(r, &s); err != nil || bytes.Equal(r, []byte("null")) {
				slog.Warn("skipping non-string list item", "item", string(r))
				continue
			}
			items = append(items, s)
		}
		*l = items
		return nil
	default:
		slog.Warn("ignoring list value that is not a list", "value", string(data))
		*l = nil
		return nil
	}
}
