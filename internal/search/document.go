// Package search keeps an in-memory Bleve index over the club's book list
// for the preview server and the search command.
package search

import (
	"github.com/readingroom/bookclub/internal/domain"
	"github.com/readingroom/bookclub/internal/genre"
)

// Document is the indexed form of a book.
type Document struct {
	Key           string
	Title         string
	Authors       string
	Description   string
	FirstSentence string
	Subjects      []string // display names
	SubjectSlugs  []string
	Proposer      string
	Year          int
}

// ToMap converts the document to the field names used by the mapping.
// Empty optional fields are left out.
func (d *Document) ToMap() map[string]any {
	m := map[string]any{
		"key":   d.Key,
		"title": d.Title,
	}
	if d.Authors != "" {
		m["authors"] = d.Authors
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.FirstSentence != "" {
		m["first_sentence"] = d.FirstSentence
	}
	if len(d.Subjects) > 0 {
		m["subjects"] = d.Subjects
		m["subject_slugs"] = d.SubjectSlugs
	}
	if d.Proposer != "" {
		m["proposer"] = d.Proposer
	}
	if d.Year > 0 {
		m["year"] = d.Year
	}
	return m
}

// BookToDocument converts a book record.
func BookToDocument(b *domain.Book) *Document {
	doc := &Document{
		Key:           b.Key(),
		Title:         b.Title(),
		Authors:       b.Meta.Authors,
		Description:   b.Meta.Description,
		FirstSentence: b.Meta.FirstSentence,
		Subjects:      b.Meta.Subjects,
		Proposer:      b.Proposer,
	}
	for _, s := range b.Meta.Subjects {
		doc.SubjectSlugs = append(doc.SubjectSlugs, genre.Slugify(s))
	}
	if b.Meta.FirstPublishYear.Valid {
		doc.Year = b.Meta.FirstPublishYear.Value
	}
	return doc
}
