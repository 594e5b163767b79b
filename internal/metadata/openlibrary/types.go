package openlibrary

import (
	"bytes"
	"encoding/json"
	"errors"
)

// SearchResponse matches search.json.
type SearchResponse struct {
	NumFound int   `json:"numFound"`
	Docs     []Doc `json:"docs"`
	// URL is the request URL, kept for reporting.
	URL string `json:"-"`
}

// Doc is one work in a search response.
type Doc struct {
	Key              string   `json:"key"`
	Type             string   `json:"type"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	FirstEdition     string   `json:"first_edition"`
	PagesMedian      int      `json:"number_of_pages_median"`
	FirstSentence    []string `json:"first_sentence"`
	Description      Text     `json:"description"`
	Subjects         []string `json:"subject"`
	EditionCount     int      `json:"edition_count"`
	WikidataIDs      []string `json:"id_wikidata"`
	Places           []string `json:"place"`
	Times            []string `json:"time"`
	CoverID          int      `json:"cover_i"`

	present map[string]bool
}

// UnmarshalJSON decodes the doc and records which fields were returned.
func (d *Doc) UnmarshalJSON(data []byte) error {
	type plain Doc
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*d = Doc(p)
	d.present = make(map[string]bool, len(raw))
	for k := range raw {
		d.present[k] = true
	}
	return nil
}

// Has reports whether the response carried field.
func (d *Doc) Has(field string) bool {
	return d.present[field]
}

// Missing returns the requested fields the response did not carry.
func (d *Doc) Missing() []string {
	var out []string
	for _, f := range SearchFields {
		if !d.present[f] {
			out = append(out, f)
		}
	}
	return out
}

// Text is a description that OpenLibrary returns either as a plain string or
// as {"type": "/type/text", "value": "..."}.
type Text string

// UnmarshalJSON accepts both shapes.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}

	var typed struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &typed); err == nil {
		*t = Text(typed.Value)
		return nil
	}

	return errors.New("unable to parse the description")
}
