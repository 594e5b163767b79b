package domain_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readingroom/bookclub/internal/domain"
	"github.com/readingroom/bookclub/internal/format"
)

func TestScore_IsSetAndInt(t *testing.T) {
	tests := []struct {
		literal string
		set     bool
		integer bool
		value   int
	}{
		{literal: "12", set: true, integer: true, value: 12},
		{literal: "15.0", set: true, integer: true, value: 15},
		{literal: "7.5", set: true, integer: false},
		{literal: "4294967296", set: true, integer: true, value: 4294967296},
		{literal: "1e300", set: true, integer: true, value: math.MaxInt},
		{literal: "0", set: false, integer: true, value: 0},
		{literal: "null", set: false, integer: false},
		{literal: `""`, set: false, integer: false},
		{literal: `"9"`, set: true, integer: false},
		{literal: "false", set: false, integer: false},
		{literal: "true", set: true, integer: false},
		{literal: "", set: false, integer: false},
	}

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			s := domain.RawScore(tt.literal)
			assert.Equal(t, tt.set, s.IsSet())
			v, ok := s.Int()
			assert.Equal(t, tt.integer, ok)
			if tt.integer {
				assert.Equal(t, tt.value, v)
			}
		})
	}
}

func TestScore_String(t *testing.T) {
	assert.Equal(t, "12", domain.ScoreOf(12).String())
	assert.Equal(t, "abc", domain.RawScore(`"abc"`).String())
	assert.Equal(t, "", domain.RawScore("null").String())
	assert.Equal(t, "", domain.Score{}.String())
}

func TestRatings_PreservesOrder(t *testing.T) {
	data := []byte(`{"Zoe": 12, "Arne": null, "Mia": 9}`)

	var r domain.Ratings
	require.NoError(t, json.Unmarshal(data, &r))
	assert.Equal(t, []string{"Zoe", "Arne", "Mia"}, r.Keys())

	arne, ok := r.Get("Arne")
	require.True(t, ok)
	assert.False(t, arne.IsSet())

	r.Set("Arne", domain.ScoreOf(10))
	r.Set("Lea", domain.ScoreOf(4))

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"Zoe":12,"Arne":10,"Mia":9,"Lea":4}`, string(out))
}

func TestRatings_NullAndInvalid(t *testing.T) {
	var r domain.Ratings
	require.NoError(t, json.Unmarshal([]byte(`null`), &r))
	assert.Empty(t, r)

	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &r))

	out, err := json.Marshal(domain.Ratings(nil))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}

func TestReviews_NilValues(t *testing.T) {
	var r domain.Reviews
	require.NoError(t, json.Unmarshal([]byte(`{"Arne": null, "Mia": "Loved it"}`), &r))

	arne, ok := r.Get("Arne")
	require.True(t, ok)
	assert.Nil(t, arne)

	mia, _ := r.Get("Mia")
	require.NotNil(t, mia)
	assert.Equal(t, "Loved it", *mia)
	assert.False(t, r.Has("Lea"))
}

func TestBook_DecodesLegacyRecord(t *testing.T) {
	data := []byte(`{
		"query": "9780141439518",
		"review_date": "2025-03-14",
		"proposer": "Arne",
		"ratings": {"Arne": 12, "Mia": 10},
		"reviews": {"Arne": null, "Mia": null},
		"meta": {
			"key": "/works/OL66554W",
			"title": "Pride and Prejudice",
			"authors": "Jane Austen",
			"first_publish_year": 1813,
			"number_of_pages_median": "",
			"edition_count": "3000",
			"subjects": "Fiction",
			"place": ["England"],
			"time": null,
			"id_wikidata": ["Q170583"]
		}
	}`)

	var b domain.Book
	require.NoError(t, json.Unmarshal(data, &b))

	assert.Equal(t, "/works/OL66554W", b.Key())
	assert.Equal(t, "OL66554W", b.WorkID())
	assert.Equal(t, "Pride and Prejudice", b.Title())
	assert.Equal(t, domain.Int(1813), b.Meta.FirstPublishYear)
	assert.False(t, b.Meta.PagesMedian.Valid)
	assert.Equal(t, domain.Int(3000), b.Meta.EditionCount)
	assert.Equal(t, domain.StringList{"Fiction"}, b.Meta.Subjects)
	assert.Equal(t, domain.StringList{"England"}, b.Meta.Places)
	assert.Nil(t, b.Meta.Times)
	assert.Equal(t, []string{"Arne", "Mia"}, b.Ratings.Keys())
}

func TestOptionalInt_Marshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A domain.OptionalInt `json:"a"`
		B domain.OptionalInt `json:"b"`
	}{A: domain.Int(7)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":7,"b":null}`, string(out))

}

func TestOptionalInt_UnparseableIsUnset(t *testing.T) {
	for _, literal := range []string{`"seven"`, `"c. 1813"`, `true`, `{"year": 1813}`, `[1813]`} {
		t.Run(literal, func(t *testing.T) {
			o := domain.Int(1)
			require.NoError(t, json.Unmarshal([]byte(literal), &o))
			assert.False(t, o.Valid)
		})
	}
}

func TestBook_MalformedOptionalFields(t *testing.T) {
	data := []byte(`{
		"meta": {
			"key": "/works/OL66554W",
			"title": "Pride and Prejudice",
			"authors": "Jane Austen",
			"first_publish_year": "c. 1813",
			"edition_count": 3000,
			"place": ["England", 42, null, "Hertfordshire"],
			"time": {"from": 1790},
			"id_wikidata": "Q170583"
		}
	}`)

	var b domain.Book
	require.NoError(t, json.Unmarshal(data, &b))

	assert.False(t, b.Meta.FirstPublishYear.Valid)
	assert.Empty(t, format.MetaLine("First published", b.Meta.FirstPublishYear))
	assert.Equal(t, domain.Int(3000), b.Meta.EditionCount)
	assert.Equal(t, domain.StringList{"England", "Hertfordshire"}, b.Meta.Places)
	assert.Empty(t, b.Meta.Times)
	assert.Equal(t, domain.StringList{"Q170583"}, b.Meta.WikidataIDs)
}

func TestClub_RatingPopupAlias(t *testing.T) {
	var c domain.Club
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Readers","ratingPopupRef":"popup.html"}`), &c))
	assert.Equal(t, "Readers", c.Name)
	assert.Equal(t, "popup.html", c.RatingPopupRef)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Readers","rating_popup":"a.html","ratingPopupRef":"b.html","permanent_members":["Arne"]}`), &c))
	assert.Equal(t, "a.html", c.RatingPopupRef)
	assert.Equal(t, []string{"Arne"}, c.PermanentMembers)
}

func TestReviewDate_State(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		date domain.ReviewDate
		want domain.ReviewState
	}{
		{date: "", want: domain.ReviewUnset},
		{date: "invalid", want: domain.ReviewUnset},
		{date: "YYYY-MM-DD", want: domain.ReviewUnset},
		{date: "2025-02-30", want: domain.ReviewUnset},
		{date: "2025-06-01", want: domain.ReviewReviewed},
		{date: "2024-01-01", want: domain.ReviewReviewed},
		{date: "2025-06-02", want: domain.ReviewScheduled},
		{date: "2025-06-01T18:00:00Z", want: domain.ReviewScheduled},
	}

	for _, tt := range tests {
		t.Run(string(tt.date), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.date.State(now))
		})
	}
}

func TestReviewDate_Display(t *testing.T) {
	assert.Equal(t, "Mar 14, 2025", domain.ReviewDate("2025-03-14").Display())
	assert.Equal(t, "", domain.ReviewDate("soon").Display())
	assert.Equal(t, "scheduled", domain.ReviewScheduled.String())
	assert.Equal(t, "unset", domain.ReviewUnset.String())
}
