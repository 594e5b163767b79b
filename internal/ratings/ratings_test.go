package ratings_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readingroom/bookclub/internal/domain"
	"github.com/readingroom/bookclub/internal/grade"
	"github.com/readingroom/bookclub/internal/ratings"
)

func parse(t *testing.T, raw string) domain.Ratings {
	t.Helper()
	var r domain.Ratings
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	return r
}

func TestIsDisplayable(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   bool
		reason string
	}{
		{name: "complete", raw: `{"A": 5, "B": 5, "C": 5}`, want: true},
		{name: "single rater", raw: `{"A": 15}`, want: true},
		{name: "empty", raw: `{}`, reason: ratings.ReasonEmpty},
		{name: "absent", raw: `null`, reason: ratings.ReasonEmpty},
		{name: "null score", raw: `{"A": 5, "B": null}`, reason: ratings.ReasonIncomplete},
		{name: "zero counts as unrated", raw: `{"A": 5, "B": 0}`, reason: ratings.ReasonIncomplete},
		{name: "empty string", raw: `{"A": ""}`, reason: ratings.ReasonIncomplete},
		{name: "fraction", raw: `{"A": 5, "B": 7.5}`, reason: ratings.ReasonNonInteger},
		{name: "numeric string", raw: `{"A": "12"}`, reason: ratings.ReasonNonInteger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(slog.NewJSONHandler(&buf, nil))

			got := ratings.IsDisplayable(parse(t, tt.raw), "Emma", log)
			assert.Equal(t, tt.want, got)

			if tt.want {
				assert.Empty(t, buf.String())
				return
			}
			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "WARN", entry["level"])
			assert.Equal(t, tt.reason, entry["msg"])
			assert.Equal(t, "Emma", entry["title"])
		})
	}
}

func TestIsDisplayable_NilLogger(t *testing.T) {
	assert.False(t, ratings.IsDisplayable(nil, "Emma", nil))
}

func TestCheck_NamesRater(t *testing.T) {
	reason, rater := ratings.Check(parse(t, `{"A": 3, "B": null, "C": 2.5}`))
	assert.Equal(t, ratings.ReasonIncomplete, reason)
	assert.Equal(t, "B", rater)

	reason, rater = ratings.Check(parse(t, `{"A": 3, "C": 2.5, "D": null}`))
	assert.Equal(t, ratings.ReasonNonInteger, reason)
	assert.Equal(t, "C", rater)
}

func TestAverage(t *testing.T) {
	assert.InDelta(t, 5.0, ratings.Average(parse(t, `{"A": 5, "B": 5, "C": 5}`)), 1e-9)
	assert.InDelta(t, 10.7, ratings.Average(parse(t, `{"A": 12, "B": 10, "C": 10}`)), 1e-9)
	assert.InDelta(t, 0.0, ratings.Average(nil), 1e-9)
}

func TestRoundedAverage(t *testing.T) {
	assert.Equal(t, 5, ratings.RoundedAverage(parse(t, `{"A": 5, "B": 5, "C": 5}`)))
	assert.Equal(t, 11, ratings.RoundedAverage(parse(t, `{"A": 12, "B": 10, "C": 10}`)))
	assert.Equal(t, 8, ratings.RoundedAverage(parse(t, `{"A": 7, "B": 8}`)))
	assert.Equal(t, 0, ratings.RoundedAverage(nil))
}

func TestGradeForCompleteRatings(t *testing.T) {
	r := parse(t, `{"A": 5, "B": 5, "C": 5}`)
	require.True(t, ratings.IsDisplayable(r, "Emma", nil))
	// Follows the grade table, not the "4⁻" example; see DESIGN.md.
	assert.Equal(t, "4", grade.ToGrade(ratings.RoundedAverage(r)))
}
