// Package ratings decides whether a book's ratings are complete enough to show
// and computes the averages shown next to them.
package ratings

import (
	"log/slog"
	"math"

	"github.com/readingroom/bookclub/internal/domain"
)

// Reasons a set of ratings is withheld.
const (
	ReasonEmpty      = "no ratings found"
	ReasonIncomplete = "not everyone has rated yet"
	ReasonNonInteger = "ratings contain non-integer values"
)

// Check returns "" when every rater has an integer score. Otherwise it returns
// why the ratings are withheld and the rater that failed, checking raters in
// file order.
func Check(r domain.Ratings) (reason, rater string) {
	if len(r) == 0 {
		return ReasonEmpty, ""
	}
	for _, e := range r {
		if !e.Value.IsSet() {
			return ReasonIncomplete, e.Key
		}
		if _, ok := e.Value.Int(); !ok {
			return ReasonNonInteger, e.Key
		}
	}
	return "", ""
}

// IsDisplayable reports whether the ratings may be rendered. A partial set is
// never shown; the reason is logged as a warning so operators can see why a
// ratings block is missing. log may be nil.
func IsDisplayable(r domain.Ratings, title string, log *slog.Logger) bool {
	reason, rater := Check(r)
	if reason == "" {
		return true
	}
	if log != nil {
		attrs := []any{"title", title}
		if rater != "" {
			attrs = append(attrs, "rater", rater)
		}
		log.Warn(reason, attrs...)
	}
	return false
}

// Average returns the mean of the integer scores rounded to one decimal.
// Entries that are not integers are ignored.
func Average(r domain.Ratings) float64 {
	mean, ok := mean(r)
	if !ok {
		return 0
	}
	return roundHalfUp(mean*10) / 10
}

// RoundedAverage returns the mean rounded to the nearest whole point, the
// value the grade is looked up with.
func RoundedAverage(r domain.Ratings) int {
	mean, ok := mean(r)
	if !ok {
		return 0
	}
	return int(roundHalfUp(mean))
}

func mean(r domain.Ratings) (float64, bool) {
	var sum, n int
	for _, e := range r {
		if v, ok := e.Value.Int(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
