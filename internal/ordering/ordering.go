// Package ordering sorts the club's books for display.
package ordering

import (
	"slices"
	"time"

	"github.com/readingroom/bookclub/internal/domain"
)

// Order returns the books sorted by review date, newest first. Books without
// a parseable review date go last, keeping their relative order. The input
// slice is not modified.
func Order(books []domain.Book) []domain.Book {
	type keyed struct {
		book domain.Book
		at   time.Time
		ok   bool
	}

	items := make([]keyed, len(books))
	for i, b := range books {
		at, ok := b.ReviewDate.Time()
		items[i] = keyed{book: b, at: at, ok: ok}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		switch {
		case a.ok && b.ok:
			return b.at.Compare(a.at)
		case a.ok:
			return -1
		case b.ok:
			return 1
		default:
			return 0
		}
	})

	out := make([]domain.Book, len(items))
	for i, it := range items {
		out[i] = it.book
	}
	return out
}
