// Package genre keeps book subjects to a fixed list of genres.
package genre

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify returns the lowercase ASCII slug of s: accents are dropped and runs
// of other characters become single hyphens.
// "Children's" -> "children-s", "Science & Mathematics" -> "science-mathematics".
func Slugify(s string) string {
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return unicode.ToLower(r)
	}, norm.NFKD.String(s))

	return strings.Trim(nonAlphanumeric.ReplaceAllString(s, "-"), "-")
}
