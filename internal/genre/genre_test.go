package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Science Fiction", "science-fiction"},
		{"Children's", "children-s"},
		{"Science & Mathematics", "science-mathematics"},
		{"  Café Culture ", "cafe-culture"},
		{"Self-help", "self-help"},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestFilter(t *testing.T) {
	subjects := []string{
		"Courtship -- Fiction",
		"Fiction",
		"Romance",
		"England -- Social life and customs -- 19th century",
		"Love stories",
		"fiction",
		"Detective and mystery stories",
		"Social Life and Customs",
	}

	got := Filter(subjects)

	assert.Equal(t, []string{
		"Fiction",
		"Romance",
		"Mystery and detective stories",
		"Social Life and Customs",
	}, got)
}

func TestFilter_Empty(t *testing.T) {
	assert.Empty(t, Filter(nil))
	assert.Empty(t, Filter([]string{"Nothing relevant"}))
}

func TestLookup(t *testing.T) {
	name, ok := Lookup("science fiction")
	assert.True(t, ok)
	assert.Equal(t, "Science Fiction", name)

	name, ok = Lookup("sci-fi")
	assert.True(t, ok)
	assert.Equal(t, "Science Fiction", name)

	_, ok = Lookup("Courtship")
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Equal(t, "Arts", names[0])
	assert.Contains(t, names, "Computer Science")

	seen := map[string]bool{}
	for _, n := range names {
		assert.False(t, seen[n], "duplicate %s", n)
		seen[n] = true
	}
}
