package genre

import "sync"

var (
	indexOnce sync.Once
	bySlug    map[string]string
)

// index maps the slug of every genre in DefaultGenres, and every alias, to the
// genre's display name.
func index() map[string]string {
	indexOnce.Do(func() {
		bySlug = make(map[string]string)
		var walk func(seeds []Seed)
		walk = func(seeds []Seed) {
			for _, s := range seeds {
				if _, ok := bySlug[Slugify(s.Name)]; !ok {
					bySlug[Slugify(s.Name)] = s.Name
				}
				walk(s.Children)
			}
		}
		walk(DefaultGenres)
		for alias, target := range CanonicalAliases {
			if name, ok := bySlug[target]; ok {
				bySlug[alias] = name
			}
		}
	})
	return bySlug
}

// Lookup returns the genre a subject stands for.
func Lookup(subject string) (string, bool) {
	name, ok := index()[Slugify(subject)]
	return name, ok
}

// Filter keeps the subjects that name a genre, rewritten to the genre's
// display name. Duplicates are dropped; the first occurrence decides order.
func Filter(subjects []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range subjects {
		name, ok := Lookup(s)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Names returns every genre name once, in taxonomy order.
func Names() []string {
	var out []string
	seen := make(map[string]bool)
	var walk func(seeds []Seed)
	walk = func(seeds []Seed) {
		for _, s := range seeds {
			if !seen[s.Name] {
				seen[s.Name] = true
				out = append(out, s.Name)
			}
			walk(s.Children)
		}
	}
	walk(DefaultGenres)
	return out
}
