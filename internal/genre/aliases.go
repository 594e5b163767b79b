package genre

// CanonicalAliases maps subject slugs that OpenLibrary uses interchangeably
// onto the slug of a genre in DefaultGenres.
var CanonicalAliases = map[string]string{
	"detective-and-mystery-stories": "mystery-and-detective-stories",
	"mystery-fiction":               "mystery-and-detective-stories",
	"sci-fi":                        "science-fiction",
	"fiction-science-fiction":       "science-fiction",
	"fantasy-fiction":               "fantasy",
	"fiction-fantasy":               "fantasy",
	"love-stories":                  "romance",
	"romance-fiction":               "romance",
	"thrillers":                     "thriller",
	"suspense-fiction":              "thriller",
	"humorous-stories":              "humor",
	"short-stories-single-author":   "short-stories",
	"juvenile-fiction":              "children-s",
	"children-s-fiction":            "children-s",
	"young-adult-fiction":           "young-adult",
	"biography-autobiography":       "biography",
	"self-help-techniques":          "self-help",
	"cookery":                       "cooking",
	"computer-programming":          "programming",
	"historical-fiction-general":    "historical-fiction",
}
