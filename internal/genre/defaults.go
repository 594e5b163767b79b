package genre

// Seed is a node of the genre taxonomy.
type Seed struct {
	Name     string
	Children []Seed
}

func leaves(names ...string) []Seed {
	out := make([]Seed, len(names))
	for i, n := range names {
		out[i] = Seed{Name: n}
	}
	return out
}

// DefaultGenres mirrors the subject groups OpenLibrary lists on its subjects
// page. Both group names and their children count as genres.
var DefaultGenres = []Seed{
	{Name: "Arts", Children: leaves(
		"Architecture", "Art Instruction", "Art History", "Dance", "Design",
		"Fashion", "Film", "Graphic Design", "Music", "Music Theory",
		"Painting", "Photography",
	)},
	{Name: "Animals", Children: leaves("Bears", "Cats", "Kittens", "Dogs", "Puppies")},
	{Name: "Fiction", Children: leaves(
		"Fantasy", "Historical Fiction", "Horror", "Humor", "Literature",
		"Magic", "Mystery and detective stories", "Plays", "Poetry", "Romance",
		"Science Fiction", "Short Stories", "Thriller", "Young Adult",
	)},
	{Name: "Science & Mathematics", Children: leaves(
		"Biology", "Chemistry", "Mathematics", "Physics", "Programming",
	)},
	{Name: "Business & Finance", Children: leaves(
		"Management", "Entrepreneurship", "Business Economics",
		"Business Success", "Finance",
	)},
	{Name: "Children's", Children: leaves(
		"Kids Books", "Stories in Rhyme", "Baby Books", "Bedtime Books", "Picture Books",
	)},
	{Name: "History", Children: leaves(
		"Ancient Civilization", "Archaeology", "Anthropology", "World War II",
		"Social Life and Customs",
	)},
	{Name: "Health & Wellness", Children: leaves(
		"Cooking", "Cookbooks", "Mental Health", "Exercise", "Nutrition", "Self-help",
	)},
	{Name: "Biography", Children: leaves(
		"Autobiographies", "History", "Politics and Government", "World War II",
		"Women", "Kings and Rulers", "Composers", "Artists",
	)},
	{Name: "Social Sciences", Children: leaves(
		"Anthropology", "Religion", "Political Science", "Psychology",
	)},
	{Name: "Places", Children: leaves("Brazil", "India", "Indonesia", "United States")},
	{Name: "Textbooks", Children: leaves(
		"History", "Mathematics", "Geography", "Psychology", "Algebra",
		"Education", "Business & Economics", "Science", "Chemistry",
		"English Language", "Physics", "Computer Science",
	)},
}
