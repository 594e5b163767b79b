// Package grade maps averaged point scores onto the six-grade school scale.
//
// Scores run from 0 to 15 points. Grades 1 through 5 each cover three points
// (plus, plain, minus); 0 points is a 6.
package grade

// MaxScore is the best possible score.
const MaxScore = 15

// Step is one row of the grade scale.
type Step struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

var labels = [MaxScore + 1]string{
	0:  "6",
	1:  "5⁻",
	2:  "5",
	3:  "5⁺",
	4:  "4⁻",
	5:  "4",
	6:  "4⁺",
	7:  "3⁻",
	8:  "3",
	9:  "3⁺",
	10: "2⁻",
	11: "2",
	12: "2⁺",
	13: "1⁻",
	14: "1",
	15: "1⁺",
}

// ToGrade returns the label for score. Scores outside 0..15 are clamped.
func ToGrade(score int) string {
	return labels[max(0, min(score, MaxScore))]
}

// Lookup returns the label for score, or false when score is off the scale.
func Lookup(score int) (string, bool) {
	if score < 0 || score > MaxScore {
		return "", false
	}
	return labels[score], true
}

// Scale returns every step from best to worst.
func Scale() []Step {
	steps := make([]Step, 0, len(labels))
	for score := MaxScore; score >= 0; score-- {
		steps = append(steps, Step{Score: score, Label: labels[score]})
	}
	return steps
}
