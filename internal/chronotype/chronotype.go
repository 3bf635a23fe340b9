// Package chronotype defines the four energy-pattern archetypes, the quiz
// that assigns one, and the scoring that picks a winner.
package chronotype

// Category is one of the four fixed archetypes.
type Category string

const (
	Lion    Category = "lion"
	Bear    Category = "bear"
	Wolf    Category = "wolf"
	Dolphin Category = "dolphin"
)

// Canonical is the tie-break order for scoring. Earlier categories win ties.
var Canonical = []Category{Lion, Bear, Wolf, Dolphin}

// Default is the winner when no answers are given.
const Default = Bear

// Valid reports whether c is one of the four archetypes.
func (c Category) Valid() bool {
	switch c {
	case Lion, Bear, Wolf, Dolphin:
		return true
	}
	return false
}

// Score tallies answers and returns the category with the strictly greatest
// count. Ties go to the earliest category in Canonical order; an empty or
// all-unknown answer set returns Default.
func Score(answers []Category) Category {
	counts := map[Category]int{}
	for _, a := range answers {
		if a.Valid() {
			counts[a]++
		}
	}

	winner := Default
	best := 0
	for _, c := range Canonical {
		if counts[c] > best {
			best = counts[c]
			winner = c
		}
	}
	return winner
}
