// Package score defines the scored-attribute vector and the letter/integer
// grade mapping used by evaluation reports.
package score

import (
	"fmt"
	"strings"
	"unicode"
)

// Score is an ordinal grade. 0 means the attribute was not observed.
type Score int

// Grade bounds.
const (
	NotObserved Score = 0
	Min         Score = 1
	Max         Score = 7
)

// AttributeCount is the width of a report's score vector.
const AttributeCount = 14

// notAvailable is rendered for vectors that cannot be formatted.
const notAvailable = "N/A"

// Attributes names each position of the score vector, in order.
var Attributes = [AttributeCount]string{
	"Performance",
	"Proficiency",
	"Courage",
	"Effectiveness Under Stress",
	"Initiative",
	"Leading Subordinates",
	"Developing Subordinates",
	"Setting the Example",
	"Ensuring Well-being",
	"Communication Skills",
	"PME",
	"Decision Making",
	"Judgment",
	"Reports",
}

// Section is a contiguous run of attributes, [Start, End).
type Section struct {
	Name  string
	Start int
	End   int
}

// Sections groups attribute positions the way evaluation forms print them.
var Sections = []Section{
	{Name: "Mission Accomplishment", Start: 0, End: 2},
	{Name: "Character", Start: 2, End: 5},
	{Name: "Leadership", Start: 5, End: 10},
	{Name: "Intellect", Start: 10, End: 13},
	{Name: "Fulfillment of Evaluation Responsibilities", Start: 13, End: 14},
}

// letters is indexed by Score; H stands for "not observed".
var letters = [...]rune{'H', 'A', 'B', 'C', 'D', 'E', 'F', 'G'}

// Valid reports whether s is within [NotObserved, Max].
func (s Score) Valid() bool {
	return s >= NotObserved && s <= Max
}

// Observed reports whether s counts towards an average.
func (s Score) Observed() bool {
	return s > NotObserved && s <= Max
}

// Letter returns the letter grade for s, or "?" when s is out of range.
func Letter(s Score) string {
	if !s.Valid() {
		return "?"
	}
	return string(letters[s])
}

// String implements fmt.Stringer.
func (s Score) String() string {
	return Letter(s)
}

// ParseLetter converts a letter grade (case-insensitive) to its Score.
func ParseLetter(r rune) (Score, error) {
	up := unicode.ToUpper(r)
	for i, l := range letters {
		if l == up {
			return Score(i), nil
		}
	}
	return NotObserved, fmt.Errorf("%w: %q", ErrInvalidLetter, r)
}

// FormatLetters renders a full vector as grouped letters, e.g. "EE EEE EEEEE EEE E".
func FormatLetters(scores []Score) string {
	if len(scores) != AttributeCount {
		return notAvailable
	}
	groups := make([]string, 0, len(Sections))
	for _, sec := range Sections {
		var b strings.Builder
		for _, s := range scores[sec.Start:sec.End] {
			b.WriteString(Letter(s))
		}
		groups = append(groups, b.String())
	}
	return strings.Join(groups, " ")
}

// ParseLetters is the inverse of FormatLetters. Whitespace is ignored.
func ParseLetters(s string) ([]Score, error) {
	out := make([]Score, 0, AttributeCount)
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		v, err := ParseLetter(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) != AttributeCount {
		return nil, fmt.Errorf("%w: got %d grades, want %d", ErrInvalidLetter, len(out), AttributeCount)
	}
	return out, nil
}
