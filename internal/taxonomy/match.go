package taxonomy

import "strings"

// CategoryMatch lists the keywords of one category found in a text
type CategoryMatch struct {
	Category string
	Keywords []string
}

// Match returns, for every category in declaration order, the keywords
// occurring as substrings of lowerText. lowerText must already be
// lower-cased. Keywords are reported with their declared spelling.
func (t *Taxonomy) Match(lowerText string) []CategoryMatch {
	out := make([]CategoryMatch, len(t.categories))
	for i, c := range t.categories {
		out[i].Category = c.name
		for _, kw := range c.keywords {
			if strings.Contains(lowerText, kw.lower) {
				out[i].Keywords = append(out[i].Keywords, kw.declared)
			}
		}
	}
	return out
}

// CountPositive counts the positive words present in lowerText. A word
// repeated in the text counts once.
func (t *Taxonomy) CountPositive(lowerText string) int {
	return countPresent(lowerText, t.positive)
}

// CountNegative counts the negative words present in lowerText. A word
// repeated in the text counts once.
func (t *Taxonomy) CountNegative(lowerText string) int {
	return countPresent(lowerText, t.negative)
}

func countPresent(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}
