// Package taxonomy holds the keyword categories, high-value accounts and
// sentiment vocabularies used to score posts. A Taxonomy is immutable once
// built and safe to share between goroutines.
package taxonomy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

// CategoryNegative is the category whose matches lower a post's score
const CategoryNegative = "negative"

// Category is a named keyword list
type Category struct {
	Name     string   `toml:"name" json:"name"`
	Keywords []string `toml:"keywords" json:"keywords"`
}

// Taxonomy is the scoring vocabulary. Category order is significant: it
// breaks ties when choosing a post's primary category.
type Taxonomy struct {
	categories []compiledCategory
	highValue  map[string]struct{}
	positive   []string
	negative   []string
}

type compiledCategory struct {
	name     string
	keywords []keyword
}

// keyword keeps the declared spelling for reporting and the lower-cased
// form for matching
type keyword struct {
	declared string
	lower    string
}

// New validates and compiles a taxonomy
func New(categories []Category, highValueAccounts, positiveWords, negativeWords []string) (*Taxonomy, error) {
	if len(categories) == 0 {
		return nil, errors.New("taxonomy needs at least one category")
	}

	t := &Taxonomy{
		categories: make([]compiledCategory, 0, len(categories)),
		highValue:  make(map[string]struct{}, len(highValueAccounts)),
	}

	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		name := strings.TrimSpace(c.Name)
		switch {
		case name == "":
			return nil, errors.New("taxonomy category with empty name")
		case name == types.CategoryGeneral:
			return nil, fmt.Errorf("category name %q is reserved", types.CategoryGeneral)
		case seen[name]:
			return nil, fmt.Errorf("duplicate category %q", name)
		}
		seen[name] = true

		cc := compiledCategory{name: name}
		for _, kw := range c.Keywords {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				return nil, fmt.Errorf("category %q has an empty keyword", name)
			}
			cc.keywords = append(cc.keywords, keyword{declared: kw, lower: strings.ToLower(kw)})
		}
		if len(cc.keywords) == 0 {
			return nil, fmt.Errorf("category %q has no keywords", name)
		}
		t.categories = append(t.categories, cc)
	}

	for _, h := range highValueAccounts {
		h = normalizeHandle(h)
		if h != "" {
			t.highValue[h] = struct{}{}
		}
	}

	t.positive = lowerAll(positiveWords)
	t.negative = lowerAll(negativeWords)

	return t, nil
}

// MustNew is New for static data known to be valid
func MustNew(categories []Category, highValueAccounts, positiveWords, negativeWords []string) *Taxonomy {
	t, err := New(categories, highValueAccounts, positiveWords, negativeWords)
	if err != nil {
		panic(err)
	}
	return t
}

// CategoryNames returns the category names in declaration order
func (t *Taxonomy) CategoryNames() []string {
	names := make([]string, len(t.categories))
	for i, c := range t.categories {
		names[i] = c.name
	}
	return names
}

// Categories returns a copy of the categories in declaration order
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		kws := make([]string, len(c.keywords))
		for j, kw := range c.keywords {
			kws[j] = kw.declared
		}
		out[i] = Category{Name: c.name, Keywords: kws}
	}
	return out
}

// IsHighValue reports whether handle is on the high-value account list.
// Matching ignores case and a leading "@".
func (t *Taxonomy) IsHighValue(handle string) bool {
	_, ok := t.highValue[normalizeHandle(handle)]
	return ok
}

// HighValueAccounts returns the allow-list (lower-cased, unordered)
func (t *Taxonomy) HighValueAccounts() []string {
	out := make([]string, 0, len(t.highValue))
	for h := range t.highValue {
		out = append(out, h)
	}
	return out
}

// PositiveWords returns the lower-cased positive vocabulary
func (t *Taxonomy) PositiveWords() []string {
	return append([]string(nil), t.positive...)
}

// NegativeWords returns the lower-cased negative vocabulary
func (t *Taxonomy) NegativeWords() []string {
	return append([]string(nil), t.negative...)
}

func normalizeHandle(h string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(h), "@"))
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
