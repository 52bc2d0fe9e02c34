package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_CategoryOrder(t *testing.T) {
	tx := Default()

	assert.Equal(t, []string{
		"revenue", "funding", "product", "partnership",
		"hiring", "market", "awards", "negative",
	}, tx.CategoryNames())
}

func TestIsHighValue(t *testing.T) {
	tx := Default()

	assert.True(t, tx.IsHighValue("techcrunch"))
	assert.True(t, tx.IsHighValue("TechCrunch"))
	assert.True(t, tx.IsHighValue("@a16z"))
	assert.False(t, tx.IsHighValue("techcrunchfan"))
	assert.False(t, tx.IsHighValue(""))
}

func TestMatch_CaseInsensitiveKeywordsKeepDeclaredSpelling(t *testing.T) {
	tx := Default()

	matches := tx.Match("our arr doubled and the new ceo starts monday")

	require.Len(t, matches, len(DefaultCategories))
	assert.Equal(t, "revenue", matches[0].Category)
	assert.Equal(t, []string{"ARR"}, matches[0].Keywords)
	assert.Equal(t, "hiring", matches[4].Category)
	assert.Equal(t, []string{"CEO"}, matches[4].Keywords)
	assert.Empty(t, matches[1].Keywords)
}

func TestSentimentCounts(t *testing.T) {
	tx := Default()

	assert.Equal(t, 2, tx.CountPositive("great milestone"))
	assert.Equal(t, 0, tx.CountNegative("great milestone"))
	assert.Equal(t, 1, tx.CountNegative("a real problem"))

	// presence, not repetition
	assert.Equal(t, 1, tx.CountPositive("great great great"))
	assert.Equal(t, 1, tx.CountNegative("problem after problem"))
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name       string
		categories []Category
	}{
		{"no categories", nil},
		{"empty name", []Category{{Name: " ", Keywords: []string{"a"}}}},
		{"reserved name", []Category{{Name: "general", Keywords: []string{"a"}}}},
		{"duplicate", []Category{{Name: "a", Keywords: []string{"x"}}, {Name: "a", Keywords: []string{"y"}}}},
		{"no keywords", []Category{{Name: "a"}}},
		{"blank keyword", []Category{{Name: "a", Keywords: []string{"x", ""}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.categories, nil, nil, nil)
			assert.Error(t, err)
		})
	}
}

func TestCategories_ReturnsCopy(t *testing.T) {
	tx := Default()

	cats := tx.Categories()
	cats[0].Keywords[0] = "mutated"

	assert.Equal(t, "revenue", tx.Categories()[0].Keywords[0])
}
