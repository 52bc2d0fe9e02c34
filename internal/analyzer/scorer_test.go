package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibeckermayer/portfoliowatch/internal/taxonomy"
	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

func newTestScorer() *Scorer {
	return NewScorer(taxonomy.Default())
}

func TestScore_FundingAnnouncementFromHighValueAccount(t *testing.T) {
	post := types.Post{
		ID:              "1",
		AuthorHandle:    "techcrunch",
		AuthorVerified:  true,
		AuthorFollowers: 0,
		Content:         "Acme raised $10M funding round, revenue growing fast",
		Likes:           100,
		Retweets:        10,
		Replies:         5,
	}

	a := newTestScorer().Score(post, "Acme")

	// 2 company + 3 funding + 1 revenue + 3 high-value + 1 verified + 2 capped engagement
	assert.Equal(t, 12.0, a.RelevanceScore)
	assert.Equal(t, "funding", a.Category)
	assert.Equal(t, types.ImportanceHigh, a.Importance)
	assert.Equal(t, "1", a.PostID)
	assert.ElementsMatch(t, []string{"revenue", "funding", "round", "raised"}, a.KeywordsMatched)
	assert.NotContains(t, a.KeywordsMatched, "growth")
	assert.Equal(t, types.SentimentPositive, a.Sentiment)
	assert.Equal(t,
		"Funding mention by high-profile verified account @techcrunch (115 total engagement) - positive sentiment",
		a.Summary)
}

func TestScore_BaselineIsZero(t *testing.T) {
	post := types.Post{ID: "2", AuthorHandle: "someone", Content: "nothing to see here"}

	a := newTestScorer().Score(post, "Acme")

	assert.Equal(t, 0.0, a.RelevanceScore)
	assert.Equal(t, types.CategoryGeneral, a.Category)
	assert.Equal(t, types.ImportanceLow, a.Importance)
	assert.Equal(t, types.SentimentNeutral, a.Sentiment)
	assert.Empty(t, a.KeywordsMatched)
	assert.Equal(t, "General mention by account @someone (0 total engagement) - neutral sentiment", a.Summary)
}

func TestScore_EmptyTextZeroFollowers(t *testing.T) {
	post := types.Post{ID: "3", AuthorHandle: "nobody"}

	a := newTestScorer().Score(post, "")

	assert.Equal(t, 0.0, a.RelevanceScore)
	assert.Equal(t, types.CategoryGeneral, a.Category)
}

func TestScore_AdditiveTerms(t *testing.T) {
	s := newTestScorer()

	tests := []struct {
		name string
		post types.Post
		want float64
	}{
		{
			name: "company mention only",
			post: types.Post{ID: "a", AuthorHandle: "x", Content: "I used ACME yesterday"},
			want: 2.0,
		},
		{
			name: "verified only",
			post: types.Post{ID: "b", AuthorHandle: "x", AuthorVerified: true, Content: "hello"},
			want: 1.0,
		},
		{
			name: "high-value only, case-insensitive handle",
			post: types.Post{ID: "c", AuthorHandle: "Bloomberg", Content: "hello"},
			want: 3.0,
		},
		{
			name: "negative keyword subtracts",
			post: types.Post{ID: "d", AuthorHandle: "x", Content: "a lawsuit"},
			want: -0.5,
		},
		{
			name: "engagement ratio below cap",
			post: types.Post{ID: "e", AuthorHandle: "x", Content: "hello", AuthorFollowers: 10000, Likes: 5},
			want: 0.5,
		},
		{
			name: "retweets weigh double in ratio",
			post: types.Post{ID: "f", AuthorHandle: "x", Content: "hello", AuthorFollowers: 10000, Retweets: 5},
			want: 1.0,
		},
		{
			name: "engagement ratio capped",
			post: types.Post{ID: "g", AuthorHandle: "x", Content: "hello", AuthorFollowers: 10, Likes: 1000},
			want: 2.0,
		},
		{
			name: "rounded to two decimals",
			post: types.Post{ID: "h", AuthorHandle: "x", Content: "hello", AuthorFollowers: 3000, Likes: 1},
			want: 0.33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Score(tt.post, "Acme").RelevanceScore)
		})
	}
}

func TestScore_CategoryTieBreaksOnDeclarationOrder(t *testing.T) {
	// one revenue keyword and one funding keyword: revenue is declared first
	post := types.Post{ID: "1", AuthorHandle: "x", Content: "sales and valuation"}

	a := newTestScorer().Score(post, "Acme")

	assert.Equal(t, "revenue", a.Category)
}

func TestScore_NegativeCategoryCanBePrimary(t *testing.T) {
	post := types.Post{ID: "1", AuthorHandle: "x", Content: "fraud investigation after layoffs"}

	a := newTestScorer().Score(post, "Acme")

	assert.Equal(t, taxonomy.CategoryNegative, a.Category)
	assert.Equal(t, -1.5, a.RelevanceScore)
	assert.Equal(t, types.SentimentNegative, a.Sentiment)
}

func TestScore_Deterministic(t *testing.T) {
	s := newTestScorer()
	post := types.Post{
		ID: "1", AuthorHandle: "a16z", Content: "Acme partnership launch with global team",
		AuthorFollowers: 500, Likes: 3, Retweets: 2, Replies: 1,
	}

	first := s.Score(post, "Acme")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, s.Score(post, "Acme"))
	}
}

func TestScore_SentimentTies(t *testing.T) {
	s := newTestScorer()

	assert.Equal(t, types.SentimentNeutral, s.Score(types.Post{ID: "1", AuthorHandle: "x", Content: "plain words"}, "").Sentiment)
	// one positive ("great") and one negative ("problem")
	assert.Equal(t, types.SentimentNeutral, s.Score(types.Post{ID: "2", AuthorHandle: "x", Content: "great problem"}, "").Sentiment)
}

func TestScore_AuthorDescriptors(t *testing.T) {
	s := newTestScorer()

	tests := []struct {
		handle   string
		verified bool
		want     string
	}{
		{"reuters", true, "high-profile verified account"},
		{"reuters", false, "high-profile account"},
		{"someone", true, "verified account"},
		{"someone", false, "account"},
	}

	for _, tt := range tests {
		a := s.Score(types.Post{ID: "1", AuthorHandle: tt.handle, AuthorVerified: tt.verified}, "")
		assert.Contains(t, a.Summary, "by "+tt.want+" @"+tt.handle)
	}
}

func TestImportanceFor_Boundaries(t *testing.T) {
	assert.Equal(t, types.ImportanceHigh, ImportanceFor(5.0))
	assert.Equal(t, types.ImportanceMedium, ImportanceFor(4.99))
	assert.Equal(t, types.ImportanceMedium, ImportanceFor(2.0))
	assert.Equal(t, types.ImportanceLow, ImportanceFor(1.99))
	assert.Equal(t, types.ImportanceLow, ImportanceFor(-3))
}

func TestValidatePost(t *testing.T) {
	require.NoError(t, ValidatePost(types.Post{ID: "1", AuthorHandle: "x"}))

	assert.ErrorIs(t, ValidatePost(types.Post{AuthorHandle: "x"}), ErrInvalidPost)
	assert.ErrorIs(t, ValidatePost(types.Post{ID: "1"}), ErrInvalidPost)
	assert.ErrorIs(t, ValidatePost(types.Post{ID: "1", AuthorHandle: "x", Likes: -1}), ErrInvalidPost)
}
