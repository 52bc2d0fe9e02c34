package scraper

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"423", 423},
		{"1,234", 1234},
		{"1.2K", 1200},
		{"4.35k", 4350},
		{"5.7M", 5700000},
		{" 12 ", 12},
		{"abc", 0},
		{"K", 0},
		{",", 0},
		{" ,, ", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseMetric(tt.in), "parseMetric(%q)", tt.in)
	}
}

func TestToPost(t *testing.T) {
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	post, ok := toPost(rawPost{
		ID:           "123",
		AuthorHandle: "founder",
		Verified:     true,
		Content:      "Thrilled @acmeco closed its round #funding #seriesA",
		Timestamp:    "2025-01-31T10:00:00.000Z",
		Likes:        "1.5K",
		Retweets:     "20",
		Replies:      "3",
	}, now)

	require.True(t, ok)
	assert.True(t, post.AuthorVerified)
	assert.Equal(t, []string{"funding", "seriesA"}, post.Hashtags)
	assert.Equal(t, []string{"acmeco"}, post.Mentions)
	assert.Equal(t, 1500, post.Likes)
	assert.Equal(t, 20, post.Retweets)
	assert.Equal(t, 3, post.Replies)
	assert.Equal(t, 2025, post.Timestamp.Year())
	assert.Equal(t, now, post.ScrapedAt)
}

func TestToPost_PrefersDOMEntities(t *testing.T) {
	post, ok := toPost(rawPost{ID: "1", AuthorHandle: "a", Content: "#one", Hashtags: []string{"dom"}}, time.Now())

	require.True(t, ok)
	assert.Equal(t, []string{"dom"}, post.Hashtags)
	assert.Empty(t, post.Mentions)
}

func TestToPost_RejectsMissingIdentity(t *testing.T) {
	_, ok := toPost(rawPost{AuthorHandle: "a"}, time.Now())
	assert.False(t, ok)

	_, ok = toPost(rawPost{ID: "1"}, time.Now())
	assert.False(t, ok)
}

func TestSearchQuery(t *testing.T) {
	since := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	q := SearchQuery(types.Company{Name: "Modern Health", TwitterHandle: "@modernhealth", SearchTerms: []string{"ModernHealth app", " "}}, since)
	assert.Equal(t, `"Modern Health" OR @modernhealth OR "ModernHealth app" since:2025-01-15`, q)

	assert.Equal(t, `"Acme"`, SearchQuery(types.Company{Name: "Acme"}, time.Time{}))
}

func TestSearchURL(t *testing.T) {
	u, err := url.Parse(SearchURL(`"Acme" since:2025-01-01`))
	require.NoError(t, err)

	assert.Equal(t, "x.com", u.Host)
	assert.Equal(t, "live", u.Query().Get("f"))
	assert.Equal(t, `"Acme" since:2025-01-01`, u.Query().Get("q"))
}

func TestSearchCompany_RequiresCookies(t *testing.T) {
	_, err := New(true).SearchCompany(context.Background(), nil, types.Company{Name: "Acme"}, time.Time{}, 10)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = New(true).FetchFollowers(context.Background(), nil, []string{"a"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestUniqueAuthorsAndApplyFollowers(t *testing.T) {
	posts := []types.Post{
		{ID: "1", AuthorHandle: "Alice"},
		{ID: "2", AuthorHandle: "bob"},
		{ID: "3", AuthorHandle: "alice"},
		{ID: "4", AuthorHandle: "carol"},
	}

	assert.Equal(t, []string{"Alice", "bob", "carol"}, UniqueAuthors(posts, 0))
	assert.Equal(t, []string{"Alice", "bob"}, UniqueAuthors(posts, 2))

	ApplyFollowers(posts, map[string]int{"alice": 900, "carol": 5})
	assert.Equal(t, 900, posts[0].AuthorFollowers)
	assert.Equal(t, 0, posts[1].AuthorFollowers)
	assert.Equal(t, 900, posts[2].AuthorFollowers)
	assert.Equal(t, 5, posts[3].AuthorFollowers)
}
