package analyzer

import (
	"math"
	"sort"

	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

// topKeywordLimit caps the keyword frequency list of a report
const topKeywordLimit = 10

// Aggregate scores every post for companyName and summarizes the results.
// An empty post list yields a valid, zero-filled report.
func (s *Scorer) Aggregate(companyName string, posts []types.Post) types.CompanyReport {
	scored := make([]types.ScoredPost, len(posts))
	for i, p := range posts {
		scored[i] = types.ScoredPost{Post: p, Analysis: s.Score(p, companyName)}
	}

	// Stable so equal scores keep their collection order
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Analysis.RelevanceScore > scored[j].Analysis.RelevanceScore
	})

	report := types.CompanyReport{
		CompanyName:       companyName,
		TotalPosts:        len(scored),
		Posts:             scored,
		CategoryBreakdown: types.CategoryCounts{},
		TopKeywords:       []types.KeywordCount{},
	}

	var (
		relevanceSum float64
		followerSum  int
		keywords     keywordCounter
	)
	for _, sp := range scored {
		a := sp.Analysis

		report.SentimentBreakdown.Add(a.Sentiment)
		report.CategoryBreakdown.Add(a.Category, 1)
		for _, kw := range a.KeywordsMatched {
			keywords.add(kw)
		}

		relevanceSum += a.RelevanceScore
		if a.Importance == types.ImportanceHigh {
			report.SummaryStats.HighImportanceCount++
		}
		report.SummaryStats.TotalEngagement += sp.Post.Engagement()
		if sp.Post.AuthorVerified {
			report.SummaryStats.VerifiedAuthors++
		}
		followerSum += sp.Post.AuthorFollowers
	}

	if n := len(scored); n > 0 {
		report.SummaryStats.AverageRelevance = round2(relevanceSum / float64(n))
		// halves go to the even neighbor
		report.SummaryStats.AverageFollowers = int(math.RoundToEven(float64(followerSum) / float64(n)))
	}

	report.TopKeywords = keywords.top(topKeywordLimit)

	return report
}

// keywordCounter counts keywords and remembers first-seen order
type keywordCounter struct {
	index  map[string]int
	counts []types.KeywordCount
}

func (k *keywordCounter) add(keyword string) {
	if k.index == nil {
		k.index = make(map[string]int)
	}
	if i, ok := k.index[keyword]; ok {
		k.counts[i].Count++
		return
	}
	k.index[keyword] = len(k.counts)
	k.counts = append(k.counts, types.KeywordCount{Keyword: keyword, Count: 1})
}

// top ranks by count, keeping first-seen order among equal counts
func (k *keywordCounter) top(limit int) []types.KeywordCount {
	ranked := append([]types.KeywordCount{}, k.counts...)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
