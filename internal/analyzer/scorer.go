package analyzer

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ibeckermayer/portfoliowatch/internal/taxonomy"
	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

// Score weights and thresholds
const (
	companyMentionBonus = 2.0
	keywordMatchWeight  = 1.0
	negativeMatchWeight = -0.5
	highValueBonus      = 3.0
	verifiedBonus       = 1.0
	engagementCap       = 2.0
	engagementScale     = 1000.0

	highImportanceThreshold   = 5.0
	mediumImportanceThreshold = 2.0
)

// ErrInvalidPost is returned by ValidatePost for records missing required fields
var ErrInvalidPost = errors.New("invalid post")

// Scorer computes heuristic relevance for posts. It holds no mutable
// state, so one Scorer may be used from many goroutines.
type Scorer struct {
	taxonomy *taxonomy.Taxonomy
}

// NewScorer creates a scorer over the given taxonomy
func NewScorer(t *taxonomy.Taxonomy) *Scorer {
	if t == nil {
		t = taxonomy.Default()
	}
	return &Scorer{taxonomy: t}
}

// Taxonomy returns the vocabulary the scorer was built with
func (s *Scorer) Taxonomy() *taxonomy.Taxonomy {
	return s.taxonomy
}

// ValidatePost checks the fields the scorer relies on. Callers reject
// failing posts before scoring.
func ValidatePost(p types.Post) error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return fmt.Errorf("%w: missing id", ErrInvalidPost)
	case strings.TrimSpace(p.AuthorHandle) == "":
		return fmt.Errorf("%w: post %s missing author handle", ErrInvalidPost, p.ID)
	case p.Likes < 0 || p.Retweets < 0 || p.Replies < 0 || p.AuthorFollowers < 0:
		return fmt.Errorf("%w: post %s has negative counters", ErrInvalidPost, p.ID)
	}
	return nil
}

// Score analyzes one post for companyName
func (s *Scorer) Score(post types.Post, companyName string) types.PostAnalysis {
	text := strings.ToLower(post.Content)

	score := 0.0
	if name := strings.ToLower(companyName); name != "" && strings.Contains(text, name) {
		score += companyMentionBonus
	}

	matched := []string{}
	category := types.CategoryGeneral
	bestCount := 0
	for _, m := range s.taxonomy.Match(text) {
		weight := keywordMatchWeight
		if m.Category == taxonomy.CategoryNegative {
			weight = negativeMatchWeight
		}
		for _, kw := range m.Keywords {
			if !contains(matched, kw) {
				matched = append(matched, kw)
			}
			score += weight
		}
		// strict comparison keeps the earliest category on ties
		if len(m.Keywords) > bestCount {
			bestCount = len(m.Keywords)
			category = m.Category
		}
	}

	highValue := s.taxonomy.IsHighValue(post.AuthorHandle)
	if highValue {
		score += highValueBonus
	}
	if post.AuthorVerified {
		score += verifiedBonus
	}

	score += math.Min(engagementRatio(post), engagementCap)
	score = round2(score)

	sentiment := s.sentiment(text)

	return types.PostAnalysis{
		PostID:          post.ID,
		RelevanceScore:  score,
		Category:        category,
		Sentiment:       sentiment,
		KeywordsMatched: matched,
		Importance:      ImportanceFor(score),
		Summary:         summarize(post, category, sentiment, highValue),
	}
}

// ImportanceFor maps a relevance score onto its tier
func ImportanceFor(score float64) types.Importance {
	switch {
	case score >= highImportanceThreshold:
		return types.ImportanceHigh
	case score >= mediumImportanceThreshold:
		return types.ImportanceMedium
	default:
		return types.ImportanceLow
	}
}

// engagementRatio weights retweets double and normalizes per thousand
// followers. The summary line uses the unweighted total instead.
func engagementRatio(p types.Post) float64 {
	weighted := float64(p.Likes + 2*p.Retweets + p.Replies)
	followers := max(p.AuthorFollowers, 1)
	return weighted / float64(followers) * engagementScale
}

func (s *Scorer) sentiment(lowerText string) types.Sentiment {
	pos := s.taxonomy.CountPositive(lowerText)
	neg := s.taxonomy.CountNegative(lowerText)
	switch {
	case pos > neg:
		return types.SentimentPositive
	case neg > pos:
		return types.SentimentNegative
	default:
		return types.SentimentNeutral
	}
}

func summarize(p types.Post, category string, sentiment types.Sentiment, highValue bool) string {
	return fmt.Sprintf("%s mention by %s @%s (%d total engagement) - %s sentiment",
		capitalize(category), authorDescriptor(p.AuthorVerified, highValue), p.AuthorHandle,
		p.Engagement(), sentiment)
}

func authorDescriptor(verified, highValue bool) string {
	switch {
	case highValue && verified:
		return "high-profile verified account"
	case highValue:
		return "high-profile account"
	case verified:
		return "verified account"
	default:
		return "account"
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
