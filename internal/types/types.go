package types

import "time"

// Company is one entry of the monitored portfolio roster
type Company struct {
	Name          string   `toml:"name" json:"name"`
	TwitterHandle string   `toml:"twitter_handle" json:"twitter_handle,omitempty"`
	LinkedInURL   string   `toml:"linkedin_url" json:"linkedin_url,omitempty"`
	Website       string   `toml:"website" json:"website,omitempty"`
	SearchTerms   []string `toml:"search_terms" json:"search_terms,omitempty"`
}

// Post represents a scraped X post mentioning a portfolio company.
// Retweets are the post's shares.
type Post struct {
	ID              string    `json:"id"`
	AuthorHandle    string    `json:"author_handle"`
	AuthorName      string    `json:"author_name"`
	AuthorFollowers int       `json:"author_followers"`
	AuthorVerified  bool      `json:"author_verified"`
	Content         string    `json:"content"`
	Hashtags        []string  `json:"hashtags"`
	Mentions        []string  `json:"mentions"`
	MediaURLs       []string  `json:"media_urls,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
	Likes           int       `json:"likes"`
	Retweets        int       `json:"retweets"`
	Replies         int       `json:"replies"`
	OriginalURL     string    `json:"original_url"`
	ScrapedAt       time.Time `json:"scraped_at"`
}

// Engagement is the unweighted interaction total of a post
func (p Post) Engagement() int {
	return p.Likes + p.Retweets + p.Replies
}

// Sentiment is the coarse tone of a post
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Importance is the tier derived from a relevance score
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// CategoryGeneral is assigned when no taxonomy keyword matched
const CategoryGeneral = "general"

// PostAnalysis is the heuristic scoring result for one post against one company
type PostAnalysis struct {
	PostID          string     `json:"post_id"`
	RelevanceScore  float64    `json:"relevance_score"`
	Category        string     `json:"category"`
	Sentiment       Sentiment  `json:"sentiment"`
	KeywordsMatched []string   `json:"keywords_matched"`
	Importance      Importance `json:"importance_level"`
	Summary         string     `json:"summary"`
}

// ScoredPost pairs a post with the analysis computed from it
type ScoredPost struct {
	Post     Post         `json:"post"`
	Analysis PostAnalysis `json:"analysis"`
}

// SentimentCounts always carries all three sentiment buckets
type SentimentCounts struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Add increments the bucket for s
func (c *SentimentCounts) Add(s Sentiment) {
	switch s {
	case SentimentPositive:
		c.Positive++
	case SentimentNegative:
		c.Negative++
	default:
		c.Neutral++
	}
}

// Merge adds other into c element-wise
func (c *SentimentCounts) Merge(other SentimentCounts) {
	c.Positive += other.Positive
	c.Negative += other.Negative
	c.Neutral += other.Neutral
}

// KeywordCount is one entry of a keyword frequency list
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// SummaryStats are the headline numbers of a company report
type SummaryStats struct {
	AverageRelevance    float64 `json:"average_relevance"`
	HighImportanceCount int     `json:"high_importance_count"`
	TotalEngagement     int     `json:"total_engagement"`
	VerifiedAuthors     int     `json:"verified_authors"`
	AverageFollowers    int     `json:"average_followers"`
}

// CompanyReport is the aggregated view of one company's scored posts.
// Posts are ordered by descending relevance score.
type CompanyReport struct {
	CompanyName        string          `json:"company_name"`
	TotalPosts         int             `json:"total_posts"`
	Posts              []ScoredPost    `json:"posts"`
	SentimentBreakdown SentimentCounts `json:"sentiment_breakdown"`
	CategoryBreakdown  CategoryCounts  `json:"category_breakdown"`
	TopKeywords        []KeywordCount  `json:"top_keywords"`
	SummaryStats       SummaryStats    `json:"summary_stats"`
}

// CompanySummaryRow is one line of the cross-company summary table
type CompanySummaryRow struct {
	CompanyName         string  `json:"company_name"`
	TotalPosts          int     `json:"total_posts"`
	AverageRelevance    float64 `json:"average_relevance"`
	HighImportanceCount int     `json:"high_importance_count"`
	TotalEngagement     int     `json:"total_engagement"`
	PositivePosts       int     `json:"positive_posts"`
	NegativePosts       int     `json:"negative_posts"`
	NeutralPosts        int     `json:"neutral_posts"`
	TopCategory         string  `json:"top_category"`
}

// PortfolioRollup combines company reports into cross-company tables.
// Reports and Rows keep the order the reports were supplied in.
type PortfolioRollup struct {
	Reports         []CompanyReport     `json:"reports"`
	Rows            []CompanySummaryRow `json:"rows"`
	SentimentTotals SentimentCounts     `json:"sentiment_totals"`
	CategoryTotals  CategoryCounts      `json:"category_totals"`
}

// Report returns the report for the named company
func (r *PortfolioRollup) Report(name string) (*CompanyReport, bool) {
	for i := range r.Reports {
		if r.Reports[i].CompanyName == name {
			return &r.Reports[i], true
		}
	}
	return nil, false
}

// CompanyProfile holds public LinkedIn company page data
type CompanyProfile struct {
	Name          string   `json:"name"`
	LinkedInURL   string   `json:"linkedin_url"`
	About         string   `json:"about,omitempty"`
	Website       string   `json:"website,omitempty"`
	Headquarters  string   `json:"headquarters,omitempty"`
	Founded       string   `json:"founded,omitempty"`
	CompanyType   string   `json:"company_type,omitempty"`
	CompanySize   string   `json:"company_size,omitempty"`
	Specialties   []string `json:"specialties,omitempty"`
	EmployeeCount *int     `json:"employee_count,omitempty"`
	Followers     *int     `json:"followers,omitempty"`
	Industry      string   `json:"industry,omitempty"`
	LogoURL       string   `json:"logo_url,omitempty"`
	LastUpdated   string   `json:"last_updated"`
}
