package scraper

// X.com DOM selectors
// These are isolated here because X changes their DOM frequently
// Update these when scraping breaks

const (
	// Page containers
	FeedContainer = `[data-testid="primaryColumn"]`
	TweetArticle  = `article[data-testid="tweet"]`
	EmptyState    = `[data-testid="empty_state_header_text"]`

	// Profile page
	FollowersLink = `a[href$="/verified_followers"], a[href$="/followers"]`
)

// Common wait conditions
const (
	WaitForFeed    = FeedContainer
	WaitForResults = TweetArticle + `, ` + EmptyState
)
