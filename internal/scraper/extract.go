package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

// rawPost represents the raw data extracted from the DOM via JavaScript
type rawPost struct {
	ID           string   `json:"id"`
	AuthorHandle string   `json:"authorHandle"`
	AuthorName   string   `json:"authorName"`
	Verified     bool     `json:"verified"`
	Content      string   `json:"content"`
	Hashtags     []string `json:"hashtags"`
	Mentions     []string `json:"mentions"`
	MediaURLs    []string `json:"mediaUrls"`
	Timestamp    string   `json:"timestamp"`
	Likes        string   `json:"likes"`
	Retweets     string   `json:"retweets"`
	Replies      string   `json:"replies"`
	OriginalURL  string   `json:"originalUrl"`
}

// extractJS collects every rendered tweet on a search results page
const extractJS = `
	(function() {
		const tweets = document.querySelectorAll('article[data-testid="tweet"]');
		const results = [];

		tweets.forEach(el => {
			try {
				const statusLink = el.querySelector('a[href*="/status/"]');
				const id = statusLink?.href?.match(/status\/(\d+)/)?.[1];
				if (!id) return;

				const userNameEl = el.querySelector('[data-testid="User-Name"]');
				let authorHandle = '';
				let authorName = '';
				if (userNameEl) {
					const handleLink = userNameEl.querySelector('a[href^="/"]');
					if (handleLink) {
						authorHandle = handleLink.getAttribute('href')?.replace('/', '') || '';
					}
					const nameSpan = userNameEl.querySelector('span');
					authorName = nameSpan?.textContent || '';
				}
				const verified = !!userNameEl?.querySelector('[data-testid="icon-verified"]');

				const tweetTextEl = el.querySelector('[data-testid="tweetText"]');
				const content = tweetTextEl?.textContent || '';

				const hashtags = [];
				const mentions = [];
				tweetTextEl?.querySelectorAll('a').forEach(a => {
					const text = a.textContent || '';
					if (text.startsWith('#')) hashtags.push(text.slice(1));
					if (text.startsWith('@')) mentions.push(text.slice(1));
				});

				const mediaUrls = [];
				el.querySelectorAll('[data-testid="tweetPhoto"] img, [data-testid="videoPlayer"] video').forEach(m => {
					const src = m.src || m.poster;
					if (src) mediaUrls.push(src);
				});

				const timestamp = el.querySelector('time')?.getAttribute('datetime') || '';

				const getMetric = (testId) => {
					const metricEl = el.querySelector('[data-testid="' + testId + '"]');
					if (!metricEl) return '0';
					const ariaLabel = metricEl.getAttribute('aria-label');
					if (ariaLabel) {
						const match = ariaLabel.match(/^([\d,.]+[KkMm]?)/);
						return match ? match[1] : '0';
					}
					return metricEl.textContent?.trim() || '0';
				};

				results.push({
					id,
					authorHandle,
					authorName,
					verified,
					content,
					hashtags,
					mentions,
					mediaUrls,
					timestamp,
					likes: getMetric('like'),
					retweets: getMetric('retweet'),
					replies: getMetric('reply'),
					originalUrl: statusLink?.href || ''
				});
			} catch (e) {
				console.error('Error extracting tweet:', e);
			}
		});

		return results;
	})()
`

// followersJS reads the follower count from a profile page
const followersJS = `
	(function() {
		const link = document.querySelector('a[href$="/verified_followers"], a[href$="/followers"]');
		if (!link) return '';
		const span = link.querySelector('span');
		return (span?.textContent || link.textContent || '').trim();
	})()
`

var (
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
	mentionPattern = regexp.MustCompile(`@(\w+)`)
)

// toPost converts a DOM record into a Post. Records without an id or an
// author are rejected.
func toPost(rp rawPost, scrapedAt time.Time) (types.Post, bool) {
	if rp.ID == "" || rp.AuthorHandle == "" {
		return types.Post{}, false
	}

	var timestamp time.Time
	if rp.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, rp.Timestamp); err == nil {
			timestamp = parsed
		}
	}

	hashtags := rp.Hashtags
	if len(hashtags) == 0 {
		hashtags = findAll(hashtagPattern, rp.Content)
	}
	mentions := rp.Mentions
	if len(mentions) == 0 {
		mentions = findAll(mentionPattern, rp.Content)
	}

	return types.Post{
		ID:             rp.ID,
		AuthorHandle:   rp.AuthorHandle,
		AuthorName:     rp.AuthorName,
		AuthorVerified: rp.Verified,
		Content:        rp.Content,
		Hashtags:       hashtags,
		Mentions:       mentions,
		MediaURLs:      rp.MediaURLs,
		Timestamp:      timestamp,
		Likes:          parseMetric(rp.Likes),
		Retweets:       parseMetric(rp.Retweets),
		Replies:        parseMetric(rp.Replies),
		OriginalURL:    rp.OriginalURL,
		ScrapedAt:      scrapedAt,
	}, true
}

func findAll(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// parseMetric converts abbreviated metric strings like "1.2K", "5.7M", or "423" to integers
func parseMetric(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}

	multiplier := 1.0
	switch strings.ToUpper(s[len(s)-1:]) {
	case "K":
		multiplier = 1000
		s = s[:len(s)-1]
	case "M":
		multiplier = 1000000
		s = s[:len(s)-1]
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || value < 0 {
		return 0
	}

	return int(value*multiplier + 0.5)
}
