package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/ibeckermayer/portfoliowatch/internal/browser"
	"github.com/ibeckermayer/portfoliowatch/internal/logging"
	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

// ErrNotAuthenticated is returned when no X session cookies are available
var ErrNotAuthenticated = errors.New("not logged in to x.com")

const (
	searchTimeout  = 3 * time.Minute
	profileTimeout = 30 * time.Second
)

// Scraper collects posts mentioning portfolio companies from X.com
type Scraper struct {
	headless bool
	log      *zap.SugaredLogger
	now      func() time.Time
}

// New creates a new scraper
func New(headless bool) *Scraper {
	return &Scraper{
		headless: headless,
		log:      logging.Named("scraper"),
		now:      time.Now,
	}
}

// SearchQuery builds the X search expression for a company: its quoted
// name, its handle and any extra search terms, restricted to posts since
// the given day.
func SearchQuery(company types.Company, since time.Time) string {
	terms := []string{fmt.Sprintf("%q", company.Name)}
	if h := strings.TrimPrefix(company.TwitterHandle, "@"); h != "" {
		terms = append(terms, "@"+h)
	}
	for _, t := range company.SearchTerms {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, fmt.Sprintf("%q", t))
		}
	}

	q := strings.Join(terms, " OR ")
	if !since.IsZero() {
		q += " since:" + since.Format("2006-01-02")
	}
	return q
}

// SearchURL returns the live search results page for a query
func SearchURL(query string) string {
	v := url.Values{}
	v.Set("q", query)
	v.Set("src", "typed_query")
	v.Set("f", "live")
	return "https://x.com/search?" + v.Encode()
}

// SearchCompany fetches up to limit recent posts mentioning company
func (s *Scraper) SearchCompany(ctx context.Context, cookies []*network.Cookie, company types.Company, since time.Time, limit int) ([]types.Post, error) {
	if len(cookies) == 0 {
		return nil, ErrNotAuthenticated
	}

	session, err := browser.NewSession(ctx, s.headless, cookies, searchTimeout)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	target := SearchURL(SearchQuery(company, since))
	s.log.Debugw("searching", "company", company.Name, "url", target)

	if err := chromedp.Run(session.Ctx,
		chromedp.Navigate(target),
		chromedp.WaitVisible(WaitForFeed, chromedp.ByQuery),
		chromedp.WaitVisible(WaitForResults, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("failed to load search results: %w", err)
	}

	posts, err := s.extractPosts(session.Ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to extract posts: %w", err)
	}

	s.log.Infow("collected posts", "company", company.Name, "count", len(posts))
	return posts, nil
}

// extractPosts scrolls and extracts posts until limit is reached or the
// page stops yielding new ones
func (s *Scraper) extractPosts(ctx context.Context, limit int) ([]types.Post, error) {
	var posts []types.Post
	seenIDs := make(map[string]bool)
	maxScrollAttempts := limit/5 + 2 // roughly five posts per scroll
	stale := 0

	for scrollAttempts := 0; len(posts) < limit && scrollAttempts < maxScrollAttempts && stale < 3; scrollAttempts++ {
		newPosts, err := s.extractVisiblePosts(ctx)
		if err != nil {
			return nil, err
		}

		added := 0
		for _, p := range newPosts {
			if !seenIDs[p.ID] {
				seenIDs[p.ID] = true
				posts = append(posts, p)
				added++
			}
		}
		if added == 0 {
			stale++
		} else {
			stale = 0
		}

		if err := chromedp.Run(ctx, chromedp.Evaluate(`window.scrollBy(0, window.innerHeight)`, nil)); err != nil {
			return nil, err
		}

		// give the timeline time to render the next page
		select {
		case <-time.After(time.Duration(500+scrollAttempts*100) * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if len(posts) > limit {
		posts = posts[:limit]
	}

	return posts, nil
}

// extractVisiblePosts parses currently visible tweets
func (s *Scraper) extractVisiblePosts(ctx context.Context) ([]types.Post, error) {
	var rawPosts []rawPost
	if err := chromedp.Run(ctx, chromedp.Evaluate(extractJS, &rawPosts)); err != nil {
		return nil, fmt.Errorf("failed to extract posts from DOM: %w", err)
	}

	now := s.now()
	posts := make([]types.Post, 0, len(rawPosts))
	for _, rp := range rawPosts {
		post, ok := toPost(rp, now)
		if !ok {
			s.log.Debugw("dropping malformed post", "id", rp.ID, "author", rp.AuthorHandle)
			continue
		}
		posts = append(posts, post)
	}

	return posts, nil
}

// FetchFollowers visits each author's profile and reads the follower count.
// Handles that fail are logged and left out of the result.
func (s *Scraper) FetchFollowers(ctx context.Context, cookies []*network.Cookie, handles []string) (map[string]int, error) {
	if len(cookies) == 0 {
		return nil, ErrNotAuthenticated
	}

	counts := make(map[string]int, len(handles))
	if len(handles) == 0 {
		return counts, nil
	}

	session, err := browser.NewSession(ctx, s.headless, cookies, time.Duration(len(handles))*profileTimeout)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	for _, handle := range handles {
		if err := ctx.Err(); err != nil {
			return counts, err
		}

		var raw string
		err := chromedp.Run(session.Ctx,
			chromedp.Navigate("https://x.com/"+url.PathEscape(handle)),
			chromedp.WaitVisible(FollowersLink, chromedp.ByQuery),
			chromedp.Evaluate(followersJS, &raw),
		)
		if err != nil {
			s.log.Warnw("follower lookup failed", "handle", handle, "error", err)
			continue
		}
		counts[strings.ToLower(handle)] = parseMetric(raw)
	}

	return counts, nil
}

// UniqueAuthors lists distinct author handles in first-seen order, capped
// at max when max > 0
func UniqueAuthors(posts []types.Post, max int) []string {
	seen := make(map[string]bool)
	var handles []string
	for _, p := range posts {
		key := strings.ToLower(p.AuthorHandle)
		if seen[key] {
			continue
		}
		seen[key] = true
		handles = append(handles, p.AuthorHandle)
		if max > 0 && len(handles) == max {
			break
		}
	}
	return handles
}

// ApplyFollowers fills AuthorFollowers from counts keyed by lower-cased handle
func ApplyFollowers(posts []types.Post, counts map[string]int) {
	for i := range posts {
		if n, ok := counts[strings.ToLower(posts[i].AuthorHandle)]; ok {
			posts[i].AuthorFollowers = n
		}
	}
}
