// Package linkedin collects public company page data from LinkedIn.
package linkedin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/ibeckermayer/portfoliowatch/internal/browser"
	"github.com/ibeckermayer/portfoliowatch/internal/logging"
	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

var (
	// ErrNotAuthenticated is returned when no li_at session is available
	ErrNotAuthenticated = errors.New("not logged in to linkedin")
	// ErrNoProfileURL is returned for companies without a LinkedIn page
	ErrNoProfileURL = errors.New("company has no linkedin url")
)

const pageTimeout = time.Minute

// Scraper loads LinkedIn company pages through a headless browser
type Scraper struct {
	headless bool
	delay    time.Duration
	log      *zap.SugaredLogger
	now      func() time.Time
}

// New creates a scraper that waits delay between companies
func New(headless bool, delay time.Duration) *Scraper {
	return &Scraper{
		headless: headless,
		delay:    delay,
		log:      logging.Named("linkedin"),
		now:      time.Now,
	}
}

// AboutURL returns the "about" tab of a company page
func AboutURL(linkedInURL string) string {
	return strings.TrimSuffix(linkedInURL, "/") + "/about/"
}

// ScrapeCompany fetches one company's profile
func (s *Scraper) ScrapeCompany(ctx context.Context, cookies []*network.Cookie, company types.Company) (*types.CompanyProfile, error) {
	if len(cookies) == 0 {
		return nil, ErrNotAuthenticated
	}
	if company.LinkedInURL == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoProfileURL, company.Name)
	}

	session, err := browser.NewSession(ctx, s.headless, cookies, pageTimeout)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	return s.scrape(session.Ctx, company)
}

// ScrapeAll walks the roster in order with a fixed delay between
// companies. Companies that fail are logged and skipped.
func (s *Scraper) ScrapeAll(ctx context.Context, cookies []*network.Cookie, companies []types.Company) ([]types.CompanyProfile, error) {
	if len(cookies) == 0 {
		return nil, ErrNotAuthenticated
	}

	session, err := browser.NewSession(ctx, s.headless, cookies, time.Duration(len(companies))*(pageTimeout+s.delay))
	if err != nil {
		return nil, err
	}
	defer session.Close()

	var profiles []types.CompanyProfile
	for i, company := range companies {
		if i > 0 && s.delay > 0 {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				return profiles, ctx.Err()
			}
		}

		if company.LinkedInURL == "" {
			s.log.Debugw("skipping company without linkedin url", "company", company.Name)
			continue
		}

		profile, err := s.scrape(session.Ctx, company)
		if err != nil {
			s.log.Warnw("profile scrape failed", "company", company.Name, "error", err)
			continue
		}
		profiles = append(profiles, *profile)
	}

	s.log.Infow("scraped profiles", "requested", len(companies), "scraped", len(profiles))
	return profiles, nil
}

func (s *Scraper) scrape(ctx context.Context, company types.Company) (*types.CompanyProfile, error) {
	if err := chromedp.Run(ctx,
		chromedp.Navigate(AboutURL(company.LinkedInURL)),
		chromedp.WaitVisible("h1", chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", company.Name, err)
	}

	html, err := browser.OuterHTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read page for %s: %w", company.Name, err)
	}

	profile, err := ParseProfile(html, company.LinkedInURL, s.now())
	if err != nil {
		return nil, err
	}
	if profile.Name == "" {
		profile.Name = company.Name
	}
	return profile, nil
}
