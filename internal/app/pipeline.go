package app

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"

	"github.com/ibeckermayer/portfoliowatch/internal/analyzer"
	"github.com/ibeckermayer/portfoliowatch/internal/digest"
	"github.com/ibeckermayer/portfoliowatch/internal/export"
	"github.com/ibeckermayer/portfoliowatch/internal/linkedin"
	"github.com/ibeckermayer/portfoliowatch/internal/metrics"
	"github.com/ibeckermayer/portfoliowatch/internal/scraper"
	"github.com/ibeckermayer/portfoliowatch/internal/store"
	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

// Collection sources for metrics
const (
	sourceX        = "x"
	sourceLinkedIn = "linkedin"
)

func (a *App) run(ctx context.Context, id string, companyNames []string) (result *RunResult, err error) {
	s := a.getSnapshot()
	start := a.now()
	defer func() { metrics.RecordRun(a.now().Sub(start), err) }()

	companies, err := s.config.Companies(companyNames)
	if err != nil {
		return nil, err
	}

	if a.deps.XAuth == nil || !a.deps.XAuth.IsAuthenticated() {
		return nil, scraper.ErrNotAuthenticated
	}
	cookies, err := a.deps.XAuth.GetCookies()
	if err != nil {
		return nil, fmt.Errorf("failed to get cookies: %w", err)
	}

	log := a.log.With("run", id)
	log.Infow("starting run", "companies", len(companies))

	// Step 1: collect posts, one company at a time
	since := start.AddDate(0, 0, -s.config.Scraping.LookbackDays)
	delay := time.Duration(s.config.Scraping.DelayBetweenCompanies) * time.Second
	batches := make([]analyzer.CompanyPosts, 0, len(companies))
	var failed []string

	for i, company := range companies {
		if i > 0 {
			if err := a.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		posts, err := a.deps.Posts.SearchCompany(ctx, cookies, company, since, s.config.Scraping.PostsPerCompany)
		metrics.RecordCollection(sourceX, company.Name, len(posts), err)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.Warnw("collection failed, continuing with no posts", "company", company.Name, "error", err)
			failed = append(failed, company.Name)
			posts = nil
		}

		batches = append(batches, analyzer.CompanyPosts{Company: company.Name, Posts: posts})
	}

	// Step 2: follower counts feed the engagement ratio
	if s.config.Scraping.FetchFollowers {
		a.fillFollowers(ctx, cookies, batches, s.config.Scraping.MaxFollowerLookups)
	}

	if path, err := store.SaveStepOutput(a.deps.Cache, store.StepRawPosts, batches); err != nil {
		log.Warnw("failed to cache raw posts", "error", err)
	} else {
		log.Debugw("cached raw posts", "path", path)
	}

	// Step 3: score and roll up
	rollup, err := s.scorer.AnalyzePortfolio(ctx, batches)
	if err != nil {
		return nil, err
	}

	result = &RunResult{
		ID:        id,
		Source:    "live",
		StartedAt: start,
		Rollup:    rollup,
		Failed:    failed,
	}
	a.finish(ctx, s, result, s.config.Digest.SendEmail)

	return result, nil
}

// AnalyzeCached re-scores the most recently collected posts without
// touching the network.
func (a *App) AnalyzeCached(ctx context.Context) (*RunResult, error) {
	if !a.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer a.running.Unlock()

	s := a.getSnapshot()
	batches, path, err := store.LoadLatestStepOutput[[]analyzer.CompanyPosts](a.deps.Cache, store.StepRawPosts)
	if err != nil {
		return nil, err
	}
	a.log.Infow("re-scoring cached posts", "path", path, "companies", len(batches))

	start := a.now()
	rollup, err := s.scorer.AnalyzePortfolio(ctx, batches)
	if err != nil {
		return nil, err
	}

	result := &RunResult{
		ID:        "cached-" + start.Format("20060102T150405"),
		Source:    "cached",
		StartedAt: start,
		Rollup:    rollup,
	}
	a.finish(ctx, s, result, false)

	return result, nil
}

// fillFollowers looks up follower counts for the first authors seen.
// Failures leave counts at zero.
func (a *App) fillFollowers(ctx context.Context, cookies []*network.Cookie, batches []analyzer.CompanyPosts, max int) {
	var all []types.Post
	for _, b := range batches {
		all = append(all, b.Posts...)
	}
	handles := scraper.UniqueAuthors(all, max)
	if len(handles) == 0 {
		return
	}

	counts, err := a.deps.Posts.FetchFollowers(ctx, cookies, handles)
	if err != nil {
		a.log.Warnw("follower lookup failed", "error", err)
		return
	}
	for _, b := range batches {
		scraper.ApplyFollowers(b.Posts, counts)
	}
}

// finish runs the reporting steps. Each one is best effort: a failed
// export or email is logged and the run still completes.
func (a *App) finish(ctx context.Context, s snapshot, result *RunResult, notify bool) {
	log := a.log.With("run", result.ID)
	metrics.RecordRollup(result.Rollup)

	if path, err := store.SaveStepOutput(a.deps.Cache, store.StepRollup, result.Rollup); err != nil {
		log.Warnw("failed to cache rollup", "error", err)
	} else {
		log.Debugw("cached rollup", "path", path)
	}

	if a.deps.Briefer != nil {
		briefing, err := a.deps.Briefer.Brief(ctx, result.Rollup)
		if err != nil {
			log.Warnw("briefing failed", "error", err)
		}
		result.Briefing = briefing
	}

	profiles, _, err := store.LoadLatestStepOutput[[]types.CompanyProfile](a.deps.Cache, store.StepProfiles)
	if err != nil {
		profiles = nil
	}

	if len(s.config.Export.Formats) > 0 {
		dir, err := s.config.ExportDir()
		if err == nil {
			result.Exports, err = export.All(dir, s.config.Export.Formats, export.Document{
				RunID:       result.ID,
				GeneratedAt: result.StartedAt,
				Rollup:      result.Rollup,
				Profiles:    profiles,
			})
		}
		if err != nil {
			log.Warnw("export failed", "error", err)
		}
	}

	if builder, err := digest.New(s.config.Digest.MaxPostsPerCompany); err != nil {
		log.Warnw("failed to create digest builder", "error", err)
	} else if d, err := builder.Build(result.Rollup, result.Briefing); err != nil {
		log.Warnw("failed to build digest", "error", err)
	} else {
		result.Digest = d
		if path, err := a.deps.Cache.SaveTextOutput(store.StepDigest, d.HTMLBody, ".html"); err != nil {
			log.Warnw("failed to cache digest", "error", err)
		} else {
			result.DigestPath = path
		}

		if notify && a.deps.Notifier != nil {
			if err := a.deps.Notifier.SendDigest(d, s.config.Email.ToAddr); err != nil {
				log.Warnw("failed to send digest", "error", err)
			}
		}
	}

	result.FinishedAt = a.now()

	a.mu.Lock()
	a.latest = result
	a.mu.Unlock()

	log.Infow("run complete",
		"companies", len(result.Rollup.Rows),
		"failed", len(result.Failed),
		"elapsed", result.FinishedAt.Sub(result.StartedAt))
}

// Profiles collects LinkedIn profiles for the selected companies and
// caches them for the next export.
func (a *App) Profiles(ctx context.Context, companyNames []string) ([]types.CompanyProfile, error) {
	s := a.getSnapshot()
	companies, err := s.config.Companies(companyNames)
	if err != nil {
		return nil, err
	}

	if a.deps.LinkedInAuth == nil || !a.deps.LinkedInAuth.IsAuthenticated() {
		return nil, linkedin.ErrNotAuthenticated
	}
	cookies, err := a.deps.LinkedInAuth.GetCookies()
	if err != nil {
		return nil, fmt.Errorf("failed to get cookies: %w", err)
	}

	profiles, err := a.deps.Profiles.ScrapeAll(ctx, cookies, companies)
	if err != nil {
		metrics.RecordCollection(sourceLinkedIn, "", 0, err)
		return nil, err
	}

	if path, err := store.SaveStepOutput(a.deps.Cache, store.StepProfiles, profiles); err != nil {
		a.log.Warnw("failed to cache profiles", "error", err)
	} else {
		a.log.Infow("cached profiles", "path", path, "count", len(profiles))
	}

	return profiles, nil
}
