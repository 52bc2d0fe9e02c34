package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/google/uuid"
	webbrowser "github.com/pkg/browser"
	"go.uber.org/zap"

	"github.com/ibeckermayer/portfoliowatch/internal/analyzer"
	"github.com/ibeckermayer/portfoliowatch/internal/config"
	"github.com/ibeckermayer/portfoliowatch/internal/digest"
	"github.com/ibeckermayer/portfoliowatch/internal/logging"
	"github.com/ibeckermayer/portfoliowatch/internal/store"
	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

var (
	// ErrRunInProgress is returned when a run is requested while one is active
	ErrRunInProgress = errors.New("a run is already in progress")
	// ErrNoRun is returned when no completed run or cached rollup exists
	ErrNoRun = errors.New("no completed run yet")
)

// backgroundRunTimeout bounds runs started with Start
const backgroundRunTimeout = time.Hour

// Session provides a site's stored login
type Session interface {
	IsAuthenticated() bool
	GetCookies() ([]*network.Cookie, error)
}

// PostCollector gathers posts about a company
type PostCollector interface {
	SearchCompany(ctx context.Context, cookies []*network.Cookie, company types.Company, since time.Time, limit int) ([]types.Post, error)
	FetchFollowers(ctx context.Context, cookies []*network.Cookie, handles []string) (map[string]int, error)
}

// ProfileCollector gathers company profiles
type ProfileCollector interface {
	ScrapeAll(ctx context.Context, cookies []*network.Cookie, companies []types.Company) ([]types.CompanyProfile, error)
}

// DigestSender delivers a digest
type DigestSender interface {
	SendDigest(d *digest.Digest, toAddr string) error
}

// Briefer writes a narrative summary of a rollup
type Briefer interface {
	Brief(ctx context.Context, rollup types.PortfolioRollup) (string, error)
}

// Deps are the collaborators of an App. Notifier and Briefer are optional.
type Deps struct {
	XAuth        Session
	LinkedInAuth Session
	Posts        PostCollector
	Profiles     ProfileCollector
	Cache        *store.Cache
	Notifier     DigestSender
	Briefer      Briefer
}

// RunResult describes a completed analysis
type RunResult struct {
	ID         string                `json:"id"`
	Source     string                `json:"source"` // live|cached
	StartedAt  time.Time             `json:"started_at"`
	FinishedAt time.Time             `json:"finished_at"`
	Rollup     types.PortfolioRollup `json:"rollup"`
	Failed     []string              `json:"failed_companies,omitempty"`
	Exports    map[string]string     `json:"exports,omitempty"`
	Briefing   string                `json:"briefing,omitempty"`
	Digest     *digest.Digest        `json:"-"`
	DigestPath string                `json:"digest_path,omitempty"`
}

// App holds the application state.
type App struct {
	mu   sync.RWMutex
	deps Deps // immutable after creation

	// Mutable fields - use getSnapshot() for concurrent access.
	config *config.Config
	scorer *analyzer.Scorer
	latest *RunResult

	running sync.Mutex
	log     *zap.SugaredLogger
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

// snapshot holds fields that may be replaced by ReloadConfig.
// Use getSnapshot() to obtain a consistent, point-in-time copy.
type snapshot struct {
	config *config.Config
	scorer *analyzer.Scorer
}

// getSnapshot returns a snapshot of mutable fields under read lock.
func (a *App) getSnapshot() snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return snapshot{
		config: a.config,
		scorer: a.scorer,
	}
}

// New creates a new App instance.
func New(cfg *config.Config, deps Deps) (*App, error) {
	if deps.Cache == nil {
		return nil, errors.New("app requires a step cache")
	}

	tx, err := cfg.BuildTaxonomy()
	if err != nil {
		return nil, fmt.Errorf("invalid taxonomy: %w", err)
	}

	return &App{
		deps:   deps,
		config: cfg,
		scorer: analyzer.NewScorer(tx),
		log:    logging.Named("app"),
		now:    time.Now,
		sleep:  sleepCtx,
	}, nil
}

// Config returns the active configuration.
func (a *App) Config() *config.Config {
	return a.getSnapshot().config
}

// Scorer returns the active scorer.
func (a *App) Scorer() *analyzer.Scorer {
	return a.getSnapshot().scorer
}

// Cache returns the step cache.
func (a *App) Cache() *store.Cache {
	return a.deps.Cache
}

// ReloadConfig swaps in a new configuration and the scorer built from its
// taxonomy.
func (a *App) ReloadConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	tx, err := cfg.BuildTaxonomy()
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.config = cfg
	a.scorer = analyzer.NewScorer(tx)
	a.mu.Unlock()

	a.log.Info("configuration reloaded")
	return nil
}

// Latest returns the last run completed by this process.
func (a *App) Latest() (*RunResult, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.latest, a.latest != nil
}

// LatestRollup returns the rollup of the last run, falling back to the
// step cache so a restarted process still has data to serve.
func (a *App) LatestRollup() (types.PortfolioRollup, error) {
	if r, ok := a.Latest(); ok {
		return r.Rollup, nil
	}
	rollup, _, err := store.LoadLatestStepOutput[types.PortfolioRollup](a.deps.Cache, store.StepRollup)
	if err != nil {
		return types.PortfolioRollup{}, ErrNoRun
	}
	return rollup, nil
}

// Score scores ad-hoc posts for one company. Malformed posts are rejected
// as a whole.
func (a *App) Score(company string, posts []types.Post) (types.CompanyReport, error) {
	for _, p := range posts {
		if err := analyzer.ValidatePost(p); err != nil {
			return types.CompanyReport{}, err
		}
	}
	return a.getSnapshot().scorer.Aggregate(company, posts), nil
}

// ViewLastDigest opens the most recent digest file in the default browser.
func (a *App) ViewLastDigest() error {
	path, err := a.deps.Cache.LatestStepFile(store.StepDigest)
	if err != nil {
		return err
	}

	a.log.Infow("opening digest", "path", path)
	return webbrowser.OpenFile(path)
}

// Start launches a run in the background and returns its id.
func (a *App) Start(companyNames []string) (string, error) {
	if _, err := a.getSnapshot().config.Companies(companyNames); err != nil {
		return "", err
	}
	if !a.running.TryLock() {
		return "", ErrRunInProgress
	}

	id := uuid.NewString()
	go func() {
		defer a.running.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), backgroundRunTimeout)
		defer cancel()

		if _, err := a.run(ctx, id, companyNames); err != nil {
			a.log.Errorw("background run failed", "run", id, "error", err)
		}
	}()

	return id, nil
}

// Run collects, scores, exports and reports on the selected companies.
// No names selects the whole portfolio.
func (a *App) Run(ctx context.Context, companyNames []string) (*RunResult, error) {
	if !a.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer a.running.Unlock()

	return a.run(ctx, uuid.NewString(), companyNames)
}

// Running reports whether a run is active.
func (a *App) Running() bool {
	if a.running.TryLock() {
		a.running.Unlock()
		return false
	}
	return true
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
