// Command portfoliowatch collects posts and profiles for a VC portfolio,
// scores them and reports on the results.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ibeckermayer/portfoliowatch/internal/app"
	"github.com/ibeckermayer/portfoliowatch/internal/auth"
	"github.com/ibeckermayer/portfoliowatch/internal/briefing"
	"github.com/ibeckermayer/portfoliowatch/internal/config"
	"github.com/ibeckermayer/portfoliowatch/internal/linkedin"
	"github.com/ibeckermayer/portfoliowatch/internal/logging"
	"github.com/ibeckermayer/portfoliowatch/internal/metrics"
	"github.com/ibeckermayer/portfoliowatch/internal/notifier"
	"github.com/ibeckermayer/portfoliowatch/internal/scraper"
	"github.com/ibeckermayer/portfoliowatch/internal/store"
)

var (
	// Global flags
	configPath string
	verbose    bool
	timeout    time.Duration

	cfg    *config.Config
	logger *zap.SugaredLogger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "portfoliowatch",
	Short: "Portfolio news tracker for venture investors",
	Long: `portfoliowatch searches X for posts about each portfolio company,
scores them for relevance and sentiment, and writes per-company and
portfolio-wide reports as JSON and Excel. LinkedIn company pages supply
profile data for the workbook.

Run "portfoliowatch login x" once before the first collection.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(configPath)
		if err != nil {
			return err
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		if err := logging.Init(level, cfg.Logging.Format); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = logging.Named("cli")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Hour, "Operation timeout")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(analyzeCachedCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(companiesCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(botTestCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads path, or the default location when path is empty. A
// missing default config is created on first run.
func loadConfig(path string) (*config.Config, error) {
	var (
		c   *config.Config
		err error
	)
	if path != "" {
		c, err = config.LoadFile(path)
	} else {
		c, err = config.Load()
		if os.IsNotExist(err) {
			c, err = config.Default(), nil
			if saveErr := c.Save(); saveErr != nil {
				fmt.Fprintf(os.Stderr, "warning: could not save default config: %v\n", saveErr)
			} else if p, pathErr := config.ConfigPath(); pathErr == nil {
				fmt.Fprintf(os.Stderr, "created default config at %s\n", p)
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// buildApp wires the collectors, cache, notifier and briefer. Email and
// briefing are skipped with a warning when they are not configured.
func buildApp(c *config.Config) (*app.App, error) {
	cache, err := store.DefaultCache()
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	xAuth, err := auth.NewDefaultManager(auth.X)
	if err != nil {
		return nil, err
	}
	liAuth, err := auth.NewDefaultManager(auth.LinkedIn)
	if err != nil {
		return nil, err
	}

	delay := time.Duration(c.Scraping.DelayBetweenCompanies) * time.Second
	deps := app.Deps{
		XAuth:        xAuth,
		LinkedInAuth: liAuth,
		Posts:        scraper.New(c.Scraping.Headless),
		Profiles:     linkedin.New(c.Scraping.Headless, delay),
		Cache:        cache,
	}

	if c.Digest.SendEmail {
		n, err := notifier.NewFromConfig(c.Email)
		if err != nil {
			logger.Warnw("email disabled", "error", err)
		} else {
			deps.Notifier = n
		}
	}

	b, err := briefing.New(c.Briefing, cache)
	switch {
	case errors.Is(err, briefing.ErrDisabled):
		logger.Debug("briefing disabled")
	case err != nil:
		logger.Warnw("briefing disabled", "error", err)
	default:
		deps.Briefer = b
	}

	metrics.Init()
	return app.New(c, deps)
}
