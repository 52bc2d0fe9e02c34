package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/chromedp/chromedp"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	browseropts "github.com/ibeckermayer/portfoliowatch/internal/browser"
	"github.com/ibeckermayer/portfoliowatch/internal/config"
)

const botTestURL = "https://bot.sannysoft.com"

// openCmd opens local files in the desktop's default handler
var openCmd = &cobra.Command{
	Use:       "open config|cache|exports|digest",
	Short:     "Open the config file, a data directory or the last digest",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"config", "cache", "exports", "digest"},
	RunE:      runOpen,
}

// botTestCmd audits the browser fingerprint used for scraping
var botTestCmd = &cobra.Command{
	Use:   "bot-test",
	Short: "Open bot.sannysoft.com with the scraping browser options",
	Long: `Opens a visible browser with the same stealth options the scrapers
use, pointed at a bot-detection audit page. Press Enter to close it.`,
	Args: cobra.NoArgs,
	RunE: runBotTest,
}

// openPath resolves an open target to a filesystem path
func openPath(target string) (string, error) {
	switch target {
	case "config":
		if configPath != "" {
			return configPath, nil
		}
		return config.ConfigPath()
	case "cache":
		return config.CacheDir()
	case "exports":
		dir, err := cfg.ExportDir()
		if err != nil {
			return "", err
		}
		return dir, os.MkdirAll(dir, 0755)
	}
	return "", fmt.Errorf("unknown target: %s", target)
}

func runOpen(cmd *cobra.Command, args []string) error {
	if args[0] == "digest" {
		a, err := buildApp(cfg)
		if err != nil {
			return err
		}
		return a.ViewLastDigest()
	}

	path, err := openPath(args[0])
	if err != nil {
		return fmt.Errorf("failed to get path: %w", err)
	}

	logger.Debugw("opening", "path", path)
	if err := browser.OpenFile(path); err != nil {
		return fmt.Errorf("failed to open: %w", err)
	}
	return nil
}

func runBotTest(cmd *cobra.Command, args []string) error {
	logger.Infow("opening bot audit page with stealth browser options", "url", botTestURL)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), browseropts.Options(false)...)
	defer cancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	go func() {
		if err := chromedp.Run(ctx, chromedp.Navigate(botTestURL)); err != nil {
			logger.Errorw("failed to navigate", "error", err)
		}
	}()

	fmt.Fprintln(cmd.OutOrStdout(), "Press Enter to end program...")
	_, _ = bufio.NewReader(cmd.InOrStdin()).ReadString('\n')

	logger.Info("done")
	return nil
}
