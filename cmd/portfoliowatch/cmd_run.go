package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ibeckermayer/portfoliowatch/internal/app"
	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

// runCmd collects and scores posts once
var runCmd = &cobra.Command{
	Use:   "run [companies...]",
	Short: "Collect, score and export once",
	Long: `Searches X for each company, scores every post and writes the
exports. With no arguments the whole portfolio is processed.

Examples:
  portfoliowatch run
  portfoliowatch run Wayve "Modern Health"`,
	RunE: runOnce,
}

// analyzeCachedCmd re-scores the last collection
var analyzeCachedCmd = &cobra.Command{
	Use:   "analyze-cached",
	Short: "Re-score the most recently collected posts",
	Long: `Loads the last cached collection, scores it with the current
taxonomy and rewrites the exports. Nothing is fetched and no email is sent.`,
	Args: cobra.NoArgs,
	RunE: runAnalyzeCached,
}

// profilesCmd collects LinkedIn profiles
var profilesCmd = &cobra.Command{
	Use:   "profiles [companies...]",
	Short: "Collect LinkedIn company profiles",
	Long: `Visits the LinkedIn about page of each company and caches the
profile. The next export includes the cached profiles.`,
	RunE: runProfiles,
}

// companiesCmd lists the roster
var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List portfolio companies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tX HANDLE\tLINKEDIN")
		for _, c := range cfg.Portfolio {
			handle := c.TwitterHandle
			if handle != "" {
				handle = "@" + handle
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, handle, c.LinkedInURL)
		}
		return w.Flush()
	},
}

// signalContext is canceled on SIGINT/SIGTERM or after the global timeout
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	return ctx, func() {
		stop()
		cancel()
	}
}

func runOnce(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := a.Run(ctx, args)
	if err != nil {
		return err
	}

	printResult(cmd.OutOrStdout(), result)
	return nil
}

func runAnalyzeCached(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := a.AnalyzeCached(ctx)
	if err != nil {
		return err
	}

	printResult(cmd.OutOrStdout(), result)
	return nil
}

func runProfiles(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	profiles, err := a.Profiles(ctx, args)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COMPANY\tINDUSTRY\tSIZE\tFOLLOWERS")
	for _, p := range profiles {
		followers := "-"
		if p.Followers != nil {
			followers = humanize.Comma(int64(*p.Followers))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.Industry, p.CompanySize, followers)
	}
	return w.Flush()
}

// printResult writes the rollup table followed by the export paths
func printResult(out io.Writer, result *app.RunResult) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COMPANY\tPOSTS\tAVG\tHIGH\tENGAGEMENT\t+/-/=\tTOP CATEGORY")
	for _, row := range result.Rollup.Rows {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%d\t%s\t%d/%d/%d\t%s\n",
			row.CompanyName, row.TotalPosts, row.AverageRelevance, row.HighImportanceCount,
			humanize.Comma(int64(row.TotalEngagement)),
			row.PositivePosts, row.NegativePosts, row.NeutralPosts, row.TopCategory)
	}
	w.Flush()

	fmt.Fprintf(out, "\n%s\n", sentimentLine(result.Rollup.SentimentTotals))

	if len(result.Failed) > 0 {
		fmt.Fprintf(out, "failed: %v\n", result.Failed)
	}

	formats := make([]string, 0, len(result.Exports))
	for f := range result.Exports {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	for _, f := range formats {
		fmt.Fprintf(out, "%s: %s\n", f, result.Exports[f])
	}
	if result.DigestPath != "" {
		fmt.Fprintf(out, "digest: %s\n", result.DigestPath)
	}
	if result.Briefing != "" {
		fmt.Fprintf(out, "\n%s\n", result.Briefing)
	}
}

func sentimentLine(s types.SentimentCounts) string {
	return fmt.Sprintf("sentiment: %d positive, %d negative, %d neutral", s.Positive, s.Negative, s.Neutral)
}
