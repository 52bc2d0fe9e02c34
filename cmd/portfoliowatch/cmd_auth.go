package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ibeckermayer/portfoliowatch/internal/auth"
)

var usePassword bool

// loginCmd stores a site session
var loginCmd = &cobra.Command{
	Use:   "login x|linkedin",
	Short: "Log in to X or LinkedIn",
	Long: `Opens a browser window on the site's login page and stores the
session cookies once the home page loads.

With --password the LinkedIn login form is filled headlessly from
linkedin.email and linkedin.password (or PORTFOLIOWATCH_LINKEDIN_EMAIL and
PORTFOLIOWATCH_LINKEDIN_PASSWORD).`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"x", "linkedin"},
	RunE:      runLogin,
}

// logoutCmd clears a site session
var logoutCmd = &cobra.Command{
	Use:       "logout x|linkedin",
	Short:     "Forget the stored session for X or LinkedIn",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"x", "linkedin"},
	RunE:      runLogout,
}

// statusCmd reports the stored sessions
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the X and LinkedIn sessions are usable",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	loginCmd.Flags().BoolVar(&usePassword, "password", false, "Log in with configured credentials instead of a browser window")
}

func siteManager(name string) (*auth.Manager, error) {
	site, err := auth.SiteByName(name)
	if err != nil {
		return nil, err
	}
	return auth.NewDefaultManager(site)
}

func runLogin(cmd *cobra.Command, args []string) error {
	m, err := siteManager(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if usePassword {
		err = m.LoginWithPassword(ctx, cfg.LinkedIn.Email, cfg.LinkedIn.Password)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Log in to %s in the browser window...\n", m.Site().Name)
		err = m.Login(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s\n", m.Site().Name)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	m, err := siteManager(args[0])
	if err != nil {
		return err
	}
	if err := m.Logout(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged out of %s\n", m.Site().Name)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SITE\tSTATUS\tLOGGED IN\tEXPIRES")
	for _, site := range []auth.Site{auth.X, auth.LinkedIn} {
		m, err := auth.NewDefaultManager(site)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, statusRow(m.Status()))
	}
	return w.Flush()
}

func statusRow(s auth.SessionStatus) string {
	state := "ok"
	switch {
	case s.Error != "":
		state = "unreadable"
	case s.CapturedAt.IsZero():
		state = "not logged in"
	case len(s.Missing) > 0:
		state = "missing " + strings.Join(s.Missing, ",")
	case !s.Authenticated:
		state = "expired"
	}

	captured, expires := "-", "-"
	if !s.CapturedAt.IsZero() {
		captured = humanize.Time(s.CapturedAt)
		expires = humanize.Time(s.ExpiresAt)
	}
	return strings.Join([]string{s.Site, state, captured, expires}, "\t")
}
