package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/ibeckermayer/portfoliowatch/internal/browser"
	"github.com/ibeckermayer/portfoliowatch/internal/logging"
)

// ErrLoginTimeout is returned when the user does not finish logging in
var ErrLoginTimeout = errors.New("login timeout exceeded")

const loginWindow = 5 * time.Minute

// Manager handles authentication against one site
type Manager struct {
	cookieStore *CookieStore
	log         *zap.SugaredLogger
}

// NewManager creates a new auth manager
func NewManager(cookieStore *CookieStore) *Manager {
	return &Manager{
		cookieStore: cookieStore,
		log:         logging.Named("auth").With("site", cookieStore.site.Name),
	}
}

// Site returns the site this manager logs into
func (m *Manager) Site() Site {
	return m.cookieStore.site
}

// IsAuthenticated checks if we have valid stored credentials
func (m *Manager) IsAuthenticated() bool {
	return m.cookieStore.IsValid()
}

// Status describes the stored session without opening a browser
func (m *Manager) Status() SessionStatus {
	status := m.cookieStore.Status()
	if status.Error != "" {
		m.log.Warnw("cookie file unreadable", "site", status.Site, "error", status.Error)
	}
	return status
}

// Login opens a visible browser window for the user to log in and stores
// the session cookies once the site's home page loads
func (m *Manager) Login(ctx context.Context) error {
	site := m.cookieStore.site

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, browser.Options(false)...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	m.log.Infow("opening login page", "url", site.LoginURL)
	if err := chromedp.Run(browserCtx, chromedp.Navigate(site.LoginURL)); err != nil {
		return fmt.Errorf("failed to navigate to login page: %w", err)
	}

	if err := m.waitForLogin(browserCtx); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cookies, err := m.extractCookies(browserCtx)
	if err != nil {
		return fmt.Errorf("failed to extract cookies: %w", err)
	}

	if err := m.cookieStore.Save(cookies); err != nil {
		return fmt.Errorf("failed to save cookies: %w", err)
	}

	m.log.Infow("login complete", "cookies", len(cookies))
	return nil
}

// LoginWithPassword signs in headlessly by filling the site's login form.
// Sites that challenge the login (captcha, 2FA) need the interactive Login.
func (m *Manager) LoginWithPassword(ctx context.Context, username, password string) error {
	site := m.cookieStore.site
	if site.Form == nil {
		return fmt.Errorf("%s does not support password login", site.Name)
	}
	if username == "" || password == "" {
		return errors.New("username and password are required")
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, browser.Options(true)...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, time.Minute)
	defer cancel()

	m.log.Infow("submitting login form", "url", site.LoginURL)
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(site.LoginURL),
		chromedp.WaitVisible(site.Form.Username, chromedp.ByQuery),
		chromedp.SendKeys(site.Form.Username, username, chromedp.ByQuery),
		chromedp.SendKeys(site.Form.Password, password, chromedp.ByQuery),
		chromedp.Click(site.Form.Submit, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("failed to submit login form: %w", err)
	}

	if err := m.waitForLogin(browserCtx); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cookies, err := m.extractCookies(browserCtx)
	if err != nil {
		return fmt.Errorf("failed to extract cookies: %w", err)
	}

	return m.cookieStore.Save(cookies)
}

// waitForLogin polls until the browser lands on the site's home page with
// a session cookie set
func (m *Manager) waitForLogin(ctx context.Context) error {
	site := m.cookieStore.site
	timeout := time.After(loginWindow)
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			return ErrLoginTimeout
		case <-ticker.C:
			var url string
			if err := chromedp.Run(ctx, chromedp.Location(&url)); err != nil {
				continue
			}
			if !site.isHome(url) {
				continue
			}

			cookies, err := m.extractCookies(ctx)
			if err != nil {
				continue
			}
			for _, c := range cookies {
				if c.Name == site.RequiredCookies[0] && c.Value != "" {
					return nil
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// extractCookies gets all cookies from the browser
func (m *Manager) extractCookies(ctx context.Context) ([]*network.Cookie, error) {
	var cookies []*network.Cookie

	err := chromedp.Run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			cookies, err = storage.GetCookies().Do(ctx)
			return err
		}),
	)

	return cookies, err
}

// Logout clears stored credentials
func (m *Manager) Logout() error {
	m.log.Info("clearing stored session")
	return m.cookieStore.Clear()
}

// GetCookies returns the stored cookies for use in scraping
func (m *Manager) GetCookies() ([]*network.Cookie, error) {
	return m.cookieStore.SiteCookies()
}

// NewDefaultManager builds a manager backed by the default cookie path
func NewDefaultManager(site Site) (*Manager, error) {
	path, err := DefaultCookieStorePath(site)
	if err != nil {
		return nil, err
	}
	return NewManager(NewCookieStore(site, path)), nil
}
