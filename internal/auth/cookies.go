package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/network"

	"github.com/ibeckermayer/portfoliowatch/internal/config"
)

// CookieStore persists one site's session cookies
type CookieStore struct {
	site Site
	path string
	now  func() time.Time
}

// StoredCookies represents the persisted cookie data
type StoredCookies struct {
	Site       string            `json:"site"`
	Cookies    []*network.Cookie `json:"cookies"`
	CapturedAt time.Time         `json:"captured_at"`
	ExpiresAt  time.Time         `json:"expires_at"`
}

// NewCookieStore creates a cookie store for site at the given path
func NewCookieStore(site Site, path string) *CookieStore {
	return &CookieStore{site: site, path: path, now: time.Now}
}

// DefaultCookieStorePath returns the default path for a site's cookies
func DefaultCookieStorePath(site Site) (string, error) {
	configDir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "cookies_"+site.Name+".json"), nil
}

// Site returns the site this store belongs to
func (cs *CookieStore) Site() Site {
	return cs.site
}

// Save persists cookies to disk
func (cs *CookieStore) Save(cookies []*network.Cookie) error {
	if err := os.MkdirAll(filepath.Dir(cs.path), 0700); err != nil {
		return err
	}

	// the session ends when the first required cookie does
	var earliestExpiry time.Time
	for _, c := range cookies {
		if cs.site.isRequired(c.Name) {
			exp := time.Unix(int64(c.Expires), 0)
			if earliestExpiry.IsZero() || exp.Before(earliestExpiry) {
				earliestExpiry = exp
			}
		}
	}

	stored := StoredCookies{
		Site:       cs.site.Name,
		Cookies:    cookies,
		CapturedAt: cs.now(),
		ExpiresAt:  earliestExpiry,
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(cs.path, data, 0600)
}

// Load retrieves cookies from disk
func (cs *CookieStore) Load() (*StoredCookies, error) {
	data, err := os.ReadFile(cs.path)
	if err != nil {
		return nil, err
	}

	var stored StoredCookies
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}

	return &stored, nil
}

// IsValid checks that every required cookie is present and unexpired
func (cs *CookieStore) IsValid() bool {
	return cs.Status().Authenticated
}

// SessionStatus summarizes a stored session
type SessionStatus struct {
	Site          string    `json:"site"`
	Authenticated bool      `json:"authenticated"`
	Missing       []string  `json:"missing,omitempty"`
	CapturedAt    time.Time `json:"captured_at,omitempty"`
	ExpiresAt     time.Time `json:"expires_at,omitempty"`
	// Error is set when a cookie file exists but cannot be read
	Error string `json:"error,omitempty"`
}

// Status reports which required cookies are absent and when the session
// lapses. A store with nothing on disk lists every required cookie; an
// unreadable file sets Error instead.
func (cs *CookieStore) Status() SessionStatus {
	status := SessionStatus{Site: cs.site.Name}

	stored, err := cs.Load()
	if os.IsNotExist(err) {
		status.Missing = append(status.Missing, cs.site.RequiredCookies...)
		return status
	}
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.CapturedAt = stored.CapturedAt
	status.ExpiresAt = stored.ExpiresAt

	have := make(map[string]bool)
	for _, c := range stored.Cookies {
		if c.Value != "" {
			have[c.Name] = true
		}
	}
	for _, name := range cs.site.RequiredCookies {
		if !have[name] {
			status.Missing = append(status.Missing, name)
		}
	}

	status.Authenticated = len(status.Missing) == 0 && cs.now().Before(stored.ExpiresAt)
	return status
}

// Clear removes stored cookies
func (cs *CookieStore) Clear() error {
	err := os.Remove(cs.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// SiteCookies returns only the cookies scoped to the store's site
func (cs *CookieStore) SiteCookies() ([]*network.Cookie, error) {
	stored, err := cs.Load()
	if err != nil {
		return nil, err
	}

	var out []*network.Cookie
	for _, c := range stored.Cookies {
		if cs.site.ownsDomain(c.Domain) {
			out = append(out, c)
		}
	}

	return out, nil
}
