package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cookie(name, domain string, expires time.Time) *network.Cookie {
	return &network.Cookie{
		Name:         name,
		Value:        "v-" + name,
		Domain:       domain,
		Expires:      float64(expires.Unix()),
		Priority:     network.CookiePriorityMedium,
		SourceScheme: network.CookieSourceSchemeSecure,
	}
}

func newStore(t *testing.T, site Site, now time.Time) *CookieStore {
	t.Helper()
	cs := NewCookieStore(site, filepath.Join(t.TempDir(), "cookies.json"))
	cs.now = func() time.Time { return now }
	return cs
}

func TestCookieStore_ExpiryIsEarliestRequiredCookie(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cs := newStore(t, X, now)

	require.NoError(t, cs.Save([]*network.Cookie{
		cookie("auth_token", ".x.com", now.Add(48*time.Hour)),
		cookie("ct0", ".x.com", now.Add(24*time.Hour)),
		cookie("guest_id", ".x.com", now.Add(time.Hour)),
	}))

	stored, err := cs.Load()
	require.NoError(t, err)
	assert.Equal(t, "x", stored.Site)
	assert.Equal(t, now.Add(24*time.Hour).Unix(), stored.ExpiresAt.Unix())
	assert.True(t, cs.IsValid())

	cs.now = func() time.Time { return now.Add(25 * time.Hour) }
	assert.False(t, cs.IsValid())
}

func TestCookieStore_MissingRequiredCookie(t *testing.T) {
	now := time.Now()
	cs := newStore(t, X, now)

	require.NoError(t, cs.Save([]*network.Cookie{cookie("auth_token", ".x.com", now.Add(time.Hour))}))

	assert.False(t, cs.IsValid())
}

func TestCookieStore_LinkedInSession(t *testing.T) {
	now := time.Now()
	cs := newStore(t, LinkedIn, now)

	require.NoError(t, cs.Save([]*network.Cookie{
		cookie("li_at", ".www.linkedin.com", now.Add(time.Hour)),
		cookie("tracker", ".ads.example.com", now.Add(time.Hour)),
	}))

	assert.True(t, cs.IsValid())
	got, err := cs.SiteCookies()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "li_at", got[0].Name)
}

func TestCookieStore_Status(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cs := newStore(t, X, now)

	empty := cs.Status()
	assert.False(t, empty.Authenticated)
	assert.Equal(t, []string{"auth_token", "ct0"}, empty.Missing)
	assert.True(t, empty.CapturedAt.IsZero())

	require.NoError(t, cs.Save([]*network.Cookie{cookie("ct0", ".x.com", now.Add(time.Hour))}))
	partial := cs.Status()
	assert.False(t, partial.Authenticated)
	assert.Equal(t, []string{"auth_token"}, partial.Missing)
	assert.True(t, now.Equal(partial.CapturedAt))
	assert.Equal(t, now.Add(time.Hour).Unix(), partial.ExpiresAt.Unix())
}

func TestCookieStore_StatusUnreadableFile(t *testing.T) {
	cs := newStore(t, X, time.Now())
	require.NoError(t, os.WriteFile(cs.path, []byte("{not json"), 0600))

	status := cs.Status()
	assert.False(t, status.Authenticated)
	assert.NotEmpty(t, status.Error)
	assert.Empty(t, status.Missing)
	assert.False(t, cs.IsValid())
}

func TestCookieStore_ClearIsIdempotent(t *testing.T) {
	cs := newStore(t, X, time.Now())

	assert.NoError(t, cs.Clear())
	assert.False(t, cs.IsValid())
}

func TestSiteByName(t *testing.T) {
	s, err := SiteByName("LinkedIn")
	require.NoError(t, err)
	assert.Equal(t, LinkedIn.Name, s.Name)

	s, err = SiteByName("twitter")
	require.NoError(t, err)
	assert.Equal(t, X.Name, s.Name)

	_, err = SiteByName("facebook")
	assert.Error(t, err)
}

func TestSite_IsHome(t *testing.T) {
	assert.True(t, X.isHome("https://x.com/home"))
	assert.True(t, LinkedIn.isHome("https://www.linkedin.com/feed/?trk=login"))
	assert.False(t, LinkedIn.isHome("https://www.linkedin.com/login"))
}
