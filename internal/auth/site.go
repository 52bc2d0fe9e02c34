package auth

import (
	"fmt"
	"strings"
)

// Site describes a login target and the session cookies that prove a login
type Site struct {
	Name            string
	LoginURL        string
	HomePrefixes    []string
	Domains         []string
	RequiredCookies []string
	// Form is set when the site accepts scripted username/password logins
	Form *LoginForm
}

// LoginForm holds the selectors of a site's login page
type LoginForm struct {
	Username string
	Password string
	Submit   string
}

// X is x.com; a session needs both auth_token and ct0
var X = Site{
	Name:            "x",
	LoginURL:        "https://x.com/login",
	HomePrefixes:    []string{"https://x.com/home", "https://twitter.com/home"},
	Domains:         []string{"x.com", ".x.com"},
	RequiredCookies: []string{"auth_token", "ct0"},
}

// LinkedIn is linkedin.com; li_at carries the session
var LinkedIn = Site{
	Name:            "linkedin",
	LoginURL:        "https://www.linkedin.com/login",
	HomePrefixes:    []string{"https://www.linkedin.com/feed"},
	Domains:         []string{".linkedin.com", "www.linkedin.com", ".www.linkedin.com"},
	RequiredCookies: []string{"li_at"},
	Form: &LoginForm{
		Username: `#username`,
		Password: `#password`,
		Submit:   `button[type="submit"]`,
	},
}

// SiteByName resolves "x" or "linkedin"
func SiteByName(name string) (Site, error) {
	switch strings.ToLower(name) {
	case X.Name, "twitter":
		return X, nil
	case LinkedIn.Name:
		return LinkedIn, nil
	}
	return Site{}, fmt.Errorf("unknown site %q (want x or linkedin)", name)
}

func (s Site) isRequired(cookie string) bool {
	for _, name := range s.RequiredCookies {
		if name == cookie {
			return true
		}
	}
	return false
}

func (s Site) ownsDomain(domain string) bool {
	for _, d := range s.Domains {
		if d == domain {
			return true
		}
	}
	return false
}

func (s Site) isHome(url string) bool {
	for _, p := range s.HomePrefixes {
		if strings.HasPrefix(url, p) {
			return true
		}
	}
	return false
}
