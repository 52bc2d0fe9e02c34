package linkedin

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

var (
	firstNumber     = regexp.MustCompile(`\d+`)
	followerPattern = regexp.MustCompile(`(?i)([\d,]+)\s+followers`)
	whitespace      = regexp.MustCompile(`\s+`)
)

// ParseEmployeeCount takes the lower bound of a size band such as
// "51-200 employees". Nil when the text has no number.
func ParseEmployeeCount(size string) *int {
	m := firstNumber.FindString(strings.ReplaceAll(size, ",", ""))
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &n
}

// ParseProfile extracts a company profile from a rendered "about" page
func ParseProfile(html, linkedInURL string, now time.Time) (*types.CompanyProfile, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile html: %w", err)
	}

	p := &types.CompanyProfile{
		Name:        clean(doc.Find("h1").First().Text()),
		LinkedInURL: linkedInURL,
		LastUpdated: now.Format("2006-01-02 15:04:05"),
	}

	p.About = clean(doc.Find("section.org-about-module p, p.break-words").First().Text())
	if p.About == "" {
		p.About = strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	}

	doc.Find("dl dt").Each(func(_ int, dt *goquery.Selection) {
		dd := dt.NextFiltered("dd")
		value := clean(dd.Text())
		switch strings.ToLower(clean(dt.Text())) {
		case "website":
			if href, ok := dd.Find("a").Attr("href"); ok {
				value = href
			}
			p.Website = value
		case "industry":
			p.Industry = value
		case "company size":
			p.CompanySize = value
		case "headquarters":
			p.Headquarters = value
		case "type":
			p.CompanyType = value
		case "founded":
			p.Founded = value
		case "specialties":
			p.Specialties = splitSpecialties(value)
		}
	})
	p.EmployeeCount = ParseEmployeeCount(p.CompanySize)

	if m := followerPattern.FindStringSubmatch(doc.Find("body").Text()); m != nil {
		if n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
			p.Followers = &n
		}
	}

	if src, ok := doc.Find(`img[class*="logo"]`).First().Attr("src"); ok {
		p.LogoURL = src
	}

	return p, nil
}

func clean(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func splitSpecialties(s string) []string {
	s = strings.ReplaceAll(s, " and ", ", ")
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
