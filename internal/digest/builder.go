package digest

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

// ErrEmptyRollup is returned when there is nothing to put in a digest
var ErrEmptyRollup = errors.New("no companies to include in digest")

// Builder creates portfolio digests from a rollup
type Builder struct {
	maxPosts int
	template *template.Template
	now      func() time.Time
}

// New creates a new digest builder that lists at most maxPosts posts per
// company
func New(maxPosts int) (*Builder, error) {
	tmpl, err := template.New("digest").Parse(defaultTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	return &Builder{
		maxPosts: maxPosts,
		template: tmpl,
		now:      time.Now,
	}, nil
}

// Digest represents a compiled digest ready for sending
type Digest struct {
	Subject   string    `json:"subject"`
	HTMLBody  string    `json:"html_body"`
	PlainBody string    `json:"plain_body"`
	Companies []string  `json:"companies"`
	CreatedAt time.Time `json:"created_at"`
}

// DigestData is the template data structure
type DigestData struct {
	Title     string
	Date      string
	Briefing  string
	Totals    TotalsData
	Companies []CompanyData
	Quiet     []string
}

// TotalsData holds portfolio-wide numbers
type TotalsData struct {
	Companies   int
	Posts       string
	Positive    int
	Negative    int
	Neutral     int
	TopCategory string
}

// CompanyData is one company section
type CompanyData struct {
	Name           string
	TotalPosts     int
	AvgRelevance   float64
	HighImportance int
	Engagement     string
	TopCategory    string
	Sentiment      types.SentimentCounts
	Posts          []PostData
}

// PostData represents a post in the digest template
type PostData struct {
	AuthorHandle string
	AuthorName   string
	Followers    string
	Content      string
	Summary      string
	Category     string
	Importance   string
	Keywords     []string
	Engagement   string
	Posted       string
	URL          string
	Score        float64
}

// Build creates a digest from a rollup. briefing is an optional narrative
// shown above the company sections.
func (b *Builder) Build(rollup types.PortfolioRollup, briefing string) (*Digest, error) {
	if len(rollup.Reports) == 0 {
		return nil, ErrEmptyRollup
	}

	now := b.now()
	data := DigestData{
		Title:    "Portfolio Digest",
		Date:     now.Format("Monday, January 2"),
		Briefing: strings.TrimSpace(briefing),
		Totals: TotalsData{
			Companies: len(rollup.Reports),
			Positive:  rollup.SentimentTotals.Positive,
			Negative:  rollup.SentimentTotals.Negative,
			Neutral:   rollup.SentimentTotals.Neutral,
		},
	}
	if top, ok := rollup.CategoryTotals.Top(); ok {
		data.Totals.TopCategory = top
	}

	totalPosts := 0
	names := make([]string, 0, len(rollup.Rows))
	for i, row := range rollup.Rows {
		names = append(names, row.CompanyName)
		totalPosts += row.TotalPosts
		if row.TotalPosts == 0 {
			data.Quiet = append(data.Quiet, row.CompanyName)
			continue
		}

		report := rollup.Reports[i]
		c := CompanyData{
			Name:           row.CompanyName,
			TotalPosts:     row.TotalPosts,
			AvgRelevance:   row.AverageRelevance,
			HighImportance: row.HighImportanceCount,
			Engagement:     humanize.Comma(int64(row.TotalEngagement)),
			TopCategory:    row.TopCategory,
			Sentiment:      report.SentimentBreakdown,
		}

		posts := report.Posts
		if len(posts) > b.maxPosts {
			posts = posts[:b.maxPosts]
		}
		for _, sp := range posts {
			c.Posts = append(c.Posts, b.postData(sp, now))
		}
		data.Companies = append(data.Companies, c)
	}
	data.Totals.Posts = humanize.Comma(int64(totalPosts))

	var htmlBuf bytes.Buffer
	if err := b.template.Execute(&htmlBuf, data); err != nil {
		return nil, fmt.Errorf("failed to render template: %w", err)
	}

	return &Digest{
		Subject:   fmt.Sprintf("Portfolio Digest - %s posts across %d companies, %s", data.Totals.Posts, len(rollup.Reports), now.Format("Jan 2")),
		HTMLBody:  htmlBuf.String(),
		PlainBody: buildPlainText(data),
		Companies: names,
		CreatedAt: now,
	}, nil
}

func (b *Builder) postData(sp types.ScoredPost, now time.Time) PostData {
	p, a := sp.Post, sp.Analysis
	posted := ""
	if !p.Timestamp.IsZero() {
		posted = humanize.RelTime(p.Timestamp, now, "ago", "from now")
	}
	return PostData{
		AuthorHandle: p.AuthorHandle,
		AuthorName:   p.AuthorName,
		Followers:    humanize.Comma(int64(p.AuthorFollowers)),
		Content:      truncate(p.Content, 280),
		Summary:      a.Summary,
		Category:     a.Category,
		Importance:   string(a.Importance),
		Keywords:     a.KeywordsMatched,
		Engagement:   humanize.Comma(int64(p.Engagement())),
		Posted:       posted,
		URL:          p.OriginalURL,
		Score:        a.RelevanceScore,
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func buildPlainText(data DigestData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n%s\n\n", data.Title, data.Date)
	fmt.Fprintf(&buf, "%s posts across %d companies (%d positive, %d negative, %d neutral)\n\n",
		data.Totals.Posts, data.Totals.Companies, data.Totals.Positive, data.Totals.Negative, data.Totals.Neutral)

	if data.Briefing != "" {
		fmt.Fprintf(&buf, "%s\n\n", data.Briefing)
	}

	for _, c := range data.Companies {
		fmt.Fprintf(&buf, "== %s ==\n", c.Name)
		fmt.Fprintf(&buf, "%d posts, avg relevance %.2f, %d high importance, %s engagement, mostly %s\n",
			c.TotalPosts, c.AvgRelevance, c.HighImportance, c.Engagement, c.TopCategory)
		for i, p := range c.Posts {
			fmt.Fprintf(&buf, "%d. [%.2f] %s\n", i+1, p.Score, p.Summary)
			if p.URL != "" {
				fmt.Fprintf(&buf, "   %s\n", p.URL)
			}
		}
		buf.WriteString("\n")
	}

	if len(data.Quiet) > 0 {
		fmt.Fprintf(&buf, "No mentions: %s\n", strings.Join(data.Quiet, ", "))
	}

	return buf.String()
}

const defaultTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 680px; margin: 0 auto; padding: 20px; background: #f5f5f5; }
        .container { background: white; border-radius: 8px; padding: 20px; }
        h1 { color: #0a66c2; margin-bottom: 5px; }
        h2 { color: #333; margin: 25px 0 5px; font-size: 18px; }
        .date { color: #666; margin-bottom: 20px; }
        .totals, .stats { color: #444; font-size: 14px; }
        .briefing { background: #eef3f8; border-radius: 6px; padding: 12px; margin: 15px 0; line-height: 1.4; white-space: pre-line; }
        .post { border-bottom: 1px solid #eee; padding: 12px 0; }
        .post:last-child { border-bottom: none; }
        .author { font-weight: bold; color: #333; }
        .handle, .meta { color: #666; font-size: 13px; }
        .content { margin: 8px 0; line-height: 1.4; }
        .summary { color: #0a66c2; font-style: italic; margin: 6px 0; }
        .badge { padding: 2px 8px; border-radius: 12px; font-size: 12px; margin-right: 5px; background: #e8f0fa; color: #0a66c2; }
        .badge.high { background: #fdecea; color: #b3261e; }
        .link { color: #0a66c2; text-decoration: none; }
        .quiet { color: #999; font-size: 13px; margin-top: 20px; }
        .footer { margin-top: 20px; padding-top: 15px; border-top: 1px solid #eee; color: #999; font-size: 12px; text-align: center; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Title}}</h1>
        <div class="date">{{.Date}}</div>
        <div class="totals">
            {{.Totals.Posts}} posts across {{.Totals.Companies}} companies ·
            {{.Totals.Positive}} positive · {{.Totals.Negative}} negative · {{.Totals.Neutral}} neutral
            {{if .Totals.TopCategory}}· mostly {{.Totals.TopCategory}}{{end}}
        </div>

        {{if .Briefing}}<div class="briefing">{{.Briefing}}</div>{{end}}

        {{range .Companies}}
        <h2>{{.Name}}</h2>
        <div class="stats">
            {{.TotalPosts}} posts · avg relevance {{printf "%.2f" .AvgRelevance}} · {{.HighImportance}} high importance ·
            {{.Engagement}} engagement · {{.Sentiment.Positive}}/{{.Sentiment.Negative}}/{{.Sentiment.Neutral}} pos/neg/neu
        </div>
        {{range .Posts}}
        <div class="post">
            <div class="author">{{.AuthorName}} <span class="handle">@{{.AuthorHandle}} · {{.Followers}} followers</span></div>
            <div class="content">{{.Content}}</div>
            <div class="summary">{{.Summary}}</div>
            <div>
                <span class="badge {{.Importance}}">{{.Importance}}</span><span class="badge">{{.Category}}</span>
                {{range .Keywords}}<span class="badge">{{.}}</span>{{end}}
            </div>
            <div class="meta">score {{printf "%.2f" .Score}} · {{.Engagement}} engagement{{if .Posted}} · {{.Posted}}{{end}}</div>
            {{if .URL}}<a href="{{.URL}}" class="link">View on X →</a>{{end}}
        </div>
        {{end}}
        {{end}}

        {{if .Quiet}}<div class="quiet">No mentions: {{range $i, $c := .Quiet}}{{if $i}}, {{end}}{{$c}}{{end}}</div>{{end}}

        <div class="footer">
            Generated by portfoliowatch
        </div>
    </div>
</body>
</html>`
