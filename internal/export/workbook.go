package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

// Fixed sheet names
const (
	SheetSummary    = "Summary"
	SheetSentiment  = "Sentiment"
	SheetCategories = "Categories"
	SheetProfiles   = "Profiles"
)

var (
	summaryHeader = []any{
		"Company", "Total Posts", "Avg Relevance", "High Importance",
		"Total Engagement", "Positive", "Negative", "Neutral", "Top Category",
	}
	postHeader = []any{
		"Relevance", "Importance", "Category", "Sentiment", "Author", "Verified",
		"Followers", "Likes", "Retweets", "Replies", "Keywords", "Summary", "Content", "URL", "Posted",
	}
	profileHeader = []any{
		"Company", "LinkedIn", "Industry", "Company Size", "Employees", "Followers",
		"Headquarters", "Founded", "Type", "Website", "Specialties", "About", "Last Updated",
	}
)

// WriteWorkbook writes the rollup and profiles as an Excel workbook: the
// summary table, the sentiment and category totals, one sheet per company
// and the LinkedIn profiles
func WriteWorkbook(path string, rollup types.PortfolioRollup, profiles []types.CompanyProfile) error {
	f := excelize.NewFile()
	defer f.Close()

	w := &workbook{f: f}
	if err := w.init(); err != nil {
		return err
	}

	w.summary(rollup.Rows)
	w.sentiment(rollup.SentimentTotals)
	w.categories(rollup.CategoryTotals)

	names := newSheetNamer(SheetSummary, SheetSentiment, SheetCategories, SheetProfiles)
	for _, r := range rollup.Reports {
		w.company(names.next(r.CompanyName), r)
	}

	w.profiles(profiles)

	if w.err != nil {
		return fmt.Errorf("failed to build workbook: %w", w.err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// workbook keeps the first error so sheet writers stay linear
type workbook struct {
	f      *excelize.File
	header int
	err    error
}

func (w *workbook) init() error {
	if err := w.f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}
	style, err := w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	w.header = style
	return nil
}

func (w *workbook) sheet(name string) {
	if w.err != nil || name == SheetSummary {
		return
	}
	_, w.err = w.f.NewSheet(name)
}

func (w *workbook) row(sheet string, n int, values []any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &values)
}

func (w *workbook) headerRow(sheet string, values []any) {
	w.row(sheet, 1, values)
	if w.err != nil {
		return
	}
	last, err := excelize.CoordinatesToCellName(len(values), 1)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(sheet, "A1", last, w.header)
}

func (w *workbook) summary(rows []types.CompanySummaryRow) {
	w.sheet(SheetSummary)
	w.headerRow(SheetSummary, summaryHeader)
	for i, r := range rows {
		w.row(SheetSummary, i+2, []any{
			r.CompanyName, r.TotalPosts, r.AverageRelevance, r.HighImportanceCount,
			r.TotalEngagement, r.PositivePosts, r.NegativePosts, r.NeutralPosts, r.TopCategory,
		})
	}
}

func (w *workbook) sentiment(totals types.SentimentCounts) {
	w.sheet(SheetSentiment)
	w.headerRow(SheetSentiment, []any{"Sentiment", "Posts"})
	w.row(SheetSentiment, 2, []any{string(types.SentimentPositive), totals.Positive})
	w.row(SheetSentiment, 3, []any{string(types.SentimentNegative), totals.Negative})
	w.row(SheetSentiment, 4, []any{string(types.SentimentNeutral), totals.Neutral})
}

func (w *workbook) categories(totals types.CategoryCounts) {
	w.sheet(SheetCategories)
	w.headerRow(SheetCategories, []any{"Category", "Posts"})
	for i, c := range totals {
		w.row(SheetCategories, i+2, []any{c.Category, c.Count})
	}
}

func (w *workbook) company(sheet string, r types.CompanyReport) {
	w.sheet(sheet)
	w.headerRow(sheet, postHeader)
	for i, sp := range r.Posts {
		p, a := sp.Post, sp.Analysis
		posted := ""
		if !p.Timestamp.IsZero() {
			posted = p.Timestamp.UTC().Format("2006-01-02 15:04")
		}
		w.row(sheet, i+2, []any{
			a.RelevanceScore, string(a.Importance), a.Category, string(a.Sentiment),
			"@" + p.AuthorHandle, p.AuthorVerified, p.AuthorFollowers,
			p.Likes, p.Retweets, p.Replies, strings.Join(a.KeywordsMatched, ", "),
			a.Summary, p.Content, p.OriginalURL, posted,
		})
	}
}

func (w *workbook) profiles(profiles []types.CompanyProfile) {
	w.sheet(SheetProfiles)
	w.headerRow(SheetProfiles, profileHeader)
	for i, p := range profiles {
		w.row(SheetProfiles, i+2, []any{
			p.Name, p.LinkedInURL, p.Industry, p.CompanySize, optional(p.EmployeeCount),
			optional(p.Followers), p.Headquarters, p.Founded, p.CompanyType, p.Website,
			strings.Join(p.Specialties, ", "), p.About, p.LastUpdated,
		})
	}
}

func optional(n *int) any {
	if n == nil {
		return ""
	}
	return *n
}
