package analyzer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

// NoCategory is the top category of a company without posts
const NoCategory = "none"

// Rollup folds company reports into portfolio-wide tables. Output rows
// follow the order of reports.
func Rollup(reports []types.CompanyReport) types.PortfolioRollup {
	rollup := types.PortfolioRollup{
		Reports:        reports,
		Rows:           make([]types.CompanySummaryRow, 0, len(reports)),
		CategoryTotals: types.CategoryCounts{},
	}

	for _, r := range reports {
		top, ok := r.CategoryBreakdown.Top()
		if !ok {
			top = NoCategory
		}

		rollup.Rows = append(rollup.Rows, types.CompanySummaryRow{
			CompanyName:         r.CompanyName,
			TotalPosts:          r.TotalPosts,
			AverageRelevance:    r.SummaryStats.AverageRelevance,
			HighImportanceCount: r.SummaryStats.HighImportanceCount,
			TotalEngagement:     r.SummaryStats.TotalEngagement,
			PositivePosts:       r.SentimentBreakdown.Positive,
			NegativePosts:       r.SentimentBreakdown.Negative,
			NeutralPosts:        r.SentimentBreakdown.Neutral,
			TopCategory:         top,
		})

		rollup.SentimentTotals.Merge(r.SentimentBreakdown)
		rollup.CategoryTotals.Merge(r.CategoryBreakdown)
	}

	return rollup
}

// CompanyPosts is the raw collection for one company
type CompanyPosts struct {
	Company string       `json:"company"`
	Posts   []types.Post `json:"posts"`
}

// AnalyzePortfolio aggregates every company concurrently and rolls the
// reports up in input order. Companies share no state, so the only
// failure is context cancellation.
func (s *Scorer) AnalyzePortfolio(ctx context.Context, batches []CompanyPosts) (types.PortfolioRollup, error) {
	reports := make([]types.CompanyReport, len(batches))

	g, ctx := errgroup.WithContext(ctx)
	for i, b := range batches {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("failed to aggregate %s: %w", b.Company, err)
			}
			reports[i] = s.Aggregate(b.Company, b.Posts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return types.PortfolioRollup{}, err
	}

	return Rollup(reports), nil
}
