package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

func TestInitIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}

func TestRecordRun(t *testing.T) {
	before := testutil.ToFloat64(Runs.WithLabelValues("error"))

	RecordRun(time.Second, errors.New("boom"))

	assert.Equal(t, before+1, testutil.ToFloat64(Runs.WithLabelValues("error")))
}

func TestRecordCollection(t *testing.T) {
	RecordCollection("x", "metrics-test-co", 7, nil)
	RecordCollection("x", "metrics-test-co", 3, nil)
	before := testutil.ToFloat64(CollectionErrors.WithLabelValues("linkedin"))
	RecordCollection("linkedin", "metrics-test-co", 0, errors.New("nope"))

	assert.Equal(t, 10.0, testutil.ToFloat64(PostsCollected.WithLabelValues("metrics-test-co")))
	assert.Equal(t, before+1, testutil.ToFloat64(CollectionErrors.WithLabelValues("linkedin")))
}

func TestRecordRollup(t *testing.T) {
	rollup := types.PortfolioRollup{Reports: []types.CompanyReport{{
		CompanyName: "metrics-rollup-co",
		Posts: []types.ScoredPost{
			{Analysis: types.PostAnalysis{Importance: types.ImportanceHigh}},
			{Analysis: types.PostAnalysis{Importance: types.ImportanceHigh}},
			{Analysis: types.PostAnalysis{Importance: types.ImportanceLow}},
		},
	}}}

	RecordRollup(rollup)

	assert.Equal(t, 2.0, testutil.ToFloat64(PostsScored.WithLabelValues("metrics-rollup-co", "high")))
	assert.Equal(t, 1.0, testutil.ToFloat64(PostsScored.WithLabelValues("metrics-rollup-co", "low")))
}
