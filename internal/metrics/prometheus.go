package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

var (
	// Pipeline runs
	Runs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfoliowatch_runs_total",
			Help: "Total number of analysis runs",
		},
		[]string{"status"}, // status: success|error
	)

	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portfoliowatch_run_duration_seconds",
			Help:    "Analysis run duration in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		},
	)

	LastRun = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfoliowatch_last_run_timestamp",
			Help: "Unix timestamp of the last completed run",
		},
	)

	// Collection
	PostsCollected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfoliowatch_posts_collected_total",
			Help: "Posts collected per company",
		},
		[]string{"company"},
	)

	CollectionErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfoliowatch_collection_errors_total",
			Help: "Failed collection attempts per source",
		},
		[]string{"source"}, // source: x|linkedin
	)

	// Scoring
	PostsScored = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfoliowatch_posts_scored_total",
			Help: "Posts scored per company and importance level",
		},
		[]string{"company", "importance"},
	)

	// HTTP API
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfoliowatch_http_requests_total",
			Help: "HTTP requests by route and status code",
		},
		[]string{"method", "route", "code"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfoliowatch_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

var initOnce sync.Once

// Init registers all metrics with the default registry. Safe to call more
// than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(Runs)
		prometheus.MustRegister(RunDuration)
		prometheus.MustRegister(LastRun)
		prometheus.MustRegister(PostsCollected)
		prometheus.MustRegister(CollectionErrors)
		prometheus.MustRegister(PostsScored)
		prometheus.MustRegister(HTTPRequests)
		prometheus.MustRegister(HTTPDuration)
	})
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	Init()
	return promhttp.Handler()
}

// RecordRun records a pipeline run
func RecordRun(duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	Runs.WithLabelValues(status).Inc()
	RunDuration.Observe(duration.Seconds())
	if err == nil {
		LastRun.SetToCurrentTime()
	}
}

// RecordCollection records the outcome of collecting one company
func RecordCollection(source, company string, posts int, err error) {
	if err != nil {
		CollectionErrors.WithLabelValues(source).Inc()
		return
	}
	PostsCollected.WithLabelValues(company).Add(float64(posts))
}

// RecordRollup counts scored posts per company and importance
func RecordRollup(rollup types.PortfolioRollup) {
	for _, r := range rollup.Reports {
		for _, sp := range r.Posts {
			PostsScored.WithLabelValues(r.CompanyName, string(sp.Analysis.Importance)).Inc()
		}
	}
}

// RecordHTTPRequest records one API request
func RecordHTTPRequest(method, route string, code int, latency time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(latency.Seconds())
}
