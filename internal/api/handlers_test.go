package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibeckermayer/portfoliowatch/internal/analyzer"
	"github.com/ibeckermayer/portfoliowatch/internal/app"
	"github.com/ibeckermayer/portfoliowatch/internal/config"
	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

type fakeService struct {
	cfg      *config.Config
	scorer   *analyzer.Scorer
	rollup   *types.PortfolioRollup
	latest   *app.RunResult
	startErr error
	started  [][]string
}

func (f *fakeService) Config() *config.Config { return f.cfg }

func (f *fakeService) Latest() (*app.RunResult, bool) { return f.latest, f.latest != nil }

func (f *fakeService) LatestRollup() (types.PortfolioRollup, error) {
	if f.rollup == nil {
		return types.PortfolioRollup{}, app.ErrNoRun
	}
	return *f.rollup, nil
}

func (f *fakeService) Start(names []string) (string, error) {
	if f.startErr != nil {
		return "", f.startErr
	}
	if _, err := f.cfg.Companies(names); err != nil {
		return "", err
	}
	f.started = append(f.started, names)
	return "run-1", nil
}

func (f *fakeService) Running() bool { return false }

func (f *fakeService) Score(company string, posts []types.Post) (types.CompanyReport, error) {
	for _, p := range posts {
		if err := analyzer.ValidatePost(p); err != nil {
			return types.CompanyReport{}, err
		}
	}
	return f.scorer.Aggregate(company, posts), nil
}

func newTestService(t *testing.T) *fakeService {
	t.Helper()
	cfg := config.Default()
	cfg.Portfolio = []types.Company{{Name: "Acme"}, {Name: "Modern Health"}}
	cfg.Export.OutputDir = t.TempDir()
	return &fakeService{cfg: cfg, scorer: analyzer.NewScorer(nil)}
}

func withRollup(svc *fakeService) {
	rollup := analyzer.Rollup([]types.CompanyReport{
		svc.scorer.Aggregate("Acme", []types.Post{{ID: "1", AuthorHandle: "x", Content: "acme funding"}}),
		svc.scorer.Aggregate("Modern Health", nil),
	})
	svc.rollup = &rollup
}

func do(t *testing.T, svc Service, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	NewServer(NewHandler(svc)).ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	w := do(t, newTestService(t), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","running":false}`, w.Body.String())
}

func TestListCompanies(t *testing.T) {
	w := do(t, newTestService(t), http.MethodGet, "/companies", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Count     int             `json:"count"`
		Companies []types.Company `json:"companies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "Modern Health", body.Companies[1].Name)
}

func TestGetPortfolio(t *testing.T) {
	svc := newTestService(t)

	assert.Equal(t, http.StatusNotFound, do(t, svc, http.MethodGet, "/api/v1/portfolio", nil).Code)

	withRollup(svc)
	w := do(t, svc, http.MethodGet, "/api/v1/portfolio", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rollup types.PortfolioRollup
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rollup))
	require.Len(t, rollup.Rows, 2)
	assert.Equal(t, "funding", rollup.Rows[0].TopCategory)
}

func TestGetCompany(t *testing.T) {
	svc := newTestService(t)
	withRollup(svc)

	w := do(t, svc, http.MethodGet, "/api/v1/companies/modern%20health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report types.CompanyReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "Modern Health", report.CompanyName)

	assert.Equal(t, http.StatusNotFound, do(t, svc, http.MethodGet, "/api/v1/companies/Initech", nil).Code)
}

func TestTriggerRun(t *testing.T) {
	svc := newTestService(t)

	w := do(t, svc, http.MethodPost, "/api/v1/runs", RunRequest{Companies: []string{"Acme"}})
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"run_id":"run-1","status":"started"}`, w.Body.String())

	w = do(t, svc, http.MethodPost, "/api/v1/runs", nil)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, [][]string{{"Acme"}, nil}, svc.started)

	w = do(t, svc, http.MethodPost, "/api/v1/runs", RunRequest{Companies: []string{"Initech"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.startErr = app.ErrRunInProgress
	w = do(t, svc, http.MethodPost, "/api/v1/runs", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestScorePosts(t *testing.T) {
	svc := newTestService(t)

	w := do(t, svc, http.MethodPost, "/api/v1/score", ScoreRequest{
		Company: "Acme",
		Posts:   []types.Post{{ID: "1", AuthorHandle: "techcrunch", Content: "Acme funding"}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var report types.CompanyReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 6.0, report.Posts[0].Analysis.RelevanceScore)

	w = do(t, svc, http.MethodPost, "/api/v1/score", ScoreRequest{Company: "Acme", Posts: []types.Post{{ID: "1"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid post")

	w = do(t, svc, http.MethodPost, "/api/v1/score", ScoreRequest{Posts: []types.Post{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	NewServer(NewHandler(svc)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadExport(t *testing.T) {
	svc := newTestService(t)

	assert.Equal(t, http.StatusBadRequest, do(t, svc, http.MethodGet, "/api/v1/export/csv", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, svc, http.MethodGet, "/api/v1/export/json", nil).Code)

	dir := svc.cfg.Export.OutputDir
	require.NoError(t, os.WriteFile(filepath.Join(dir, "portfolio-analysis-2025-01-01-000000.json"), []byte(`{"old":true}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "portfolio-analysis-2025-02-01-000000.json"), []byte(`{"new":true}`), 0644))

	w := do(t, svc, http.MethodGet, "/api/v1/export/json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"new":true}`, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "portfolio-analysis-2025-02-01-000000.json")
}

func TestCORSPreflight(t *testing.T) {
	w := do(t, newTestService(t), http.MethodOptions, "/api/v1/portfolio", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	svc := newTestService(t)
	do(t, svc, http.MethodGet, "/health", nil)

	w := do(t, svc, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "portfoliowatch_http_requests_total")
}
