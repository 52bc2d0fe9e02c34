package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ibeckermayer/portfoliowatch/internal/analyzer"
	"github.com/ibeckermayer/portfoliowatch/internal/app"
	"github.com/ibeckermayer/portfoliowatch/internal/config"
	"github.com/ibeckermayer/portfoliowatch/internal/export"
	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

// Service is the part of the application the API exposes
type Service interface {
	Config() *config.Config
	Latest() (*app.RunResult, bool)
	LatestRollup() (types.PortfolioRollup, error)
	Start(companyNames []string) (string, error)
	Running() bool
	Score(company string, posts []types.Post) (types.CompanyReport, error)
}

var _ Service = (*app.App)(nil)

// Handler handles HTTP requests for the portfolio API
type Handler struct {
	svc Service
}

// NewHandler creates a new API handler
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// RunRequest is the body of POST /api/v1/runs
type RunRequest struct {
	Companies []string `json:"companies"`
}

// ScoreRequest is the body of POST /api/v1/score
type ScoreRequest struct {
	Company string       `json:"company"`
	Posts   []types.Post `json:"posts"`
}

func errorJSON(c *gin.Context, code int, err error) {
	_ = c.Error(err)
	c.JSON(code, gin.H{"error": err.Error()})
}

// HealthCheck reports liveness and whether a run is active
func (h *Handler) HealthCheck(c *gin.Context) {
	body := gin.H{
		"status":  "ok",
		"running": h.svc.Running(),
	}
	if r, ok := h.svc.Latest(); ok {
		body["last_run"] = gin.H{"id": r.ID, "finished_at": r.FinishedAt}
	}
	c.JSON(http.StatusOK, body)
}

// ListCompanies returns the roster
func (h *Handler) ListCompanies(c *gin.Context) {
	companies := h.svc.Config().Portfolio
	c.JSON(http.StatusOK, gin.H{
		"count":     len(companies),
		"companies": companies,
	})
}

// GetPortfolio returns the latest rollup
func (h *Handler) GetPortfolio(c *gin.Context) {
	rollup, err := h.svc.LatestRollup()
	if err != nil {
		errorJSON(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, rollup)
}

// GetCompany returns the latest report for one company
func (h *Handler) GetCompany(c *gin.Context) {
	company, err := h.svc.Config().Company(c.Param("name"))
	if err != nil {
		errorJSON(c, http.StatusNotFound, err)
		return
	}

	rollup, err := h.svc.LatestRollup()
	if err != nil {
		errorJSON(c, http.StatusNotFound, err)
		return
	}

	report, ok := rollup.Report(company.Name)
	if !ok {
		errorJSON(c, http.StatusNotFound, errors.New("company not in latest run"))
		return
	}
	c.JSON(http.StatusOK, report)
}

// TriggerRun starts a background run
func (h *Handler) TriggerRun(c *gin.Context) {
	var req RunRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			errorJSON(c, http.StatusBadRequest, err)
			return
		}
	}

	id, err := h.svc.Start(req.Companies)
	switch {
	case errors.Is(err, app.ErrRunInProgress):
		errorJSON(c, http.StatusConflict, err)
		return
	case errors.Is(err, config.ErrUnknownCompany):
		errorJSON(c, http.StatusBadRequest, err)
		return
	case err != nil:
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"run_id": id, "status": "started"})
}

// GetLatestRun returns metadata of the last completed run
func (h *Handler) GetLatestRun(c *gin.Context) {
	r, ok := h.svc.Latest()
	if !ok {
		errorJSON(c, http.StatusNotFound, app.ErrNoRun)
		return
	}
	c.JSON(http.StatusOK, r)
}

// ScorePosts scores caller-supplied posts for one company
func (h *Handler) ScorePosts(c *gin.Context) {
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Company) == "" {
		errorJSON(c, http.StatusBadRequest, errors.New("company is required"))
		return
	}

	report, err := h.svc.Score(req.Company, req.Posts)
	if errors.Is(err, analyzer.ErrInvalidPost) {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// DownloadExport serves the most recent export in the requested format
func (h *Handler) DownloadExport(c *gin.Context) {
	format := c.Param("format")
	if format != export.FormatJSON && format != export.FormatExcel {
		errorJSON(c, http.StatusBadRequest, errors.New("format must be json or xlsx"))
		return
	}

	path := ""
	if r, ok := h.svc.Latest(); ok {
		path = r.Exports[format]
	}
	if path == "" {
		dir, err := h.svc.Config().ExportDir()
		if err == nil {
			path = latestExport(dir, format)
		}
	}
	if path == "" {
		errorJSON(c, http.StatusNotFound, errors.New("no export available"))
		return
	}
	if _, err := os.Stat(path); err != nil {
		errorJSON(c, http.StatusNotFound, err)
		return
	}

	c.FileAttachment(path, filepath.Base(path))
}

// latestExport finds the newest export file of a format in dir
func latestExport(dir, format string) string {
	matches, err := filepath.Glob(filepath.Join(dir, "portfolio-analysis-*."+format))
	if err != nil || len(matches) == 0 {
		return ""
	}
	// names start with the generation time
	sort.Strings(matches)
	return matches[len(matches)-1]
}
