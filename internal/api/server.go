package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ibeckermayer/portfoliowatch/internal/logging"
	"github.com/ibeckermayer/portfoliowatch/internal/metrics"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(requestLogger(logging.Named("http")))
	r.Use(gin.Recovery())

	// CORS for dashboards served from elsewhere
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler)

	return r
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler) {
	r.GET("/health", handler.HealthCheck)
	r.GET("/companies", handler.ListCompanies)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api/v1")
	{
		api.GET("/portfolio", handler.GetPortfolio)
		api.GET("/companies/:name", handler.GetCompany)
		api.POST("/runs", handler.TriggerRun)
		api.GET("/runs/latest", handler.GetLatestRun)
		api.POST("/score", handler.ScorePosts)
		api.GET("/export/:format", handler.DownloadExport)
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     "portfoliowatch",
			"description": "Social media monitoring for venture portfolio companies",
			"endpoints": map[string]string{
				"health":    "/health",
				"companies": "/companies",
				"metrics":   "/metrics",
				"portfolio": "/api/v1/portfolio",
				"company":   "/api/v1/companies/:name",
				"runs":      "/api/v1/runs (POST)",
				"latest":    "/api/v1/runs/latest",
				"score":     "/api/v1/score (POST)",
				"export":    "/api/v1/export/:format (json|xlsx)",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

// requestLogger logs each request and records it in the HTTP metrics
func requestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), latency)

		log.Infow("request",
			"client", c.ClientIP(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", latency,
			"error", c.Errors.ByType(gin.ErrorTypePrivate).String(),
		)
	}
}

// ServerConfig holds server configuration options
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig(addr string) *ServerConfig {
	return &ServerConfig{
		Addr:         addr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// HTTPServer wraps the engine in a net/http server
func HTTPServer(cfg *ServerConfig, engine *gin.Engine) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
