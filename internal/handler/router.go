package handler

import (
	"net/http"
	"strings"

	"homesearch/internal/metrics"
	"homesearch/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildInfo is reported by /health and /version.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// RouterConfig holds what NewRouter needs to wire the HTTP surface.
type RouterConfig struct {
	Service        *service.SearchService
	Logger         *zap.Logger
	Build          BuildInfo
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
	MetricsEnabled bool
	MetricsPath    string
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(cfg.Logger))
	if cfg.MetricsEnabled {
		router.Use(metrics.Middleware())
	}

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(cfg.AllowedOrigins, "*")
	corsConfig.AllowMethods = splitList(cfg.AllowedMethods, "GET,POST,OPTIONS")
	corsConfig.AllowHeaders = splitList(cfg.AllowedHeaders, "Content-Type")
	router.Use(cors.New(corsConfig))

	searchHandler := NewSearchHandler(cfg.Service)
	ingestHandler := NewIngestHandler(cfg.Service)
	feedbackHandler := NewFeedbackHandler(cfg.Service)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "homesearch",
			"version":    cfg.Build.Version,
			"build_time": cfg.Build.BuildTime,
			"git_commit": cfg.Build.GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    cfg.Build.Version,
			"build_time": cfg.Build.BuildTime,
			"git_commit": cfg.Build.GitCommit,
		})
	})

	if cfg.MetricsEnabled {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, metrics.Handler())
	}

	// Listing endpoint driven by the query string
	router.GET("/api/properties", searchHandler.List)

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		// Search endpoints
		apiV1.POST("/search", searchHandler.Search)
		apiV1.POST("/search/stream", searchHandler.SearchStream)
		apiV1.GET("/translate", searchHandler.Translate)

		// Property endpoints
		apiV1.GET("/properties/:id", searchHandler.GetProperty)
		apiV1.POST("/properties/batch", ingestHandler.BatchUpsert)

		// Feedback endpoint
		apiV1.POST("/feedback", feedbackHandler.Submit)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
	})

	return router
}

func splitList(s, fallback string) []string {
	if strings.TrimSpace(s) == "" {
		s = fallback
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
