package ui

import (
	"html/template"
	"net/http"

	"lottolab/app"
	"lottolab/internal"
	"lottolab/internal/config"

	"github.com/gin-gonic/gin"
)

// Services are the application services the dashboard reads from
type Services struct {
	Analysis        *app.AnalysisService
	Statistics      *app.StatisticsService
	Recommendations *app.RecommendationService
	Ingest          *app.IngestService
	Caches          *app.Caches
}

// Server represents the web server for the lottolab dashboard
type Server struct {
	router    *gin.Engine
	services  Services
	defaults  config.AnalysisConfig
	templates *template.Template
	logger    *internal.Logger
}

// NewServer creates a dashboard server. defaults supply the query
// parameters a request leaves out.
func NewServer(services Services, defaults config.AnalysisConfig) (*Server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	s := &Server{
		router:    gin.New(),
		services:  services,
		defaults:  defaults,
		templates: templates,
		logger:    internal.DefaultLogger.WithComponent("UI"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/fairness", s.handleFairness)
	api.GET("/fairness/report.md", s.handleFairnessMarkdown)
	api.GET("/frequency", s.handleFrequency)
	api.GET("/rolling", s.handleRolling)
	api.GET("/features", s.handleFeatures)
	api.GET("/recommendations", s.handleRecommendations)
	api.POST("/draws", s.handleAddDraws)
	api.GET("/draws/:no", s.handleDraw)
	api.GET("/cache", s.handleCacheStats)
}

// Handler exposes the router for an http.Server or tests
func (s *Server) Handler() http.Handler {
	return s.router
}
