// Package api exposes the statistics core and the report workflow over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"evalytics/domain/core"
	"evalytics/domain/evaluation"
	"evalytics/internal"
	"evalytics/internal/analytics"
	"evalytics/ports"

	"github.com/gin-gonic/gin"
)

// ReportGenerator is the report workflow the API drives
type ReportGenerator interface {
	GenerateCycleReport(ctx context.Context, cycleID core.CycleID, instrumentID core.InstrumentID) (*evaluation.Report, error)
	GetReport(ctx context.Context, reportID core.ReportID) (*evaluation.Report, error)
	ListReports(ctx context.Context, cycleID core.CycleID) ([]evaluation.ReportSummary, error)
}

// Options configures the analytics endpoints
type Options struct {
	Distributions     analytics.Distributions
	Solver            analytics.RegressionSolver
	OutlierZThreshold float64
	MaxClusters       int
}

// Server holds the gin router and the dependencies of its handlers
type Server struct {
	router  *gin.Engine
	reports ReportGenerator
	rng     ports.RNGPort
	opts    Options
	logger  *internal.Logger
}

// NewServer creates the API server and registers every route
func NewServer(reports ReportGenerator, rng ports.RNGPort, opts Options, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if opts.Distributions == nil {
		opts.Distributions = analytics.ApproximateDistributions{}
	}
	if opts.Solver == "" {
		opts.Solver = analytics.SolverGradientDescent
	}
	if opts.OutlierZThreshold <= 0 {
		opts.OutlierZThreshold = analytics.DefaultZScoreThreshold
	}
	if opts.MaxClusters < 2 {
		opts.MaxClusters = analytics.DefaultMaxClusters
	}

	s := &Server{
		router:  gin.New(),
		reports: reports,
		rng:     rng,
		opts:    opts,
		logger:  logger.Component("API"),
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	v1 := s.router.Group("/api/v1")

	a := v1.Group("/analytics")
	a.POST("/describe", s.handleDescribe)
	a.POST("/percentile", s.handlePercentile)
	a.POST("/correlation", s.handleCorrelation)
	a.POST("/correlation-matrix", s.handleCorrelationMatrix)
	a.POST("/ttest", s.handleTTest)
	a.POST("/ttest-paired", s.handleTTestPaired)
	a.POST("/anova", s.handleAnova)
	a.POST("/anova-groups", s.handleAnovaGroups)
	a.POST("/chi-square", s.handleChiSquare)
	a.POST("/equity", s.handleEquity)
	a.POST("/gini", s.handleGini)
	a.POST("/gaps", s.handleGaps)
	a.POST("/segments", s.handleSegments)
	a.POST("/segments/compare", s.handleCompareSegments)
	a.POST("/outliers/iqr", s.handleOutliersIQR)
	a.POST("/outliers/zscore", s.handleOutliersZScore)
	a.POST("/reliability", s.handleReliability)
	a.POST("/reliability/item-deleted", s.handleItemDeleted)
	a.POST("/clusters", s.handleClusters)
	a.POST("/clusters/suggest", s.handleSuggestClusters)
	a.POST("/risk", s.handleRisk)
	a.POST("/normalize", s.handleNormalize)
	a.POST("/regression", s.handleRegression)
	a.POST("/predictors", s.handlePredictors)

	v1.POST("/cycles/:cycleID/reports", s.handleGenerateReport)
	v1.GET("/cycles/:cycleID/reports", s.handleListReports)
	v1.GET("/reports/:reportID", s.handleGetReport)
}

// requestLogger logs one line per request
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			s.logger.Error("%s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
			return
		}
		s.logger.Debug("%s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}

// analyzer returns an analyzer using the configured strategies and rng
func (s *Server) analyzer(rng analytics.RandSource) *analytics.Analyzer {
	return analytics.NewAnalyzer(
		analytics.WithDistributions(s.opts.Distributions),
		analytics.WithRegressionSolver(s.opts.Solver),
		analytics.WithRandSource(rng),
	)
}

// randSource returns a seeded stream when the request carries a seed, otherwise the
// process-wide source
func (s *Server) randSource(c *gin.Context, operation string, seed *int64) (analytics.RandSource, error) {
	if seed == nil || s.rng == nil {
		return analytics.GlobalRand, nil
	}
	return s.rng.SeededStream(c.Request.Context(), operation, *seed)
}
