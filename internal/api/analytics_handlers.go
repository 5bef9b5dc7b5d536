package api

import (
	"fmt"
	"net/http"
	"strconv"

	"evalytics/internal/analytics"
	"evalytics/internal/errors"

	"github.com/gin-gonic/gin"
)

type valuesRequest struct {
	Values []float64 `json:"values" binding:"required"`
}

type percentileRequest struct {
	Values []float64 `json:"values" binding:"required"`
	P      *float64  `json:"p" binding:"required"`
}

type pairRequest struct {
	X      []float64 `json:"x" binding:"required"`
	Y      []float64 `json:"y" binding:"required"`
	Method string    `json:"method"`
}

type variablesRequest struct {
	Variables map[string][]float64 `json:"variables" binding:"required"`
}

type twoGroupsRequest struct {
	Group1 []float64 `json:"group1" binding:"required"`
	Group2 []float64 `json:"group2" binding:"required"`
}

type pairedRequest struct {
	Before []float64 `json:"before" binding:"required"`
	After  []float64 `json:"after" binding:"required"`
}

type groupsRequest struct {
	Groups [][]float64 `json:"groups" binding:"required"`
}

type namedGroupsRequest struct {
	Groups map[string][]float64 `json:"groups" binding:"required"`
}

type observedRequest struct {
	Observed [][]float64 `json:"observed" binding:"required"`
}

type gapsRequest struct {
	Groups []analytics.LabeledGroup `json:"groups" binding:"required"`
}

type segmentsRequest struct {
	Records []analytics.SegmentValue `json:"records" binding:"required"`
}

type compareSegmentsRequest struct {
	Segments []analytics.SegmentStatistics `json:"segments" binding:"required"`
	Seed     *int64                        `json:"seed"`
}

// Observation is a labelled value submitted for outlier detection
type Observation struct {
	ID    string  `json:"id"`
	Value float64 `json:"value"`
}

type outliersRequest struct {
	Items     []Observation `json:"items"`
	Values    []float64     `json:"values"`
	Threshold float64       `json:"threshold"`
}

// observations returns Items, or Values labelled by their position
func (r outliersRequest) observations() []Observation {
	if len(r.Items) > 0 {
		return r.Items
	}
	out := make([]Observation, len(r.Values))
	for i, v := range r.Values {
		out[i] = Observation{ID: strconv.Itoa(i), Value: v}
	}
	return out
}

func observationValue(o Observation) float64 { return o.Value }

type reliabilityRequest struct {
	Items [][]float64 `json:"items" binding:"required"`
	Names []string    `json:"names"`
}

// Point is one entity to cluster with its coordinates
type Point struct {
	ID     string    `json:"id"`
	Values []float64 `json:"values"`
}

type clustersRequest struct {
	Points        []Point `json:"points" binding:"required"`
	K             int     `json:"k"`
	MaxK          int     `json:"max_k"`
	MaxIterations int     `json:"max_iterations"`
	Seed          *int64  `json:"seed"`
}

// extractors returns one coordinate accessor per dimension, rejecting ragged input
func (r clustersRequest) extractors() ([]func(Point) float64, error) {
	if len(r.Points) == 0 {
		return nil, nil
	}
	dims := len(r.Points[0].Values)
	for _, p := range r.Points {
		if len(p.Values) != dims {
			return nil, errors.InvalidInput(fmt.Sprintf("point %q has %d values, expected %d", p.ID, len(p.Values), dims))
		}
	}
	out := make([]func(Point) float64, dims)
	for d := range out {
		out[d] = func(p Point) float64 { return p.Values[d] }
	}
	return out, nil
}

type riskRequest struct {
	Factors []analytics.RiskFactor `json:"factors" binding:"required"`
}

type normalizeRequest struct {
	Values []float64 `json:"values" binding:"required"`
	Method string    `json:"method"`
}

type regressionRequest struct {
	Y          []float64            `json:"y" binding:"required"`
	Predictors map[string][]float64 `json:"predictors" binding:"required"`
}

type predictorsRequest struct {
	Target     []float64            `json:"target" binding:"required"`
	Predictors map[string][]float64 `json:"predictors" binding:"required"`
}

func (s *Server) handleDescribe(c *gin.Context) {
	req, ok := bind[valuesRequest](s, c)
	if !ok {
		return
	}
	desc := analytics.DescribeSample(req.Values)
	c.JSON(http.StatusOK, gin.H{
		"stats":                   desc,
		"skewness_interpretation": analytics.SkewnessInterpretation(desc.Skewness),
		"kurtosis_interpretation": analytics.KurtosisInterpretation(desc.Kurtosis),
	})
}

func (s *Server) handlePercentile(c *gin.Context) {
	req, ok := bind[percentileRequest](s, c)
	if !ok {
		return
	}
	v, err := analytics.Percentile(req.Values, *req.P)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"p": *req.P, "percentile": analytics.Round(v, 4)})
}

func (s *Server) handleCorrelation(c *gin.Context) {
	req, ok := bind[pairRequest](s, c)
	if !ok {
		return
	}
	var r float64
	switch req.Method {
	case "", "pearson":
		req.Method = "pearson"
		r = analytics.PearsonCorrelation(req.X, req.Y)
	case "spearman":
		r = analytics.SpearmanCorrelation(req.X, req.Y)
	default:
		s.respondError(c, errors.InvalidInput(fmt.Sprintf("unknown correlation method %q", req.Method)))
		return
	}
	r = analytics.Round(r, 4)
	c.JSON(http.StatusOK, gin.H{
		"method":         req.Method,
		"coefficient":    r,
		"interpretation": analytics.CorrelationInterpretation(r),
	})
}

func (s *Server) handleCorrelationMatrix(c *gin.Context) {
	req, ok := bind[variablesRequest](s, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.CorrelationMatrix(req.Variables))
}

func (s *Server) handleTTest(c *gin.Context) {
	req, ok := bind[twoGroupsRequest](s, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.analyzer(nil).TTestIndependent(req.Group1, req.Group2))
}

func (s *Server) handleTTestPaired(c *gin.Context) {
	req, ok := bind[pairedRequest](s, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.analyzer(nil).TTestPaired(req.Before, req.After))
}

func (s *Server) handleAnova(c *gin.Context) {
	req, ok := bind[groupsRequest](s, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.analyzer(nil).AnovaOneWay(req.Groups))
}

func (s *Server) handleAnovaGroups(c *gin.Context) {
	req, ok := bind[namedGroupsRequest](s, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.analyzer(nil).OneWayANOVA(req.Groups))
}

func (s *Server) handleChiSquare(c *gin.Context) {
	req, ok := bind[observedRequest](s, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.analyzer(nil).ChiSquareTest(req.Observed))
}

func (s *Server) handleEquity(c *gin.Context) {
	req, ok := bind[twoGroupsRequest](s, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.EquityIndex(req.Group1, req.Group2))
}

func (s *Server) handleGini(c *gin.Context) {
	req, ok := bind[valuesRequest](s, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"gini": analytics.GiniCoefficient(req.Values)})
}

func (s *Server) handleGaps(c *gin.Context) {
	req, ok := bind[gapsRequest](s, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.analyzer(nil).CalculateGapAnalysis(req.Groups))
}

func (s *Server) handleSegments(c *gin.Context) {
	req, ok := bind[segmentsRequest](s, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"segments": analytics.CalculateSegmentStatistics(req.Records)})
}

func (s *Server) handleCompareSegments(c *gin.Context) {
	req, ok := bind[compareSegmentsRequest](s, c)
	if !ok {
		return
	}
	for _, seg := range req.Segments {
		if seg.Count < 0 || seg.Count > analytics.MaxSyntheticCount {
			s.respondError(c, errors.InvalidInput(fmt.Sprintf("segment %q: count must be between 0 and %d", seg.Segment, analytics.MaxSyntheticCount)))
			return
		}
	}
	rng, err := s.randSource(c, "segments/compare", req.Seed)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.analyzer(rng).CompareSegments(req.Segments))
}

func (s *Server) handleOutliersIQR(c *gin.Context) {
	req, ok := bind[outliersRequest](s, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.DetectOutliersIQR(req.observations(), observationValue))
}

func (s *Server) handleOutliersZScore(c *gin.Context) {
	req, ok := bind[outliersRequest](s, c)
	if !ok {
		return
	}
	threshold := req.Threshold
	if threshold <= 0 {
		threshold = s.opts.OutlierZThreshold
	}
	c.JSON(http.StatusOK, analytics.DetectOutliersZScore(req.observations(), observationValue, threshold))
}

func (s *Server) handleReliability(c *gin.Context) {
	req, ok := bind[reliabilityRequest](s, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.CronbachAlpha(req.Items))
}

func (s *Server) handleItemDeleted(c *gin.Context) {
	req, ok := bind[reliabilityRequest](s, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reliability": analytics.CronbachAlpha(req.Items),
		"items":       analytics.CronbachAlphaIfItemDeleted(req.Items, req.Names),
	})
}

func (s *Server) handleClusters(c *gin.Context) {
	req, ok := bind[clustersRequest](s, c)
	if !ok {
		return
	}
	dims, err := req.extractors()
	if err != nil {
		s.respondError(c, err)
		return
	}
	if req.K < 1 {
		s.respondError(c, errors.InvalidInput("k must be at least 1"))
		return
	}
	if len(req.Points) < req.K {
		s.respondError(c, errors.InsufficientData(fmt.Sprintf("need at least %d points for k=%d", req.K, req.K)))
		return
	}
	rng, err := s.randSource(c, "clusters", req.Seed)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics.KMeansClustering(req.Points, req.K, dims, req.MaxIterations, rng))
}

func (s *Server) handleSuggestClusters(c *gin.Context) {
	req, ok := bind[clustersRequest](s, c)
	if !ok {
		return
	}
	dims, err := req.extractors()
	if err != nil {
		s.respondError(c, err)
		return
	}
	maxK := req.MaxK
	if maxK <= 0 {
		maxK = s.opts.MaxClusters
	}
	rng, err := s.randSource(c, "clusters/suggest", req.Seed)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics.SuggestOptimalClusters(req.Points, dims, maxK, rng))
}

func (s *Server) handleRisk(c *gin.Context) {
	req, ok := bind[riskRequest](s, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.CalculateRiskScore(req.Factors))
}

func (s *Server) handleNormalize(c *gin.Context) {
	req, ok := bind[normalizeRequest](s, c)
	if !ok {
		return
	}
	var out []float64
	switch req.Method {
	case "", "percent":
		req.Method = "percent"
		out = analytics.NormalizeToPercent(req.Values)
	case "zscore":
		out = analytics.Standardize(req.Values)
	case "percentile_rank":
		out = analytics.PercentileRanks(req.Values)
	default:
		s.respondError(c, errors.InvalidInput(fmt.Sprintf("unknown normalization method %q", req.Method)))
		return
	}
	c.JSON(http.StatusOK, gin.H{"method": req.Method, "values": out})
}

func (s *Server) handleRegression(c *gin.Context) {
	req, ok := bind[regressionRequest](s, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.analyzer(nil).MultipleRegression(req.Y, req.Predictors))
}

func (s *Server) handlePredictors(c *gin.Context) {
	req, ok := bind[predictorsRequest](s, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"factors": analytics.IdentifyPredictiveFactors(req.Target, req.Predictors)})
}
