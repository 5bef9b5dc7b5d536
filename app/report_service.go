package app

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"evalytics/domain/core"
	"evalytics/domain/evaluation"
	"evalytics/internal"
	"evalytics/internal/analytics"
	"evalytics/internal/errors"
	"evalytics/ports"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ReportOptions tunes report generation
type ReportOptions struct {
	// Seed feeds every random section; 0 picks a fresh seed per report, recorded in it
	Seed          int64
	MaxClusters   int
	Concurrency   int
	Distributions analytics.Distributions
	Solver        analytics.RegressionSolver
}

// DefaultReportOptions returns the options used when none are configured
func DefaultReportOptions() ReportOptions {
	return ReportOptions{
		MaxClusters:   analytics.DefaultMaxClusters,
		Concurrency:   4,
		Distributions: analytics.ApproximateDistributions{},
		Solver:        analytics.SolverGradientDescent,
	}
}

// clusteringWeight is the semaphore share taken by the k-means section
const clusteringWeight = 2

// ReportService turns the stored data of an evaluation cycle into an analysis report
type ReportService struct {
	scores   ports.ScoreRepository
	reports  ports.ReportRepository
	importer ports.ScoreImporter
	rng      ports.RNGPort
	opts     ReportOptions
	logger   *internal.Logger

	newReportID func() core.ReportID
	now         func() time.Time
}

// NewReportService creates a report service
func NewReportService(scores ports.ScoreRepository, reports ports.ReportRepository, importer ports.ScoreImporter,
	rng ports.RNGPort, opts ReportOptions, logger *internal.Logger) *ReportService {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.MaxClusters < 2 {
		opts.MaxClusters = analytics.DefaultMaxClusters
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ReportService{
		scores:      scores,
		reports:     reports,
		importer:    importer,
		rng:         rng,
		opts:        opts,
		logger:      logger.Component("ReportService"),
		newReportID: core.NewReportID,
		now:         time.Now,
	}
}

// reportRun holds the state shared by the sections of one report
type reportRun struct {
	report    *evaluation.Report
	scores    []evaluation.Score
	profiles  []evaluation.EmployeeProfile
	dims      []string
	responses []evaluation.ItemResponse

	mu       sync.Mutex
	warnings []string
}

func (r *reportRun) warn(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

// GenerateCycleReport analyses every score of a cycle and stores the report. Item
// reliability is only computed when instrumentID is set.
func (s *ReportService) GenerateCycleReport(ctx context.Context, cycleID core.CycleID, instrumentID core.InstrumentID) (*evaluation.Report, error) {
	start := s.now()

	if _, err := s.scores.GetCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	scores, err := s.scores.ListScores(ctx, cycleID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load scores")
	}
	if len(scores) == 0 {
		return nil, errors.InsufficientData(fmt.Sprintf("cycle %s has no scores", cycleID))
	}

	run := &reportRun{
		scores:   scores,
		profiles: evaluation.Profiles(scores),
		dims:     evaluation.Dimensions(scores),
	}
	if instrumentID != "" {
		run.responses, err = s.scores.ListItemResponses(ctx, cycleID, instrumentID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load item responses")
		}
	}

	seed := s.opts.Seed
	if seed == 0 {
		seed = start.UnixNano()
	}
	run.report = &evaluation.Report{
		ID:            s.newReportID(),
		CycleID:       cycleID,
		InstrumentID:  instrumentID,
		GeneratedAt:   start.UTC(),
		Seed:          seed,
		InputHash:     evaluation.Fingerprint(scores),
		ScoreCount:    len(scores),
		EmployeeCount: len(run.profiles),
	}

	s.logger.Info("Generating report %s for cycle %s (%d scores, %d employees, %d dimensions, input %s)",
		run.report.ID, cycleID, len(scores), len(run.profiles), len(run.dims), run.report.InputHash.Short())

	if err := s.runSections(ctx, run); err != nil {
		return nil, err
	}

	sort.Strings(run.warnings)
	run.report.Warnings = run.warnings

	if err := s.reports.SaveReport(ctx, run.report); err != nil {
		return nil, errors.Wrap(err, "failed to save report")
	}

	s.logger.Info("Report %s completed in %v", run.report.ID, s.now().Sub(start))
	return run.report, nil
}

type section struct {
	name   string
	weight int64
	fn     func(a *analytics.Analyzer, rng analytics.RandSource, run *reportRun)
}

// runSections runs every section concurrently. Each section gets its own analyzer and
// random stream, and writes only its own report fields.
func (s *ReportService) runSections(ctx context.Context, run *reportRun) error {
	sections := []section{
		{evaluation.SectionDescriptive, 1, s.describeSection},
		{evaluation.SectionSegments, 1, s.segmentsSection},
		{evaluation.SectionGaps, 1, s.gapsSection},
		{evaluation.SectionOutliers, 1, s.outliersSection},
		{evaluation.SectionReliability, 1, s.reliabilitySection},
		{evaluation.SectionClusters, clusteringWeight, s.clustersSection},
		{evaluation.SectionPredictors, 1, s.predictorsSection},
	}

	capacity := int64(s.opts.Concurrency)
	sem := semaphore.NewWeighted(capacity)
	g, gctx := errgroup.WithContext(ctx)

	for _, sec := range sections {
		g.Go(func() error {
			weight := min(sec.weight, capacity)
			if err := sem.Acquire(gctx, weight); err != nil {
				return err
			}
			defer sem.Release(weight)

			stream, err := s.rng.Stream(gctx, run.report.ID.String(), sec.name, run.report.Seed)
			if err != nil {
				return errors.Wrapf(err, "failed to create random stream for %s", sec.name)
			}
			analyzer := analytics.NewAnalyzer(
				analytics.WithDistributions(s.opts.Distributions),
				analytics.WithRegressionSolver(s.opts.Solver),
				analytics.WithRandSource(stream),
			)

			sectionStart := time.Now()
			sec.fn(analyzer, stream, run)
			s.logger.Debug("Section %s of report %s done in %v", sec.name, run.report.ID, time.Since(sectionStart))
			return nil
		})
	}
	return g.Wait()
}

func averages(profiles []evaluation.EmployeeProfile) []float64 {
	out := make([]float64, len(profiles))
	for i, p := range profiles {
		out[i] = p.Average
	}
	return out
}

// segmentAverages groups employee averages by segment, segments sorted by name
func segmentAverages(profiles []evaluation.EmployeeProfile) []analytics.LabeledGroup {
	bySegment := make(map[string][]float64)
	for _, p := range profiles {
		bySegment[p.Segment] = append(bySegment[p.Segment], p.Average)
	}
	groups := make([]analytics.LabeledGroup, 0, len(bySegment))
	for name, values := range bySegment {
		groups = append(groups, analytics.LabeledGroup{Name: name, Values: values})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups
}

func (s *ReportService) describeSection(_ *analytics.Analyzer, _ analytics.RandSource, run *reportRun) {
	run.report.Overall = analytics.DescribeSample(averages(run.profiles))

	byDimension := make(map[string][]float64, len(run.dims))
	for _, sc := range run.scores {
		byDimension[sc.Dimension] = append(byDimension[sc.Dimension], sc.Value)
	}
	run.report.Dimensions = make(map[string]analytics.DescriptiveStats, len(byDimension))
	for dim, values := range byDimension {
		run.report.Dimensions[dim] = analytics.DescribeSample(values)
	}
}

func (s *ReportService) segmentsSection(a *analytics.Analyzer, _ analytics.RandSource, run *reportRun) {
	var records []analytics.SegmentValue
	for _, g := range segmentAverages(run.profiles) {
		for _, v := range g.Values {
			records = append(records, analytics.SegmentValue{Segment: g.Name, Value: v})
		}
	}
	run.report.Segments = analytics.CalculateSegmentStatistics(records)
	if len(run.report.Segments) < 2 {
		run.warn("comparación de segmentos omitida: se requieren al menos 2 segmentos")
		return
	}
	comparison := a.CompareSegments(run.report.Segments)
	run.report.SegmentComparison = &comparison
}

func (s *ReportService) gapsSection(a *analytics.Analyzer, _ analytics.RandSource, run *reportRun) {
	groups := segmentAverages(run.profiles)
	if len(groups) < 2 {
		run.warn("análisis de brechas omitido: se requieren al menos 2 segmentos")
		return
	}
	gaps := a.CalculateGapAnalysis(groups)
	run.report.Gaps = &gaps
}

func (s *ReportService) outliersSection(_ *analytics.Analyzer, _ analytics.RandSource, run *reportRun) {
	run.report.Outliers = analytics.DetectOutliersIQR(run.profiles, func(p evaluation.EmployeeProfile) float64 {
		return p.Average
	})
}

func (s *ReportService) reliabilitySection(_ *analytics.Analyzer, _ analytics.RandSource, run *reportRun) {
	if run.report.InstrumentID == "" {
		return
	}
	items, matrix := evaluation.ItemMatrix(run.responses)
	if len(items) < 2 || len(matrix[0]) < 2 {
		run.warn("confiabilidad omitida: el instrumento %s requiere al menos 2 ítems y 2 respondentes completos", run.report.InstrumentID)
		return
	}
	reliability := analytics.CronbachAlpha(matrix)
	run.report.Reliability = &reliability
	run.report.ItemAnalysis = analytics.CronbachAlphaIfItemDeleted(matrix, items)
}

func (s *ReportService) clustersSection(_ *analytics.Analyzer, rng analytics.RandSource, run *reportRun) {
	var complete []evaluation.EmployeeProfile
	for _, p := range run.profiles {
		if len(p.Scores) == len(run.dims) {
			complete = append(complete, p)
		}
	}
	if skipped := len(run.profiles) - len(complete); skipped > 0 {
		run.warn("agrupamiento: %d empleados sin todas las dimensiones fueron excluidos", skipped)
	}

	extractors := make([]func(evaluation.EmployeeProfile) float64, len(run.dims))
	for i, dim := range run.dims {
		extractors[i] = func(p evaluation.EmployeeProfile) float64 { return p.Score(dim) }
	}

	suggestion := analytics.SuggestOptimalClusters(complete, extractors, s.opts.MaxClusters, rng)
	run.report.ClusterSuggestion = &suggestion
	if suggestion.OptimalK < 2 {
		run.warn("agrupamiento omitido: datos insuficientes")
		return
	}

	result := analytics.KMeansClustering(complete, suggestion.OptimalK, extractors, analytics.DefaultMaxIterations, rng)
	for _, c := range result.Clusters {
		summary := evaluation.ClusterSummary{
			ClusterID:             c.ClusterID,
			Size:                  c.Size,
			Centroid:              make(map[string]float64, len(run.dims)),
			WithinClusterVariance: c.WithinClusterVariance,
		}
		for i, dim := range run.dims {
			summary.Centroid[dim] = c.Centroid[i]
		}
		for _, m := range c.Members {
			summary.Members = append(summary.Members, m.EmployeeID)
		}
		run.report.Clusters = append(run.report.Clusters, summary)
	}
}

// predictorsSection ranks dimensions by how well they track the employee average.
// Employees missing a dimension are left out of that dimension's pairs.
func (s *ReportService) predictorsSection(_ *analytics.Analyzer, _ analytics.RandSource, run *reportRun) {
	if len(run.dims) < 2 {
		run.warn("factores predictivos omitidos: se requieren al menos 2 dimensiones")
		return
	}
	target := averages(run.profiles)
	predictors := make(map[string][]float64, len(run.dims))
	for _, dim := range run.dims {
		values := make([]float64, len(run.profiles))
		for i, p := range run.profiles {
			v, ok := p.Scores[dim]
			if !ok {
				v = math.NaN()
			}
			values[i] = v
		}
		predictors[dim] = values
	}
	run.report.Predictors = analytics.IdentifyPredictiveFactors(target, predictors)
	if len(run.report.Predictors) == 0 {
		run.warn("factores predictivos omitidos: menos de %d empleados con datos completos", analytics.MinPredictivePairs)
	}
}

// GetReport retrieves a stored report
func (s *ReportService) GetReport(ctx context.Context, reportID core.ReportID) (*evaluation.Report, error) {
	return s.reports.GetReport(ctx, reportID)
}

// ListReports lists the reports of a cycle, newest first
func (s *ReportService) ListReports(ctx context.Context, cycleID core.CycleID) ([]evaluation.ReportSummary, error) {
	return s.reports.ListReports(ctx, cycleID)
}

// ImportSummary counts what ImportCycle stored
type ImportSummary struct {
	CycleID       core.CycleID `json:"cycle_id"`
	Scores        int          `json:"scores"`
	ItemResponses int          `json:"item_responses"`
}

// ImportCycle stores a cycle together with the scores and, when itemsPath is set, the item
// responses read from files.
func (s *ReportService) ImportCycle(ctx context.Context, cycle evaluation.Cycle, scoresPath, itemsPath string) (*ImportSummary, error) {
	if cycle.ID == "" {
		cycle.ID = core.NewCycleID()
	}

	scores, err := s.importer.ImportScores(ctx, scoresPath)
	if err != nil {
		return nil, err
	}
	var responses []evaluation.ItemResponse
	if itemsPath != "" {
		responses, err = s.importer.ImportItemResponses(ctx, itemsPath)
		if err != nil {
			return nil, err
		}
	}

	if err := s.scores.SaveCycle(ctx, cycle); err != nil {
		return nil, errors.Wrap(err, "failed to save cycle")
	}
	if err := s.scores.SaveScores(ctx, cycle.ID, scores); err != nil {
		return nil, errors.Wrap(err, "failed to save scores")
	}
	if len(responses) > 0 {
		if err := s.scores.SaveItemResponses(ctx, cycle.ID, responses); err != nil {
			return nil, errors.Wrap(err, "failed to save item responses")
		}
	}

	s.logger.Info("Imported cycle %s: %d scores, %d item responses", cycle.ID, len(scores), len(responses))
	return &ImportSummary{CycleID: cycle.ID, Scores: len(scores), ItemResponses: len(responses)}, nil
}
