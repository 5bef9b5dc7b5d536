package evaluation

import (
	"time"

	"evalytics/domain/core"
	"evalytics/internal/analytics"
)

// Report sections, also used to derive per-section random streams.
const (
	SectionDescriptive = "descriptive"
	SectionSegments    = "segments"
	SectionGaps        = "gaps"
	SectionOutliers    = "outliers"
	SectionReliability = "reliability"
	SectionClusters    = "clusters"
	SectionPredictors  = "predictors"
)

// ClusterSummary describes one group of employees with similar dimension profiles.
type ClusterSummary struct {
	ClusterID             int                `json:"cluster_id"`
	Size                  int                `json:"size"`
	Centroid              map[string]float64 `json:"centroid"`
	Members               []core.EmployeeID  `json:"members"`
	WithinClusterVariance float64            `json:"within_cluster_variance"`
}

// Report is the full statistical analysis of one evaluation cycle.
type Report struct {
	ID            core.ReportID     `json:"id"`
	CycleID       core.CycleID      `json:"cycle_id"`
	InstrumentID  core.InstrumentID `json:"instrument_id,omitempty"`
	GeneratedAt   time.Time         `json:"generated_at"`
	Seed          int64             `json:"seed"`
	InputHash     core.Hash         `json:"input_hash"`
	ScoreCount    int               `json:"score_count"`
	EmployeeCount int               `json:"employee_count"`

	Overall           analytics.DescriptiveStats            `json:"overall"`
	Dimensions        map[string]analytics.DescriptiveStats `json:"dimensions"`
	Segments          []analytics.SegmentStatistics         `json:"segments"`
	SegmentComparison *analytics.SegmentComparison          `json:"segment_comparison,omitempty"`
	Gaps              *analytics.GapAnalysisResult          `json:"gaps,omitempty"`

	Outliers analytics.IQROutlierResult[EmployeeProfile] `json:"outliers"`

	Reliability  *analytics.ReliabilityResult   `json:"reliability,omitempty"`
	ItemAnalysis []analytics.ItemDeletionResult `json:"item_analysis,omitempty"`

	Clusters          []ClusterSummary             `json:"clusters,omitempty"`
	ClusterSuggestion *analytics.ClusterSuggestion `json:"cluster_suggestion,omitempty"`

	Predictors []analytics.PredictiveFactor `json:"predictors,omitempty"`
	Warnings   []string                     `json:"warnings,omitempty"`
}

// ReportSummary is the listing view of a stored report.
type ReportSummary struct {
	ID            core.ReportID `json:"id" db:"id"`
	CycleID       core.CycleID  `json:"cycle_id" db:"cycle_id"`
	GeneratedAt   time.Time     `json:"generated_at" db:"generated_at"`
	EmployeeCount int           `json:"employee_count" db:"employee_count"`
	OverallMean   float64       `json:"overall_mean" db:"overall_mean"`
}

// Summary returns the listing view of r.
func (r *Report) Summary() ReportSummary {
	return ReportSummary{
		ID:            r.ID,
		CycleID:       r.CycleID,
		GeneratedAt:   r.GeneratedAt,
		EmployeeCount: r.EmployeeCount,
		OverallMean:   r.Overall.Mean,
	}
}
