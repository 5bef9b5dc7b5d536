package ports

import (
	"context"

	"evalytics/domain/core"
	"evalytics/domain/evaluation"
)

// ScoreRepository stores evaluation cycles and the data collected in them
type ScoreRepository interface {
	SaveCycle(ctx context.Context, cycle evaluation.Cycle) error
	GetCycle(ctx context.Context, cycleID core.CycleID) (*evaluation.Cycle, error)

	// SaveScores stores scores of one cycle. Scores without an ID get one assigned.
	SaveScores(ctx context.Context, cycleID core.CycleID, scores []evaluation.Score) error
	ListScores(ctx context.Context, cycleID core.CycleID) ([]evaluation.Score, error)

	SaveItemResponses(ctx context.Context, cycleID core.CycleID, responses []evaluation.ItemResponse) error
	// ListItemResponses returns the responses of one instrument; an empty instrumentID returns all of them
	ListItemResponses(ctx context.Context, cycleID core.CycleID, instrumentID core.InstrumentID) ([]evaluation.ItemResponse, error)

	// Ping reports whether the backing store is reachable
	Ping(ctx context.Context) error
}

// ReportRepository stores generated analysis reports
type ReportRepository interface {
	SaveReport(ctx context.Context, report *evaluation.Report) error
	GetReport(ctx context.Context, reportID core.ReportID) (*evaluation.Report, error)
	// ListReports returns summaries newest first
	ListReports(ctx context.Context, cycleID core.CycleID) ([]evaluation.ReportSummary, error)
}

// ScoreImporter reads evaluation data from files (CSV or XLSX)
type ScoreImporter interface {
	ImportScores(ctx context.Context, path string) ([]evaluation.Score, error)
	ImportItemResponses(ctx context.Context, path string) ([]evaluation.ItemResponse, error)
}
