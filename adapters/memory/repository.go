// Package memory provides in-memory repositories used when no database is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"evalytics/domain/core"
	"evalytics/domain/evaluation"
	"evalytics/internal/errors"
	"evalytics/ports"
)

type responseKey struct {
	instrument core.InstrumentID
	item       string
	respondent string
}

// ScoreRepository implements ports.ScoreRepository with in-memory storage
type ScoreRepository struct {
	cycles    map[core.CycleID]evaluation.Cycle
	scores    map[core.CycleID][]evaluation.Score
	responses map[core.CycleID]map[responseKey]evaluation.ItemResponse
	mu        sync.RWMutex
}

var _ ports.ScoreRepository = (*ScoreRepository)(nil)

// NewScoreRepository creates an empty in-memory score repository
func NewScoreRepository() *ScoreRepository {
	return &ScoreRepository{
		cycles:    make(map[core.CycleID]evaluation.Cycle),
		scores:    make(map[core.CycleID][]evaluation.Score),
		responses: make(map[core.CycleID]map[responseKey]evaluation.ItemResponse),
	}
}

func cycleNotFound(cycleID core.CycleID) error {
	return errors.WithCode(errors.CodeNotFound, core.NewNotFoundError("cycle", cycleID.String()))
}

func (r *ScoreRepository) SaveCycle(ctx context.Context, cycle evaluation.Cycle) error {
	if err := cycle.Validate(); err != nil {
		return errors.WithCode(errors.CodeValidationError, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cycles[cycle.ID] = cycle
	return nil
}

func (r *ScoreRepository) GetCycle(ctx context.Context, cycleID core.CycleID) (*evaluation.Cycle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cycle, ok := r.cycles[cycleID]
	if !ok {
		return nil, cycleNotFound(cycleID)
	}
	return &cycle, nil
}

// SaveScores stores scores of a known cycle. Scores with an ID already stored replace it.
func (r *ScoreRepository) SaveScores(ctx context.Context, cycleID core.CycleID, scores []evaluation.Score) error {
	for i := range scores {
		if err := scores[i].Validate(); err != nil {
			return errors.WithCode(errors.CodeValidationError, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cycles[cycleID]; !ok {
		return cycleNotFound(cycleID)
	}

	stored := r.scores[cycleID]
	index := make(map[core.ID]int, len(stored))
	for i, s := range stored {
		index[s.ID] = i
	}
	for i := range scores {
		s := &scores[i]
		if s.ID.IsEmpty() {
			s.ID = core.NewID()
		}
		s.CycleID = cycleID
		if at, ok := index[s.ID]; ok {
			stored[at] = *s
			continue
		}
		index[s.ID] = len(stored)
		stored = append(stored, *s)
	}
	r.scores[cycleID] = stored
	return nil
}

// ListScores returns the scores of a cycle ordered by employee, dimension and id
func (r *ScoreRepository) ListScores(ctx context.Context, cycleID core.CycleID) ([]evaluation.Score, error) {
	r.mu.RLock()
	out := append([]evaluation.Score(nil), r.scores[cycleID]...)
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeID != out[j].EmployeeID {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		if out[i].Dimension != out[j].Dimension {
			return out[i].Dimension < out[j].Dimension
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ScoreRepository) SaveItemResponses(ctx context.Context, cycleID core.CycleID, responses []evaluation.ItemResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cycles[cycleID]; !ok {
		return cycleNotFound(cycleID)
	}

	stored := r.responses[cycleID]
	if stored == nil {
		stored = make(map[responseKey]evaluation.ItemResponse)
		r.responses[cycleID] = stored
	}
	for _, resp := range responses {
		resp.CycleID = cycleID
		stored[responseKey{resp.InstrumentID, resp.ItemCode, resp.RespondentID}] = resp
	}
	return nil
}

func (r *ScoreRepository) ListItemResponses(ctx context.Context, cycleID core.CycleID, instrumentID core.InstrumentID) ([]evaluation.ItemResponse, error) {
	r.mu.RLock()
	var out []evaluation.ItemResponse
	for key, resp := range r.responses[cycleID] {
		if instrumentID == "" || key.instrument == instrumentID {
			out = append(out, resp)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.InstrumentID != b.InstrumentID {
			return a.InstrumentID < b.InstrumentID
		}
		if a.ItemCode != b.ItemCode {
			return a.ItemCode < b.ItemCode
		}
		return a.RespondentID < b.RespondentID
	})
	return out, nil
}

// Ping always succeeds
func (r *ScoreRepository) Ping(ctx context.Context) error {
	return nil
}

// ReportRepository implements ports.ReportRepository with in-memory storage
type ReportRepository struct {
	reports map[core.ReportID]evaluation.Report
	mu      sync.RWMutex
}

var _ ports.ReportRepository = (*ReportRepository)(nil)

// NewReportRepository creates an empty in-memory report repository
func NewReportRepository() *ReportRepository {
	return &ReportRepository{reports: make(map[core.ReportID]evaluation.Report)}
}

func (r *ReportRepository) SaveReport(ctx context.Context, report *evaluation.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.reports[report.ID]; exists {
		return errors.ValidationError(fmt.Sprintf("report %s already exists", report.ID))
	}
	r.reports[report.ID] = *report
	return nil
}

func (r *ReportRepository) GetReport(ctx context.Context, reportID core.ReportID) (*evaluation.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[reportID]
	if !ok {
		return nil, errors.WithCode(errors.CodeNotFound, core.NewNotFoundError("report", reportID.String()))
	}
	return &report, nil
}

// ListReports returns report summaries of a cycle, newest first
func (r *ReportRepository) ListReports(ctx context.Context, cycleID core.CycleID) ([]evaluation.ReportSummary, error) {
	r.mu.RLock()
	summaries := []evaluation.ReportSummary{}
	for _, report := range r.reports {
		if report.CycleID == cycleID {
			summaries = append(summaries, report.Summary())
		}
	}
	r.mu.RUnlock()

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].GeneratedAt.Equal(summaries[j].GeneratedAt) {
			return summaries[i].GeneratedAt.After(summaries[j].GeneratedAt)
		}
		return summaries[i].ID > summaries[j].ID
	})
	return summaries, nil
}
