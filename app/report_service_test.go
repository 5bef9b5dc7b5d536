package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"evalytics/adapters/memory"
	"evalytics/adapters/rng"
	"evalytics/domain/core"
	"evalytics/domain/evaluation"
	"evalytics/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

// sampleCycle seeds twelve employees over two segments and two dimensions, plus a
// three-item instrument answered by every employee.
func sampleCycle(t *testing.T, repo *memory.ScoreRepository, segments ...string) core.CycleID {
	t.Helper()
	ctx := context.Background()
	cycleID := core.CycleID("c-2026")
	require.NoError(t, repo.SaveCycle(ctx, evaluation.Cycle{ID: cycleID, Name: "2026"}))

	var scores []evaluation.Score
	var responses []evaluation.ItemResponse
	for i := 0; i < 12; i++ {
		employee := core.EmployeeID(fmt.Sprintf("e%02d", i))
		segment := segments[i%len(segments)]
		base := 55.0 + float64(i)*3
		if i >= 6 {
			base += 10
		}
		scores = append(scores,
			evaluation.Score{EmployeeID: employee, Segment: segment, Dimension: "logro", Value: base},
			evaluation.Score{EmployeeID: employee, Segment: segment, Dimension: "equipo", Value: base - 5 + float64(i%3)},
		)
		for q := 1; q <= 3; q++ {
			responses = append(responses, evaluation.ItemResponse{
				InstrumentID: "clima",
				ItemCode:     fmt.Sprintf("q%d", q),
				RespondentID: string(employee),
				Value:        float64(1 + (i/3+q%2)%5),
			})
		}
	}
	require.NoError(t, repo.SaveScores(ctx, cycleID, scores))
	require.NoError(t, repo.SaveItemResponses(ctx, cycleID, responses))
	return cycleID
}

func newTestService(scores *memory.ScoreRepository, reports *memory.ReportRepository, opts ReportOptions) *ReportService {
	svc := NewReportService(scores, reports, nil, rng.NewAdapter(), opts, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func seededOptions() ReportOptions {
	opts := DefaultReportOptions()
	opts.Seed = 42
	return opts
}

func TestGenerateCycleReport(t *testing.T) {
	ctx := context.Background()
	scores := memory.NewScoreRepository()
	reports := memory.NewReportRepository()
	cycleID := sampleCycle(t, scores, "ventas", "it")
	svc := newTestService(scores, reports, seededOptions())

	report, err := svc.GenerateCycleReport(ctx, cycleID, "clima")
	require.NoError(t, err)

	assert.Equal(t, cycleID, report.CycleID)
	assert.Equal(t, int64(42), report.Seed)
	assert.Equal(t, fixedNow, report.GeneratedAt)
	assert.Equal(t, 24, report.ScoreCount)
	assert.Equal(t, 12, report.EmployeeCount)
	assert.False(t, report.InputHash.IsEmpty())

	assert.Equal(t, 12, report.Overall.N)
	assert.Len(t, report.Dimensions, 2)
	assert.Equal(t, 12, report.Dimensions["logro"].N)

	require.Len(t, report.Segments, 2)
	assert.Equal(t, "it", report.Segments[0].Segment)
	require.NotNil(t, report.SegmentComparison)
	require.NotNil(t, report.Gaps)
	assert.Len(t, report.Gaps.Gaps, 1)

	assert.Equal(t, 12, report.Outliers.TotalCount)

	require.NotNil(t, report.Reliability)
	assert.Equal(t, 3, report.Reliability.ItemCount)
	assert.Equal(t, 12, report.Reliability.RespondentCount)
	assert.Len(t, report.ItemAnalysis, 3)

	require.NotNil(t, report.ClusterSuggestion)
	assert.GreaterOrEqual(t, report.ClusterSuggestion.OptimalK, 2)
	require.Len(t, report.Clusters, report.ClusterSuggestion.OptimalK)
	members := 0
	for _, c := range report.Clusters {
		members += c.Size
		assert.Len(t, c.Centroid, 2)
	}
	assert.Equal(t, 12, members)

	assert.Len(t, report.Predictors, 2)
	assert.Empty(t, report.Warnings)

	stored, err := svc.GetReport(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ID, stored.ID)

	summaries, err := svc.ListReports(ctx, cycleID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, report.ID, summaries[0].ID)
}

func TestGenerateCycleReportIsReproducible(t *testing.T) {
	ctx := context.Background()
	scores := memory.NewScoreRepository()
	cycleID := sampleCycle(t, scores, "ventas", "it", "rrhh")

	generate := func() *evaluation.Report {
		svc := newTestService(scores, memory.NewReportRepository(), seededOptions())
		svc.newReportID = func() core.ReportID { return "r-fixed" }
		report, err := svc.GenerateCycleReport(ctx, cycleID, "")
		require.NoError(t, err)
		return report
	}

	first, second := generate(), generate()
	assert.Equal(t, first.Clusters, second.Clusters)
	assert.Equal(t, first.ClusterSuggestion, second.ClusterSuggestion)
	require.NotNil(t, first.SegmentComparison)
	assert.Equal(t, first.SegmentComparison.Ranking, second.SegmentComparison.Ranking)
	assert.Equal(t, first.SegmentComparison.Anova.FStatistic, second.SegmentComparison.Anova.FStatistic)
	assert.Equal(t, first.InputHash, second.InputHash)
}

func TestGenerateCycleReportSingleSegment(t *testing.T) {
	ctx := context.Background()
	scores := memory.NewScoreRepository()
	cycleID := sampleCycle(t, scores, "ventas")
	opts := seededOptions()
	opts.Concurrency = 1
	svc := newTestService(scores, memory.NewReportRepository(), opts)

	report, err := svc.GenerateCycleReport(ctx, cycleID, "")
	require.NoError(t, err)

	assert.Nil(t, report.SegmentComparison)
	assert.Nil(t, report.Gaps)
	assert.Nil(t, report.Reliability)
	assert.Len(t, report.Warnings, 2)
	assert.Len(t, report.Segments, 1)
}

func TestGenerateCycleReportUnseededRecordsSeed(t *testing.T) {
	scores := memory.NewScoreRepository()
	cycleID := sampleCycle(t, scores, "ventas", "it")
	svc := newTestService(scores, memory.NewReportRepository(), DefaultReportOptions())

	report, err := svc.GenerateCycleReport(context.Background(), cycleID, "")
	require.NoError(t, err)
	assert.Equal(t, fixedNow.UnixNano(), report.Seed)
}

func TestGenerateCycleReportCycleNotFound(t *testing.T) {
	repo := new(MockScoreRepository)
	reports := new(MockReportRepository)
	repo.On("GetCycle", mock.Anything, core.CycleID("nope")).
		Return(nil, errors.WithCode(errors.CodeNotFound, core.NewNotFoundError("cycle", "nope")))

	svc := NewReportService(repo, reports, nil, rng.NewAdapter(), DefaultReportOptions(), nil)
	_, err := svc.GenerateCycleReport(context.Background(), "nope", "")

	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	repo.AssertNotCalled(t, "ListScores", mock.Anything, mock.Anything)
	reports.AssertNotCalled(t, "SaveReport", mock.Anything, mock.Anything)
}

func TestGenerateCycleReportWithoutScores(t *testing.T) {
	repo := new(MockScoreRepository)
	reports := new(MockReportRepository)
	repo.On("GetCycle", mock.Anything, core.CycleID("c1")).Return(&evaluation.Cycle{ID: "c1", Name: "x"}, nil)
	repo.On("ListScores", mock.Anything, core.CycleID("c1")).Return([]evaluation.Score{}, nil)

	svc := NewReportService(repo, reports, nil, rng.NewAdapter(), DefaultReportOptions(), nil)
	_, err := svc.GenerateCycleReport(context.Background(), "c1", "")

	assert.Equal(t, errors.CodeInsufficientData, errors.GetCode(err))
	reports.AssertNotCalled(t, "SaveReport", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestGenerateCycleReportSaveFailure(t *testing.T) {
	repo := new(MockScoreRepository)
	reports := new(MockReportRepository)
	repo.On("GetCycle", mock.Anything, core.CycleID("c1")).Return(&evaluation.Cycle{ID: "c1", Name: "x"}, nil)
	repo.On("ListScores", mock.Anything, core.CycleID("c1")).Return([]evaluation.Score{
		{EmployeeID: "e1", Segment: "a", Dimension: "d", Value: 70},
		{EmployeeID: "e2", Segment: "b", Dimension: "d", Value: 80},
	}, nil)
	reports.On("SaveReport", mock.Anything, mock.AnythingOfType("*evaluation.Report")).
		Return(errors.DatabaseError("insert failed", fmt.Errorf("connection reset")))

	svc := NewReportService(repo, reports, nil, rng.NewAdapter(), seededOptions(), nil)
	_, err := svc.GenerateCycleReport(context.Background(), "c1", "")

	assert.Equal(t, errors.CodeDatabaseError, errors.GetCode(err))
	reports.AssertExpectations(t)
}

func TestImportCycle(t *testing.T) {
	repo := new(MockScoreRepository)
	importer := new(MockScoreImporter)
	scores := []evaluation.Score{{EmployeeID: "e1", Dimension: "d", Value: 1}}
	responses := []evaluation.ItemResponse{{ItemCode: "q1", RespondentID: "r1", Value: 3}}
	cycle := evaluation.Cycle{ID: "c1", Name: "2026"}

	importer.On("ImportScores", mock.Anything, "scores.csv").Return(scores, nil)
	importer.On("ImportItemResponses", mock.Anything, "items.xlsx").Return(responses, nil)
	repo.On("SaveCycle", mock.Anything, cycle).Return(nil)
	repo.On("SaveScores", mock.Anything, core.CycleID("c1"), scores).Return(nil)
	repo.On("SaveItemResponses", mock.Anything, core.CycleID("c1"), responses).Return(nil)

	svc := NewReportService(repo, new(MockReportRepository), importer, rng.NewAdapter(), DefaultReportOptions(), nil)
	summary, err := svc.ImportCycle(context.Background(), cycle, "scores.csv", "items.xlsx")

	require.NoError(t, err)
	assert.Equal(t, &ImportSummary{CycleID: "c1", Scores: 1, ItemResponses: 1}, summary)
	repo.AssertExpectations(t)
	importer.AssertExpectations(t)
}

func TestImportCycleAssignsIDAndSkipsItems(t *testing.T) {
	repo := new(MockScoreRepository)
	importer := new(MockScoreImporter)
	importer.On("ImportScores", mock.Anything, "scores.csv").Return([]evaluation.Score{}, nil)
	repo.On("SaveCycle", mock.Anything, mock.MatchedBy(func(c evaluation.Cycle) bool { return c.ID != "" })).Return(nil)
	repo.On("SaveScores", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewReportService(repo, new(MockReportRepository), importer, rng.NewAdapter(), DefaultReportOptions(), nil)
	summary, err := svc.ImportCycle(context.Background(), evaluation.Cycle{Name: "2026"}, "scores.csv", "")

	require.NoError(t, err)
	assert.NotEmpty(t, summary.CycleID)
	importer.AssertNotCalled(t, "ImportItemResponses", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "SaveItemResponses", mock.Anything, mock.Anything, mock.Anything)
}

func TestImportCycleImportFailure(t *testing.T) {
	repo := new(MockScoreRepository)
	importer := new(MockScoreImporter)
	importer.On("ImportScores", mock.Anything, "bad.csv").
		Return(nil, errors.ImportError("bad.csv", fmt.Errorf("line 2: invalid number")))

	svc := NewReportService(repo, new(MockReportRepository), importer, rng.NewAdapter(), DefaultReportOptions(), nil)
	_, err := svc.ImportCycle(context.Background(), evaluation.Cycle{ID: "c1", Name: "x"}, "bad.csv", "")

	assert.Equal(t, errors.CodeImportError, errors.GetCode(err))
	repo.AssertNotCalled(t, "SaveCycle", mock.Anything, mock.Anything)
}
