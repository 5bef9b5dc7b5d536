package app

import (
	"context"

	"evalytics/domain/core"
	"evalytics/domain/evaluation"

	"github.com/stretchr/testify/mock"
)

// Mock implementations for testing
type MockScoreRepository struct {
	mock.Mock
}

func (m *MockScoreRepository) SaveCycle(ctx context.Context, cycle evaluation.Cycle) error {
	args := m.Called(ctx, cycle)
	return args.Error(0)
}

func (m *MockScoreRepository) GetCycle(ctx context.Context, cycleID core.CycleID) (*evaluation.Cycle, error) {
	args := m.Called(ctx, cycleID)
	cycle, _ := args.Get(0).(*evaluation.Cycle)
	return cycle, args.Error(1)
}

func (m *MockScoreRepository) SaveScores(ctx context.Context, cycleID core.CycleID, scores []evaluation.Score) error {
	args := m.Called(ctx, cycleID, scores)
	return args.Error(0)
}

func (m *MockScoreRepository) ListScores(ctx context.Context, cycleID core.CycleID) ([]evaluation.Score, error) {
	args := m.Called(ctx, cycleID)
	scores, _ := args.Get(0).([]evaluation.Score)
	return scores, args.Error(1)
}

func (m *MockScoreRepository) SaveItemResponses(ctx context.Context, cycleID core.CycleID, responses []evaluation.ItemResponse) error {
	args := m.Called(ctx, cycleID, responses)
	return args.Error(0)
}

func (m *MockScoreRepository) ListItemResponses(ctx context.Context, cycleID core.CycleID, instrumentID core.InstrumentID) ([]evaluation.ItemResponse, error) {
	args := m.Called(ctx, cycleID, instrumentID)
	responses, _ := args.Get(0).([]evaluation.ItemResponse)
	return responses, args.Error(1)
}

func (m *MockScoreRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) SaveReport(ctx context.Context, report *evaluation.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) GetReport(ctx context.Context, reportID core.ReportID) (*evaluation.Report, error) {
	args := m.Called(ctx, reportID)
	report, _ := args.Get(0).(*evaluation.Report)
	return report, args.Error(1)
}

func (m *MockReportRepository) ListReports(ctx context.Context, cycleID core.CycleID) ([]evaluation.ReportSummary, error) {
	args := m.Called(ctx, cycleID)
	summaries, _ := args.Get(0).([]evaluation.ReportSummary)
	return summaries, args.Error(1)
}

type MockScoreImporter struct {
	mock.Mock
}

func (m *MockScoreImporter) ImportScores(ctx context.Context, path string) ([]evaluation.Score, error) {
	args := m.Called(ctx, path)
	scores, _ := args.Get(0).([]evaluation.Score)
	return scores, args.Error(1)
}

func (m *MockScoreImporter) ImportItemResponses(ctx context.Context, path string) ([]evaluation.ItemResponse, error) {
	args := m.Called(ctx, path)
	responses, _ := args.Get(0).([]evaluation.ItemResponse)
	return responses, args.Error(1)
}
