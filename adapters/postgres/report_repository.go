package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"evalytics/domain/core"
	"evalytics/domain/evaluation"
	"evalytics/internal/errors"
	"evalytics/ports"

	"github.com/jmoiron/sqlx"
)

// reportRepository implements ports.ReportRepository, storing each report as a JSONB payload
type reportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new PostgreSQL report repository
func NewReportRepository(db *sqlx.DB) ports.ReportRepository {
	return &reportRepository{db: db}
}

// SaveReport inserts a generated report
func (r *reportRepository) SaveReport(ctx context.Context, report *evaluation.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return errors.InternalError(fmt.Sprintf("failed to marshal report: %v", err))
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO analysis_reports (id, cycle_id, generated_at, employee_count, overall_mean, input_hash, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, report.ID.String(), report.CycleID.String(), report.GeneratedAt, report.EmployeeCount, report.Overall.Mean, report.InputHash.String(), payload)
	if err != nil {
		switch pqCode(err) {
		case uniqueViolation:
			return errors.ValidationError(fmt.Sprintf("report %s already exists", report.ID))
		case foreignKeyViolation:
			return cycleNotFound(report.CycleID)
		}
		return errors.DatabaseError("failed to insert report", err)
	}
	return nil
}

// GetReport retrieves a report by its ID
func (r *reportRepository) GetReport(ctx context.Context, reportID core.ReportID) (*evaluation.Report, error) {
	var payload []byte
	err := r.db.GetContext(ctx, &payload, `SELECT payload FROM analysis_reports WHERE id = $1`, reportID.String())
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.WithCode(errors.CodeNotFound, core.NewNotFoundError("report", reportID.String()))
		}
		return nil, errors.DatabaseError("failed to get report", err)
	}

	var report evaluation.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, errors.InternalError(fmt.Sprintf("failed to unmarshal report %s: %v", reportID, err))
	}
	return &report, nil
}

// ListReports returns report summaries of a cycle, newest first
func (r *reportRepository) ListReports(ctx context.Context, cycleID core.CycleID) ([]evaluation.ReportSummary, error) {
	summaries := []evaluation.ReportSummary{}
	err := r.db.SelectContext(ctx, &summaries, `
		SELECT id, cycle_id, generated_at, employee_count, overall_mean
		FROM analysis_reports
		WHERE cycle_id = $1
		ORDER BY generated_at DESC, id DESC
	`, cycleID.String())
	if err != nil {
		return nil, errors.DatabaseError("failed to list reports", err)
	}
	return summaries, nil
}
