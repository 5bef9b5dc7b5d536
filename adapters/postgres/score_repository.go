package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"evalytics/domain/core"
	"evalytics/domain/evaluation"
	"evalytics/internal/errors"
	"evalytics/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// scoreRepository implements ports.ScoreRepository for PostgreSQL
type scoreRepository struct {
	db *sqlx.DB
}

// NewScoreRepository creates a new PostgreSQL score repository
func NewScoreRepository(db *sqlx.DB) ports.ScoreRepository {
	return &scoreRepository{db: db}
}

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

func cycleNotFound(cycleID core.CycleID) error {
	return errors.WithCode(errors.CodeNotFound, core.NewNotFoundError("cycle", cycleID.String()))
}

// SaveCycle inserts the cycle, or updates it when the id already exists
func (r *scoreRepository) SaveCycle(ctx context.Context, cycle evaluation.Cycle) error {
	if err := cycle.Validate(); err != nil {
		return errors.WithCode(errors.CodeValidationError, err)
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO evaluation_cycles (id, name, starts_at, ends_at, created_at)
		VALUES (:id, :name, :starts_at, :ends_at, NOW())
	`, cycle)
	if err == nil {
		return nil
	}
	if pqCode(err) != uniqueViolation {
		return errors.DatabaseError("failed to insert cycle", err)
	}

	_, err = r.db.NamedExecContext(ctx, `
		UPDATE evaluation_cycles
		SET name = :name, starts_at = :starts_at, ends_at = :ends_at
		WHERE id = :id
	`, cycle)
	if err != nil {
		return errors.DatabaseError("failed to update cycle", err)
	}
	return nil
}

// GetCycle retrieves a cycle by its ID
func (r *scoreRepository) GetCycle(ctx context.Context, cycleID core.CycleID) (*evaluation.Cycle, error) {
	var cycle evaluation.Cycle
	err := r.db.GetContext(ctx, &cycle, `
		SELECT id, name, starts_at, ends_at
		FROM evaluation_cycles
		WHERE id = $1
	`, cycleID.String())
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, cycleNotFound(cycleID)
		}
		return nil, errors.DatabaseError("failed to get cycle", err)
	}
	return &cycle, nil
}

// SaveScores bulk inserts scores with one statement over unnested arrays
func (r *scoreRepository) SaveScores(ctx context.Context, cycleID core.CycleID, scores []evaluation.Score) error {
	if len(scores) == 0 {
		return nil
	}

	ids := make([]string, len(scores))
	employees := make([]string, len(scores))
	segments := make([]string, len(scores))
	dimensions := make([]string, len(scores))
	values := make([]float64, len(scores))
	for i := range scores {
		s := &scores[i]
		if err := s.Validate(); err != nil {
			return errors.WithCode(errors.CodeValidationError, err)
		}
		if s.ID.IsEmpty() {
			s.ID = core.NewID()
		}
		s.CycleID = cycleID
		ids[i] = s.ID.String()
		employees[i] = s.EmployeeID.String()
		segments[i] = s.Segment
		dimensions[i] = s.Dimension
		values[i] = s.Value
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO evaluation_scores (id, cycle_id, employee_id, segment, dimension, value)
		SELECT u.id, $1, u.employee_id, u.segment, u.dimension, u.value
		FROM unnest($2::text[], $3::text[], $4::text[], $5::text[], $6::float8[])
			AS u(id, employee_id, segment, dimension, value)
		ON CONFLICT (id) DO UPDATE SET
			employee_id = EXCLUDED.employee_id,
			segment = EXCLUDED.segment,
			dimension = EXCLUDED.dimension,
			value = EXCLUDED.value
	`, cycleID.String(), pq.Array(ids), pq.Array(employees), pq.Array(segments), pq.Array(dimensions), pq.Array(values))
	if err != nil {
		if pqCode(err) == foreignKeyViolation {
			return cycleNotFound(cycleID)
		}
		return errors.DatabaseError("failed to insert scores", err)
	}
	return nil
}

// ListScores returns the scores of a cycle ordered by employee and dimension
func (r *scoreRepository) ListScores(ctx context.Context, cycleID core.CycleID) ([]evaluation.Score, error) {
	var scores []evaluation.Score
	err := r.db.SelectContext(ctx, &scores, `
		SELECT id, cycle_id, employee_id, segment, dimension, value
		FROM evaluation_scores
		WHERE cycle_id = $1
		ORDER BY employee_id, dimension, id
	`, cycleID.String())
	if err != nil {
		return nil, errors.DatabaseError("failed to list scores", err)
	}
	return scores, nil
}

// SaveItemResponses bulk upserts item responses; a repeated answer replaces the stored one
func (r *scoreRepository) SaveItemResponses(ctx context.Context, cycleID core.CycleID, responses []evaluation.ItemResponse) error {
	if len(responses) == 0 {
		return nil
	}

	instruments := make([]string, len(responses))
	items := make([]string, len(responses))
	respondents := make([]string, len(responses))
	values := make([]float64, len(responses))
	for i, resp := range responses {
		instruments[i] = resp.InstrumentID.String()
		items[i] = resp.ItemCode
		respondents[i] = resp.RespondentID
		values[i] = resp.Value
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO item_responses (cycle_id, instrument_id, item_code, respondent_id, value)
		SELECT $1, u.instrument_id, u.item_code, u.respondent_id, u.value
		FROM unnest($2::text[], $3::text[], $4::text[], $5::float8[])
			AS u(instrument_id, item_code, respondent_id, value)
		ON CONFLICT (cycle_id, instrument_id, item_code, respondent_id)
			DO UPDATE SET value = EXCLUDED.value
	`, cycleID.String(), pq.Array(instruments), pq.Array(items), pq.Array(respondents), pq.Array(values))
	if err != nil {
		switch pqCode(err) {
		case foreignKeyViolation:
			return cycleNotFound(cycleID)
		case "21000":
			// cardinality_violation: the batch itself answers the same item twice
			return errors.ValidationError("duplicate item responses in one batch")
		}
		return errors.DatabaseError("failed to insert item responses", err)
	}
	return nil
}

// ListItemResponses returns the responses of one instrument, or all of them when instrumentID is empty
func (r *scoreRepository) ListItemResponses(ctx context.Context, cycleID core.CycleID, instrumentID core.InstrumentID) ([]evaluation.ItemResponse, error) {
	var responses []evaluation.ItemResponse
	err := r.db.SelectContext(ctx, &responses, `
		SELECT cycle_id, instrument_id, item_code, respondent_id, value
		FROM item_responses
		WHERE cycle_id = $1 AND ($2 = '' OR instrument_id = $2)
		ORDER BY instrument_id, item_code, respondent_id
	`, cycleID.String(), instrumentID.String())
	if err != nil {
		return nil, errors.DatabaseError("failed to list item responses", err)
	}
	return responses, nil
}

// Ping checks the database connection
func (r *scoreRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return errors.DatabaseError("database unreachable", err)
	}
	return nil
}
