package excel

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"evalytics/domain/core"
	"evalytics/domain/evaluation"
	"evalytics/internal"
	"evalytics/internal/errors"
	"evalytics/ports"
)

// Accepted header names per column, English and Spanish
var (
	employeeColumns   = []string{"employee_id", "employee", "empleado_id", "empleado", "colaborador"}
	segmentColumns    = []string{"segment", "segmento", "area", "área", "department", "departamento"}
	dimensionColumns  = []string{"dimension", "dimensión", "competencia"}
	valueColumns      = []string{"value", "score", "valor", "puntaje", "calificacion", "calificación"}
	respondentColumns = []string{"respondent_id", "respondent", "respondente", "evaluador", "employee_id", "empleado"}
	instrumentColumns = []string{"instrument_id", "instrument", "instrumento"}
	itemColumns       = []string{"item_code", "item", "pregunta", "reactivo"}
)

// Importer implements ports.ScoreImporter over CSV and XLSX files. Both files may come in
// long form (one value per row with a dimension or item column) or wide form (one row per
// employee or respondent, one column per dimension or item).
type Importer struct {
	config Config
	logger *internal.Logger
}

var _ ports.ScoreImporter = (*Importer)(nil)

// NewImporter creates a new file importer
func NewImporter(config Config, logger *internal.Logger) *Importer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Importer{config: config, logger: logger}
}

func (i *Importer) read(ctx context.Context, path string) (*SheetData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := NewDataReader(path, i.config, i.logger).ReadData()
	if err != nil {
		return nil, errors.ImportError(path, err)
	}
	return data, nil
}

// ImportScores reads employee dimension scores
func (i *Importer) ImportScores(ctx context.Context, path string) ([]evaluation.Score, error) {
	data, err := i.read(ctx, path)
	if err != nil {
		return nil, err
	}

	employeeCol := findColumn(data.Headers, employeeColumns)
	if employeeCol == "" {
		return nil, errors.ImportError(path, fmt.Errorf("missing employee column (one of %s)", strings.Join(employeeColumns, ", ")))
	}
	segmentCol := findColumn(data.Headers, segmentColumns)
	dimensionCol := findColumn(data.Headers, dimensionColumns)
	valueCol := findColumn(data.Headers, valueColumns)

	var scores []evaluation.Score
	if dimensionCol != "" && valueCol != "" {
		for n, row := range data.Rows {
			value, err := parseNumber(row[valueCol])
			if err != nil {
				return nil, errors.ImportError(path, fmt.Errorf("line %d: %w", data.Lines[n], err))
			}
			scores = append(scores, evaluation.Score{
				EmployeeID: core.EmployeeID(row[employeeCol]),
				Segment:    row[segmentCol],
				Dimension:  row[dimensionCol],
				Value:      value,
			})
		}
	} else {
		dims := otherColumns(data.Headers, employeeCol, segmentCol)
		if len(dims) == 0 {
			return nil, errors.ImportError(path, fmt.Errorf("no dimension columns found"))
		}
		for n, row := range data.Rows {
			for _, dim := range dims {
				cell := row[dim]
				if cell == "" {
					continue
				}
				value, err := parseNumber(cell)
				if err != nil {
					return nil, errors.ImportError(path, fmt.Errorf("line %d, column %s: %w", data.Lines[n], dim, err))
				}
				scores = append(scores, evaluation.Score{
					EmployeeID: core.EmployeeID(row[employeeCol]),
					Segment:    row[segmentCol],
					Dimension:  dim,
					Value:      value,
				})
			}
		}
	}

	for _, s := range scores {
		if err := s.Validate(); err != nil {
			return nil, errors.ImportError(path, err)
		}
	}
	i.logger.Info("Imported %d scores from %s", len(scores), path)
	return scores, nil
}

// ImportItemResponses reads Likert answers to instrument items
func (i *Importer) ImportItemResponses(ctx context.Context, path string) ([]evaluation.ItemResponse, error) {
	data, err := i.read(ctx, path)
	if err != nil {
		return nil, err
	}

	respondentCol := findColumn(data.Headers, respondentColumns)
	if respondentCol == "" {
		return nil, errors.ImportError(path, fmt.Errorf("missing respondent column (one of %s)", strings.Join(respondentColumns, ", ")))
	}
	instrumentCol := findColumn(data.Headers, instrumentColumns)
	itemCol := findColumn(data.Headers, itemColumns)
	valueCol := findColumn(data.Headers, valueColumns)

	var responses []evaluation.ItemResponse
	add := func(n int, row RawRowData, item, cell string) error {
		if row[respondentCol] == "" {
			return fmt.Errorf("line %d: missing respondent", data.Lines[n])
		}
		value, err := parseNumber(cell)
		if err != nil {
			return fmt.Errorf("line %d, item %s: %w", data.Lines[n], item, err)
		}
		responses = append(responses, evaluation.ItemResponse{
			InstrumentID: core.ParseInstrumentID(row[instrumentCol]),
			ItemCode:     item,
			RespondentID: row[respondentCol],
			Value:        value,
		})
		return nil
	}

	if itemCol != "" && valueCol != "" {
		for n, row := range data.Rows {
			if err := add(n, row, row[itemCol], row[valueCol]); err != nil {
				return nil, errors.ImportError(path, err)
			}
		}
	} else {
		items := otherColumns(data.Headers, respondentCol, instrumentCol)
		if len(items) == 0 {
			return nil, errors.ImportError(path, fmt.Errorf("no item columns found"))
		}
		for n, row := range data.Rows {
			for _, item := range items {
				if row[item] == "" {
					continue
				}
				if err := add(n, row, item, row[item]); err != nil {
					return nil, errors.ImportError(path, err)
				}
			}
		}
	}

	i.logger.Info("Imported %d item responses from %s", len(responses), path)
	return responses, nil
}

// ReadColumn reads the numeric cells of one column, or of the first column when column
// is empty. Blank cells are skipped.
func (i *Importer) ReadColumn(ctx context.Context, path, column string) ([]float64, error) {
	data, err := i.read(ctx, path)
	if err != nil {
		return nil, err
	}
	if column == "" {
		if len(data.Headers) == 0 {
			return nil, errors.ImportError(path, fmt.Errorf("file has no columns"))
		}
		column = data.Headers[0]
	}
	column = strings.ToLower(strings.TrimSpace(column))
	if findColumn(data.Headers, []string{column}) == "" {
		return nil, errors.ImportError(path, fmt.Errorf("column %q not found", column))
	}

	values := make([]float64, 0, len(data.Rows))
	for r, row := range data.Rows {
		cell := strings.TrimSpace(row[column])
		if cell == "" {
			continue
		}
		v, err := parseNumber(cell)
		if err != nil {
			return nil, errors.ImportError(path, fmt.Errorf("line %d: %w", data.Lines[r], err))
		}
		values = append(values, v)
	}
	return values, nil
}

// findColumn returns the first header matching one of names, or ""
func findColumn(headers []string, names []string) string {
	for _, name := range names {
		for _, h := range headers {
			if h == name {
				return h
			}
		}
	}
	return ""
}

// otherColumns lists non-empty headers except the excluded ones, in file order
func otherColumns(headers []string, exclude ...string) []string {
	var out []string
	for _, h := range headers {
		if h == "" {
			continue
		}
		skip := false
		for _, e := range exclude {
			if e != "" && h == e {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, h)
		}
	}
	return out
}

// parseNumber accepts a decimal comma when the cell has no decimal point
func parseNumber(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", cell)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %q", cell)
	}
	return v, nil
}
