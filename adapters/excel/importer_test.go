package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"evalytics/domain/core"
	"evalytics/domain/evaluation"
	"evalytics/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "scores.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func newImporter() *Importer {
	return NewImporter(DefaultConfig(), nil)
}

func TestImportScoresLongCSV(t *testing.T) {
	path := writeFile(t, "scores.csv", "Employee_ID,Segmento,Dimension,Puntaje\n"+
		"e1,ventas,logro,80\n"+
		"\n"+
		"e2,it,logro,\"72,5\"\n")

	scores, err := newImporter().ImportScores(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, evaluation.Score{EmployeeID: "e1", Segment: "ventas", Dimension: "logro", Value: 80}, scores[0])
	assert.Equal(t, 72.5, scores[1].Value)
}

func TestImportScoresWideCSV(t *testing.T) {
	path := writeFile(t, "scores.csv", "empleado,area,liderazgo,comunicacion\n"+
		"e1,ventas,80,90\n"+
		"e2,it,,70\n")

	scores, err := newImporter().ImportScores(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, scores, 3)
	assert.Equal(t, "liderazgo", scores[0].Dimension)
	assert.Equal(t, "comunicacion", scores[1].Dimension)
	assert.Equal(t, core.EmployeeID("e2"), scores[2].EmployeeID)
	assert.Equal(t, "it", scores[2].Segment)
	assert.Equal(t, 70.0, scores[2].Value)
}

func TestImportScoresWideXLSX(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"employee_id", "segment", "logro"},
		{"e1", "ventas", 81.5},
		{"e2", "it", 64},
	})

	scores, err := newImporter().ImportScores(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, 81.5, scores[0].Value)
	assert.Equal(t, "logro", scores[1].Dimension)
}

func TestImportScoresErrors(t *testing.T) {
	ctx := context.Background()
	imp := newImporter()

	_, err := imp.ImportScores(ctx, filepath.Join(t.TempDir(), "missing.csv"))
	assert.Equal(t, errors.CodeImportError, errors.GetCode(err))

	_, err = imp.ImportScores(ctx, writeFile(t, "a.csv", "name,logro\nx,1\n"))
	assert.Equal(t, errors.CodeImportError, errors.GetCode(err))

	_, err = imp.ImportScores(ctx, writeFile(t, "b.csv", "employee_id,logro\ne1,alto\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = imp.ImportScores(ctx, writeFile(t, "c.csv", "employee_id\n"))
	assert.Equal(t, errors.CodeImportError, errors.GetCode(err))
}

func TestImportItemResponsesLong(t *testing.T) {
	path := writeFile(t, "items.csv", "respondent_id,instrument_id,item_code,value\n"+
		"r1,clima,q1,4\n"+
		"r1,clima,q2,5\n")

	responses, err := newImporter().ImportItemResponses(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, evaluation.ItemResponse{InstrumentID: "clima", ItemCode: "q2", RespondentID: "r1", Value: 5}, responses[1])
}

func TestImportItemResponsesWide(t *testing.T) {
	path := writeFile(t, "items.csv", "evaluador;q1;q2;q3\n"+
		"r1;4;5;3\n"+
		"r2;2;;1\n")
	imp := NewImporter(Config{Comma: ';'}, nil)

	responses, err := imp.ImportItemResponses(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, responses, 5)
	assert.Equal(t, "q3", responses[4].ItemCode)
	assert.Equal(t, "r2", responses[4].RespondentID)
	assert.Equal(t, core.InstrumentID(""), responses[0].InstrumentID)

	items, matrix := evaluation.ItemMatrix(responses)
	assert.Equal(t, []string{"q1", "q2", "q3"}, items)
	assert.Equal(t, [][]float64{{4}, {5}, {3}}, matrix)
}

func TestImportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newImporter().ImportScores(ctx, "whatever.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseNumber(t *testing.T) {
	v, err := parseNumber(" 3,5 ")
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)

	v, err = parseNumber("1234.5")
	require.NoError(t, err)
	assert.Equal(t, 1234.5, v)

	_, err = parseNumber("NaN")
	assert.Error(t, err)
	_, err = parseNumber("")
	assert.Error(t, err)
}

func TestReadColumn(t *testing.T) {
	ctx := context.Background()
	imp := newImporter()
	path := writeFile(t, "values.csv", "puntaje,otro\n4,1\n\"3,5\",2\n,3\n5,4\n")

	values, err := imp.ReadColumn(ctx, path, "Puntaje")
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 3.5, 5}, values)

	first, err := imp.ReadColumn(ctx, path, "")
	require.NoError(t, err)
	assert.Equal(t, values, first)

	_, err = imp.ReadColumn(ctx, path, "missing")
	assert.Equal(t, errors.CodeImportError, errors.GetCode(err))
}
