package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquityIndex(t *testing.T) {
	res := EquityIndex([]float64{80, 82, 84}, []float64{78, 80, 82})

	assert.Equal(t, 82.0, res.Mean1)
	assert.Equal(t, 80.0, res.Mean2)
	assert.Equal(t, 2.0, res.AbsoluteGap)
	assert.Equal(t, 2.5, res.RelativeGap)
	assert.Equal(t, 1.025, res.Ratio)
	assert.True(t, res.IsEquitable)

	wide := EquityIndex([]float64{90, 90}, []float64{80, 80})
	assert.Equal(t, 10.0, wide.AbsoluteGap)
	assert.False(t, wide.IsEquitable)

	zero := EquityIndex([]float64{5}, []float64{0})
	assert.Equal(t, 0.0, zero.RelativeGap)
	assert.Equal(t, 0.0, zero.Ratio)
}

func TestGiniCoefficient(t *testing.T) {
	assert.Equal(t, 0.0, GiniCoefficient([]float64{5, 5, 5, 5}))
	assert.Equal(t, 0.75, GiniCoefficient([]float64{0, 0, 0, 100}))
	assert.Greater(t, GiniCoefficient([]float64{0, 0, 0, 100}), 0.7)
	assert.Equal(t, 0.0, GiniCoefficient([]float64{42}))
	assert.Equal(t, 0.0, GiniCoefficient([]float64{0, 0}))
}

func TestCalculateGapAnalysis(t *testing.T) {
	res := CalculateGapAnalysis([]LabeledGroup{
		{Name: "A", Values: []float64{70, 72, 74}},
		{Name: "B", Values: []float64{80, 82, 84}},
		{Name: "C", Values: []float64{90, 92, 94}},
	})

	require.Len(t, res.Groups, 3)
	assert.Equal(t, "A", res.Groups[0].Name)
	require.Len(t, res.Gaps, 3)
	assert.Equal(t, "A", res.Gaps[0].Group1)
	assert.Equal(t, "B", res.Gaps[0].Group2)
	assert.Equal(t, -10.0, res.Gaps[0].Gap)
	assert.Equal(t, -20.0, res.Gaps[1].Gap)
	assert.False(t, res.Gaps[0].IsSignificant)
	assert.True(t, res.Gaps[1].IsSignificant)

	assert.Equal(t, "C", res.MostAdvantaged)
	assert.Equal(t, "A", res.LeastAdvantaged)
	assert.Equal(t, 20.0, res.MaxGap)
	assert.Equal(t, 10.0, res.OverallDispersion)
}

func TestCalculateGapAnalysisNeedsTwoGroups(t *testing.T) {
	res := CalculateGapAnalysis([]LabeledGroup{{Name: "A", Values: []float64{1, 2}}})

	assert.Empty(t, res.Gaps)
	assert.NotEmpty(t, res.Interpretation)
}
