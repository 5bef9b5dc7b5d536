package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkewness(t *testing.T) {
	assert.InDelta(t, 0.0, Skewness([]float64{1, 2, 3, 4, 5}), 1e-9)
	assert.Greater(t, Skewness([]float64{1, 1, 1, 1, 10}), 1.0)
	assert.Less(t, Skewness([]float64{10, 10, 10, 10, 1}), -1.0)
	assert.Equal(t, 0.0, Skewness([]float64{1, 2}))
	assert.Equal(t, 0.0, Skewness([]float64{4, 4, 4, 4}))
}

func TestKurtosis(t *testing.T) {
	uniform := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.InDelta(t, -1.2, Kurtosis(uniform), 1e-3)
	assert.Equal(t, "platicurtica", KurtosisInterpretation(Kurtosis(uniform)).Label)

	spike := []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 10}
	assert.Greater(t, Kurtosis(spike), 1.0)
	assert.Equal(t, "leptocurtica", KurtosisInterpretation(Kurtosis(spike)).Label)

	assert.Equal(t, 0.0, Kurtosis([]float64{1, 2, 3}))
	assert.Equal(t, "mesocurtica", KurtosisInterpretation(0.3).Label)
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.InDelta(t, 50.0, CoefficientOfVariation([]float64{10, 20, 30}), 1e-9)
	assert.Equal(t, 0.0, CoefficientOfVariation([]float64{-1, 1}))
}

func TestSkewnessInterpretation(t *testing.T) {
	tests := []struct {
		value float64
		label string
	}{
		{0.2, "simetrica"},
		{-0.49, "simetrica"},
		{0.7, "asimetrica_positiva_moderada"},
		{-0.7, "asimetrica_negativa_moderada"},
		{1.5, "asimetrica_positiva_fuerte"},
		{-2, "asimetrica_negativa_fuerte"},
	}
	for _, tt := range tests {
		got := SkewnessInterpretation(tt.value)
		assert.Equal(t, tt.label, got.Label, "skewness %v", tt.value)
		assert.NotEmpty(t, got.Description)
	}
}
