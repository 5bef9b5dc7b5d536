package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeToPercent(t *testing.T) {
	assert.Equal(t, []float64{0, 50, 100}, NormalizeToPercent([]float64{10, 20, 30}))
	assert.Equal(t, []float64{50, 50}, NormalizeToPercent([]float64{7, 7}))
	assert.Empty(t, NormalizeToPercent(nil))
}

func TestStandardize(t *testing.T) {
	assert.Equal(t, []float64{-1, 0, 1}, Standardize([]float64{2, 4, 6}))
	assert.Equal(t, []float64{0, 0}, Standardize([]float64{3, 3}))
}

func TestStandardizeRoundTrip(t *testing.T) {
	data := []float64{3, 7, 11, 19}
	m, sd := Mean(data), StandardDeviation(data, true)

	for i, z := range Standardize(data) {
		assert.InDelta(t, data[i], z*sd+m, 1e-3)
	}
}

func TestPercentileRanks(t *testing.T) {
	assert.Equal(t, []float64{12.5, 50, 50, 87.5}, PercentileRanks([]float64{10, 20, 20, 30}))
}
