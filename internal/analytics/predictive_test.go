package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifyPredictiveFactors(t *testing.T) {
	target := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	withGaps := make([]float64, len(target))
	double := make([]float64, len(target))
	inverse := make([]float64, len(target))
	for i, v := range target {
		withGaps[i] = 3 * v
		double[i] = 2 * v
		inverse[i] = 13 - v
	}
	withGaps[0], withGaps[1] = nan(), inf()

	factors := IdentifyPredictiveFactors(target, map[string][]float64{
		"fuerte":  double,
		"inverso": inverse,
		"con_nan": withGaps,
		"corto":   {1, 2, 3, 4, 5},
	})

	require.Len(t, factors, 3)
	assert.Equal(t, "con_nan", factors[0].Name)
	assert.Equal(t, 10, factors[0].ValidPairs)
	assert.Equal(t, "fuerte", factors[1].Name)
	assert.Equal(t, 12, factors[1].ValidPairs)
	assert.Equal(t, "inverso", factors[2].Name)
	assert.Equal(t, "negativa", factors[2].Direction)
	assert.Equal(t, -1.0, factors[2].Correlation)

	for _, f := range factors {
		assert.Equal(t, 100.0, f.Importance)
		assert.Contains(t, f.Interpretation, "fuerte")
	}
}

func TestIdentifyPredictiveFactorsNoneQualify(t *testing.T) {
	factors := IdentifyPredictiveFactors([]float64{1, 2, 3}, map[string][]float64{"a": {1, 2, 3}})

	assert.Empty(t, factors)
}
