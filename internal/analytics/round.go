package analytics

import "math"

// Round rounds value to the given number of decimals. NaN and infinities map to 0 so that
// result objects never carry non-finite numbers.
func Round(value float64, decimals int) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}

func roundAll(values []float64, decimals int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = Round(v, decimals)
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
