package analytics

// NormalizeToPercent min-max scales data to [0, 100]. A constant sample maps to 50.
func NormalizeToPercent(data []float64) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}
	sorted := sortedCopy(data)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	for i, v := range data {
		if hi == lo {
			out[i] = 50
			continue
		}
		out[i] = Round((v-lo)/(hi-lo)*100, 2)
	}
	return out
}

// Standardize converts data to z-scores with the sample standard deviation. A sample
// without spread maps to 0.
func Standardize(data []float64) []float64 {
	out := make([]float64, len(data))
	sd := StandardDeviation(data, true)
	if sd == 0 {
		return out
	}
	m := Mean(data)
	for i, v := range data {
		out[i] = Round((v-m)/sd, 4)
	}
	return out
}

// PercentileRanks returns (below + 0.5*equal)/n*100 for every value.
func PercentileRanks(data []float64) []float64 {
	n := float64(len(data))
	out := make([]float64, len(data))
	for i, v := range data {
		var below, equal float64
		for _, other := range data {
			switch {
			case other < v:
				below++
			case other == v:
				equal++
			}
		}
		out[i] = Round((below+0.5*equal)/n*100, 2)
	}
	return out
}
