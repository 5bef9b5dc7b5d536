package analytics

import (
	"math"
	"sort"
)

// MinPredictivePairs is the number of valid observation pairs a predictor needs.
const MinPredictivePairs = 10

// PredictiveFactor ranks one predictor by its correlation with the target.
type PredictiveFactor struct {
	Name           string  `json:"name"`
	Correlation    float64 `json:"correlation"`
	Importance     float64 `json:"importance"`
	ValidPairs     int     `json:"valid_pairs"`
	Direction      string  `json:"direction"`
	Interpretation string  `json:"interpretation"`
}

// IdentifyPredictiveFactors correlates every predictor with target over the pairs where
// both values are finite. Predictors with fewer than 10 valid pairs are skipped. The
// result is sorted by descending importance (|r|*100), then by name.
func IdentifyPredictiveFactors(target []float64, predictors map[string][]float64) []PredictiveFactor {
	var factors []PredictiveFactor
	for name, values := range predictors {
		n := min(len(target), len(values))
		x := make([]float64, 0, n)
		y := make([]float64, 0, n)
		for i := 0; i < n; i++ {
			if isFinite(values[i]) && isFinite(target[i]) {
				x = append(x, values[i])
				y = append(y, target[i])
			}
		}
		if len(x) < MinPredictivePairs {
			continue
		}

		r := PearsonCorrelation(x, y)
		abs := math.Abs(r)
		interpretation := "Predictor débil: relación limitada con el resultado"
		switch {
		case abs >= 0.5:
			interpretation = "Predictor fuerte: relación considerable con el resultado"
		case abs >= 0.3:
			interpretation = "Predictor moderado: relación apreciable con el resultado"
		}
		direction := "positiva"
		if r < 0 {
			direction = "negativa"
		}

		factors = append(factors, PredictiveFactor{
			Name:           name,
			Correlation:    Round(r, 4),
			Importance:     Round(abs*100, 2),
			ValidPairs:     len(x),
			Direction:      direction,
			Interpretation: interpretation,
		})
	}

	sort.Slice(factors, func(i, j int) bool {
		if factors[i].Importance != factors[j].Importance {
			return factors[i].Importance > factors[j].Importance
		}
		return factors[i].Name < factors[j].Name
	})
	return factors
}
