package analytics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// CorrelationStrength buckets |r|.
type CorrelationStrength string

const (
	StrengthVeryWeak   CorrelationStrength = "muy_debil"
	StrengthWeak       CorrelationStrength = "debil"
	StrengthModerate   CorrelationStrength = "moderada"
	StrengthStrong     CorrelationStrength = "fuerte"
	StrengthVeryStrong CorrelationStrength = "muy_fuerte"
)

// PearsonCorrelation returns the product-moment correlation of x and y. Mismatched
// lengths, fewer than two pairs or a zero denominator yield 0.
func PearsonCorrelation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	if Variance(x, false) == 0 || Variance(y, false) == 0 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if !isFinite(r) {
		return 0
	}
	// Clamp floating-point overshoot.
	return math.Max(-1, math.Min(1, r))
}

// Ranks returns the 1-based mid-ranks of data: tied values share the average of the
// ranks they occupy.
func Ranks(data []float64) []float64 {
	n := len(data)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return data[idx[a]] < data[idx[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && data[idx[j+1]] == data[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

// SpearmanCorrelation is the Pearson correlation of the mid-ranks of x and y.
func SpearmanCorrelation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	return PearsonCorrelation(Ranks(x), Ranks(y))
}

// CorrelationMatrixResult is a symmetric all-pairs Pearson matrix. Variables are sorted
// by name; Values[i][j] correlates Variables[i] with Variables[j].
type CorrelationMatrixResult struct {
	Variables []string    `json:"variables"`
	Values    [][]float64 `json:"values"`
}

// Get returns the correlation between two named variables and whether both exist.
func (m CorrelationMatrixResult) Get(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, name := range m.Variables {
		if name == a {
			i = k
		}
		if name == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// CorrelationMatrix correlates every pair of variables. The diagonal is always 1.
func CorrelationMatrix(variables map[string][]float64) CorrelationMatrixResult {
	names := make([]string, 0, len(variables))
	for name := range variables {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make([][]float64, len(names))
	for i := range values {
		values[i] = make([]float64, len(names))
	}
	for i, a := range names {
		values[i][i] = 1
		for j := i + 1; j < len(names); j++ {
			r := Round(PearsonCorrelation(variables[a], variables[names[j]]), 4)
			values[i][j] = r
			values[j][i] = r
		}
	}
	return CorrelationMatrixResult{Variables: names, Values: values}
}

// CorrelationReading classifies a correlation coefficient.
type CorrelationReading struct {
	Coefficient   float64             `json:"coefficient"`
	Strength      CorrelationStrength `json:"strength"`
	Direction     string              `json:"direction"`
	IsSignificant bool                `json:"is_significant"`
	Description   string              `json:"description"`
}

// CorrelationInterpretation buckets |r| into five strengths (<0.2, <0.4, <0.6, <0.8, else)
// and flags |r| >= 0.3 as significant.
func CorrelationInterpretation(r float64) CorrelationReading {
	abs := math.Abs(r)
	var strength CorrelationStrength
	switch {
	case abs < 0.2:
		strength = StrengthVeryWeak
	case abs < 0.4:
		strength = StrengthWeak
	case abs < 0.6:
		strength = StrengthModerate
	case abs < 0.8:
		strength = StrengthStrong
	default:
		strength = StrengthVeryStrong
	}

	direction := "nula"
	switch {
	case r > 0:
		direction = "positiva"
	case r < 0:
		direction = "negativa"
	}

	var description string
	if direction == "nula" {
		description = "No existe relación lineal entre las variables"
	} else {
		description = fmt.Sprintf("Correlación %s %s (r = %.2f)", direction, spanishStrength(strength), r)
	}

	return CorrelationReading{
		Coefficient:   Round(r, 4),
		Strength:      strength,
		Direction:     direction,
		IsSignificant: abs >= 0.3,
		Description:   description,
	}
}

func spanishStrength(s CorrelationStrength) string {
	switch s {
	case StrengthVeryWeak:
		return "muy débil"
	case StrengthWeak:
		return "débil"
	case StrengthModerate:
		return "moderada"
	case StrengthStrong:
		return "fuerte"
	default:
		return "muy fuerte"
	}
}
