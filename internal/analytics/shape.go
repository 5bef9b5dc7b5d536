package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Interpretation pairs a discrete label with a human-readable description.
type Interpretation struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Skewness returns the bias-corrected third standardized moment,
// n/((n-1)(n-2)) * sum(z^3). Fewer than three values or zero spread yield 0.
func Skewness(data []float64) float64 {
	if len(data) < 3 || StandardDeviation(data, true) == 0 {
		return 0
	}
	s := stat.Skew(data, nil)
	if !isFinite(s) {
		return 0
	}
	return s
}

// Kurtosis returns the bias-corrected excess kurtosis (0 for a normal distribution):
// n(n+1)/((n-1)(n-2)(n-3)) * sum(z^4) - 3(n-1)^2/((n-2)(n-3)).
// Fewer than four values or zero spread yield 0.
func Kurtosis(data []float64) float64 {
	if len(data) < 4 || StandardDeviation(data, true) == 0 {
		return 0
	}
	k := stat.ExKurtosis(data, nil)
	if !isFinite(k) {
		return 0
	}
	return k
}

// CoefficientOfVariation returns stddev/mean*100, or 0 when the mean is 0.
func CoefficientOfVariation(data []float64) float64 {
	m := Mean(data)
	if m == 0 {
		return 0
	}
	return StandardDeviation(data, true) / m * 100
}

// SkewnessInterpretation classifies a skewness value.
//
//	|s| < 0.5        simetrica
//	0.5 <= |s| < 1   asimetrica_positiva_moderada / asimetrica_negativa_moderada
//	|s| >= 1         asimetrica_positiva_fuerte / asimetrica_negativa_fuerte
func SkewnessInterpretation(skewness float64) Interpretation {
	abs := math.Abs(skewness)
	switch {
	case abs < 0.5:
		return Interpretation{Label: "simetrica", Description: "La distribución es aproximadamente simétrica"}
	case abs < 1 && skewness > 0:
		return Interpretation{Label: "asimetrica_positiva_moderada", Description: "Asimetría positiva moderada: predominan puntuaciones bajas con algunas altas"}
	case abs < 1:
		return Interpretation{Label: "asimetrica_negativa_moderada", Description: "Asimetría negativa moderada: predominan puntuaciones altas con algunas bajas"}
	case skewness > 0:
		return Interpretation{Label: "asimetrica_positiva_fuerte", Description: "Asimetría positiva fuerte: la mayoría de las puntuaciones se concentran en valores bajos"}
	default:
		return Interpretation{Label: "asimetrica_negativa_fuerte", Description: "Asimetría negativa fuerte: la mayoría de las puntuaciones se concentran en valores altos"}
	}
}

// KurtosisInterpretation classifies an excess kurtosis value: above 1 leptocurtica,
// below -1 platicurtica, otherwise mesocurtica.
func KurtosisInterpretation(kurtosis float64) Interpretation {
	switch {
	case kurtosis > 1:
		return Interpretation{Label: "leptocurtica", Description: "Distribución apuntada: las puntuaciones se concentran alrededor de la media con colas pesadas"}
	case kurtosis < -1:
		return Interpretation{Label: "platicurtica", Description: "Distribución aplanada: las puntuaciones están dispersas sin un pico marcado"}
	default:
		return Interpretation{Label: "mesocurtica", Description: "Distribución con apuntamiento similar a la normal"}
	}
}
