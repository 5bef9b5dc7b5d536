// Package analytics implements the statistics used by performance-evaluation reports:
// descriptive statistics, hypothesis tests, correlation, equity and gap analysis,
// reliability of instruments, outlier detection, clustering, risk scoring and regression.
//
// Every function is pure. Inputs are never mutated; sorting always happens on copies.
// Insufficient input yields a zero-valued result with an explanatory interpretation
// instead of an error. Percentile is the only operation that fails on invalid input.
package analytics

import (
	"math"
	"sort"

	apperrors "evalytics/internal/errors"

	"github.com/montanaflynn/stats"
)

// ErrPercentileOutOfRange is returned (wrapped) by Percentile when p is outside [0, 100].
var ErrPercentileOutOfRange = apperrors.New(apperrors.CodeInvalidInput, "percentile must be between 0 and 100")

// Mean returns the arithmetic mean, or 0 for an empty sample.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	m, err := stats.Mean(data)
	if err != nil {
		return 0
	}
	return m
}

// Median returns the middle value of the sorted sample; for an even count it averages
// the two middle values. Empty samples return 0.
func Median(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	m, err := stats.Median(data)
	if err != nil {
		return 0
	}
	return m
}

// Mode returns the most frequent values in ascending order. A single-element slice means
// the mode is unique; when several values tie for the highest count all of them are
// returned. Empty samples return nil.
func Mode(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	counts := make(map[float64]int, len(data))
	maxCount := 0
	for _, v := range data {
		counts[v]++
		if counts[v] > maxCount {
			maxCount = counts[v]
		}
	}
	modes := make([]float64, 0, 1)
	for v, c := range counts {
		if c == maxCount {
			modes = append(modes, v)
		}
	}
	sort.Float64s(modes)
	return modes
}

// Variance returns the sample (n-1) or population (n) variance. Samples with fewer than
// two values return 0.
func Variance(data []float64, sample bool) float64 {
	if len(data) < 2 {
		return 0
	}
	var (
		v   float64
		err error
	)
	if sample {
		v, err = stats.SampleVariance(data)
	} else {
		v, err = stats.PopulationVariance(data)
	}
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}

// StandardDeviation is the square root of Variance.
func StandardDeviation(data []float64, sample bool) float64 {
	return math.Sqrt(Variance(data, sample))
}

// Percentile returns the p-th percentile using linear interpolation between the ranked
// positions floor and ceil of (p/100)*(n-1). Empty samples return 0.
func Percentile(data []float64, p float64) (float64, error) {
	if p < 0 || p > 100 || math.IsNaN(p) {
		return 0, apperrors.Wrapf(ErrPercentileOutOfRange, "percentile %v out of range", p)
	}
	if len(data) == 0 {
		return 0, nil
	}
	return percentileSorted(sortedCopy(data), p), nil
}

// percentileSorted assumes sorted is ascending and p is already validated.
func percentileSorted(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	index := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Range returns max - min, or 0 for an empty sample.
func Range(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	lo, _ := stats.Min(data)
	hi, _ := stats.Max(data)
	return hi - lo
}

// InterquartileRange returns Q3 - Q1.
func InterquartileRange(data []float64) float64 {
	q1, _ := Percentile(data, 25)
	q3, _ := Percentile(data, 75)
	return q3 - q1
}

// DescriptiveStats is the full descriptive bundle of a sample.
type DescriptiveStats struct {
	N                      int       `json:"n"`
	Mean                   float64   `json:"mean"`
	Median                 float64   `json:"median"`
	Mode                   []float64 `json:"mode"`
	Variance               float64   `json:"variance"`
	StdDev                 float64   `json:"std_dev"`
	Min                    float64   `json:"min"`
	Max                    float64   `json:"max"`
	Range                  float64   `json:"range"`
	Q1                     float64   `json:"q1"`
	Q3                     float64   `json:"q3"`
	IQR                    float64   `json:"iqr"`
	Skewness               float64   `json:"skewness"`
	Kurtosis               float64   `json:"kurtosis"`
	CoefficientOfVariation float64   `json:"coefficient_of_variation"`
}

// DescribeSample computes every descriptive statistic of data at once.
func DescribeSample(data []float64) DescriptiveStats {
	if len(data) == 0 {
		return DescriptiveStats{}
	}
	sorted := sortedCopy(data)
	q1 := percentileSorted(sorted, 25)
	q3 := percentileSorted(sorted, 75)
	return DescriptiveStats{
		N:                      len(data),
		Mean:                   Round(Mean(data), 2),
		Median:                 Round(Median(data), 2),
		Mode:                   roundAll(Mode(data), 2),
		Variance:               Round(Variance(data, true), 4),
		StdDev:                 Round(StandardDeviation(data, true), 2),
		Min:                    Round(sorted[0], 2),
		Max:                    Round(sorted[len(sorted)-1], 2),
		Range:                  Round(Range(data), 2),
		Q1:                     Round(q1, 2),
		Q3:                     Round(q3, 2),
		IQR:                    Round(q3-q1, 2),
		Skewness:               Round(Skewness(data), 4),
		Kurtosis:               Round(Kurtosis(data), 4),
		CoefficientOfVariation: Round(CoefficientOfVariation(data), 2),
	}
}

func sortedCopy(data []float64) []float64 {
	out := make([]float64, len(data))
	copy(out, data)
	sort.Float64s(out)
	return out
}
