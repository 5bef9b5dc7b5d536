package analytics

import "math"

// OutlierType classifies how far a value lies outside the IQR fences.
type OutlierType string

const (
	OutlierExtremeHigh OutlierType = "extreme_high"
	OutlierMildHigh    OutlierType = "mild_high"
	OutlierMildLow     OutlierType = "mild_low"
	OutlierExtremeLow  OutlierType = "extreme_low"
	OutlierHigh        OutlierType = "high"
	OutlierLow         OutlierType = "low"
)

// DefaultZScoreThreshold is used by DetectOutliersZScore when no positive threshold is given.
const DefaultZScoreThreshold = 2.5

// Outlier is one flagged item.
type Outlier[T any] struct {
	Item   T           `json:"item"`
	Value  float64     `json:"value"`
	Type   OutlierType `json:"type"`
	ZScore float64     `json:"z_score,omitempty"`
}

// IQROutlierResult is the outcome of DetectOutliersIQR.
type IQROutlierResult[T any] struct {
	Outliers          []Outlier[T] `json:"outliers"`
	Q1                float64      `json:"q1"`
	Q3                float64      `json:"q3"`
	IQR               float64      `json:"iqr"`
	LowerBound        float64      `json:"lower_bound"`
	UpperBound        float64      `json:"upper_bound"`
	ExtremeLowerBound float64      `json:"extreme_lower_bound"`
	ExtremeUpperBound float64      `json:"extreme_upper_bound"`
	TotalCount        int          `json:"total_count"`
	OutlierCount      int          `json:"outlier_count"`
	ExtremeCount      int          `json:"extreme_count"`
	OutlierRate       float64      `json:"outlier_rate"`
}

// DetectOutliersIQR classifies items with Tukey fences: beyond Q3+3*IQR extreme_high,
// beyond Q3+1.5*IQR mild_high, below Q1-3*IQR extreme_low, below Q1-1.5*IQR mild_low.
// value extracts the number to test from each item.
func DetectOutliersIQR[T any](items []T, value func(T) float64) IQROutlierResult[T] {
	if len(items) == 0 {
		return IQROutlierResult[T]{}
	}
	values := make([]float64, len(items))
	for i, item := range items {
		values[i] = value(item)
	}
	sorted := sortedCopy(values)
	q1 := percentileSorted(sorted, 25)
	q3 := percentileSorted(sorted, 75)
	iqr := q3 - q1

	res := IQROutlierResult[T]{
		Q1:                Round(q1, 2),
		Q3:                Round(q3, 2),
		IQR:               Round(iqr, 2),
		LowerBound:        Round(q1-1.5*iqr, 2),
		UpperBound:        Round(q3+1.5*iqr, 2),
		ExtremeLowerBound: Round(q1-3*iqr, 2),
		ExtremeUpperBound: Round(q3+3*iqr, 2),
		TotalCount:        len(items),
	}

	for i, v := range values {
		var kind OutlierType
		switch {
		case v > q3+3*iqr:
			kind = OutlierExtremeHigh
		case v > q3+1.5*iqr:
			kind = OutlierMildHigh
		case v < q1-3*iqr:
			kind = OutlierExtremeLow
		case v < q1-1.5*iqr:
			kind = OutlierMildLow
		default:
			continue
		}
		if kind == OutlierExtremeHigh || kind == OutlierExtremeLow {
			res.ExtremeCount++
		}
		res.Outliers = append(res.Outliers, Outlier[T]{Item: items[i], Value: v, Type: kind})
	}

	res.OutlierCount = len(res.Outliers)
	res.OutlierRate = Round(float64(res.OutlierCount)/float64(len(items))*100, 2)
	return res
}

// ZScoreOutlierResult is the outcome of DetectOutliersZScore.
type ZScoreOutlierResult[T any] struct {
	Outliers     []Outlier[T] `json:"outliers"`
	Mean         float64      `json:"mean"`
	StdDev       float64      `json:"std_dev"`
	Threshold    float64      `json:"threshold"`
	TotalCount   int          `json:"total_count"`
	OutlierCount int          `json:"outlier_count"`
	OutlierRate  float64      `json:"outlier_rate"`
}

// DetectOutliersZScore flags items whose |z| exceeds threshold (2.5 when threshold <= 0).
// A sample without spread has no outliers.
func DetectOutliersZScore[T any](items []T, value func(T) float64, threshold float64) ZScoreOutlierResult[T] {
	if threshold <= 0 {
		threshold = DefaultZScoreThreshold
	}
	res := ZScoreOutlierResult[T]{Threshold: threshold, TotalCount: len(items)}
	if len(items) == 0 {
		return res
	}

	values := make([]float64, len(items))
	for i, item := range items {
		values[i] = value(item)
	}
	m := Mean(values)
	sd := StandardDeviation(values, true)
	res.Mean = Round(m, 2)
	res.StdDev = Round(sd, 2)
	if sd == 0 {
		return res
	}

	for i, v := range values {
		z := (v - m) / sd
		if math.Abs(z) <= threshold {
			continue
		}
		kind := OutlierHigh
		if z < 0 {
			kind = OutlierLow
		}
		res.Outliers = append(res.Outliers, Outlier[T]{Item: items[i], Value: v, Type: kind, ZScore: Round(z, 4)})
	}
	res.OutlierCount = len(res.Outliers)
	res.OutlierRate = Round(float64(res.OutlierCount)/float64(len(items))*100, 2)
	return res
}
