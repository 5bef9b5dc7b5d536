package analytics

import (
	"fmt"
	"sort"
)

// SegmentValue is one observation tagged with the segment it belongs to.
type SegmentValue struct {
	Value   float64 `json:"value"`
	Segment string  `json:"segment"`
}

// SegmentStatistics is the descriptive bundle of one segment.
type SegmentStatistics struct {
	Segment                string  `json:"segment"`
	Count                  int     `json:"count"`
	Mean                   float64 `json:"mean"`
	Median                 float64 `json:"median"`
	StdDev                 float64 `json:"std_dev"`
	Min                    float64 `json:"min"`
	Max                    float64 `json:"max"`
	Q1                     float64 `json:"q1"`
	Q3                     float64 `json:"q3"`
	P10                    float64 `json:"p10"`
	P90                    float64 `json:"p90"`
	Skewness               float64 `json:"skewness"`
	Kurtosis               float64 `json:"kurtosis"`
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
}

// CalculateSegmentStatistics groups records by segment, in first-seen order, and
// describes each segment.
func CalculateSegmentStatistics(records []SegmentValue) []SegmentStatistics {
	var order []string
	values := make(map[string][]float64)
	for _, r := range records {
		if _, seen := values[r.Segment]; !seen {
			order = append(order, r.Segment)
		}
		values[r.Segment] = append(values[r.Segment], r.Value)
	}

	out := make([]SegmentStatistics, 0, len(order))
	for _, segment := range order {
		data := values[segment]
		sorted := sortedCopy(data)
		out = append(out, SegmentStatistics{
			Segment:                segment,
			Count:                  len(data),
			Mean:                   Round(Mean(data), 2),
			Median:                 Round(Median(data), 2),
			StdDev:                 Round(StandardDeviation(data, true), 2),
			Min:                    Round(sorted[0], 2),
			Max:                    Round(sorted[len(sorted)-1], 2),
			Q1:                     Round(percentileSorted(sorted, 25), 2),
			Q3:                     Round(percentileSorted(sorted, 75), 2),
			P10:                    Round(percentileSorted(sorted, 10), 2),
			P90:                    Round(percentileSorted(sorted, 90), 2),
			Skewness:               Round(Skewness(data), 4),
			Kurtosis:               Round(Kurtosis(data), 4),
			CoefficientOfVariation: Round(CoefficientOfVariation(data), 2),
		})
	}
	return out
}

// SegmentRank places one segment in the comparison ranking.
type SegmentRank struct {
	Rank              int     `json:"rank"`
	Segment           string  `json:"segment"`
	Mean              float64 `json:"mean"`
	Count             int     `json:"count"`
	DifferenceFromTop float64 `json:"difference_from_top"`
}

// SegmentComparison ranks segments by mean and tests whether they differ.
type SegmentComparison struct {
	Ranking        []SegmentRank `json:"ranking"`
	Best           string        `json:"best"`
	Worst          string        `json:"worst"`
	Spread         float64       `json:"spread"`
	Anova          ANOVAResult   `json:"anova"`
	Interpretation string        `json:"interpretation"`
}

// MaxSyntheticCount caps the synthetic sample drawn per segment by CompareSegments.
const MaxSyntheticCount = 100000

// CompareSegments compares segments with the default analyzer.
func CompareSegments(segments []SegmentStatistics) SegmentComparison {
	return defaultAnalyzer.CompareSegments(segments)
}

// CompareSegments ranks segments by descending mean. Because only summaries are
// available, the ANOVA runs on synthetic samples of Count values drawn as
// mean + stddev*(u-0.5)*2 with u from the analyzer's random source, so the ANOVA part is
// only reproducible with a seeded source. Segments with a Count below 1 are ranked but
// left out of the ANOVA; counts above MaxSyntheticCount are drawn as MaxSyntheticCount.
func (a *Analyzer) CompareSegments(segments []SegmentStatistics) SegmentComparison {
	if len(segments) == 0 {
		return SegmentComparison{Interpretation: "No hay segmentos para comparar"}
	}

	ranked := make([]SegmentStatistics, len(segments))
	copy(ranked, segments)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Mean > ranked[j].Mean })

	top := ranked[0].Mean
	ranking := make([]SegmentRank, len(ranked))
	synthetic := make(map[string][]float64, len(ranked))
	for i, s := range ranked {
		ranking[i] = SegmentRank{
			Rank:              i + 1,
			Segment:           s.Segment,
			Mean:              s.Mean,
			Count:             s.Count,
			DifferenceFromTop: Round(top-s.Mean, 2),
		}
		if s.Count < 1 {
			continue
		}
		sample := make([]float64, min(s.Count, MaxSyntheticCount))
		for k := range sample {
			sample[k] = s.Mean + s.StdDev*(a.rng.Float64()-0.5)*2
		}
		synthetic[s.Segment] = sample
	}

	best, worst := ranked[0].Segment, ranked[len(ranked)-1].Segment
	spread := Round(top-ranked[len(ranked)-1].Mean, 2)
	anova := a.OneWayANOVA(synthetic)

	interpretation := fmt.Sprintf("%s obtiene el mejor desempeño y %s el más bajo (diferencia de %.2f puntos)", best, worst, spread)
	if anova.IsSignificant {
		interpretation += "; las diferencias entre segmentos son estadísticamente significativas"
	} else {
		interpretation += "; las diferencias entre segmentos no son estadísticamente significativas"
	}

	return SegmentComparison{
		Ranking:        ranking,
		Best:           best,
		Worst:          worst,
		Spread:         spread,
		Anova:          anova,
		Interpretation: interpretation,
	}
}
