package analytics

import (
	"fmt"
	"math"
	"sort"
)

// EquityThreshold is the absolute mean gap below which two groups count as equitable.
const EquityThreshold = 5.0

// EquityResult compares the means of two groups.
type EquityResult struct {
	Mean1          float64 `json:"mean1"`
	Mean2          float64 `json:"mean2"`
	AbsoluteGap    float64 `json:"absolute_gap"`
	RelativeGap    float64 `json:"relative_gap"`
	Ratio          float64 `json:"ratio"`
	IsEquitable    bool    `json:"is_equitable"`
	Interpretation string  `json:"interpretation"`
}

// EquityIndex reports the gap mean1-mean2, the gap relative to mean2 (percent), the ratio
// mean1/mean2 and whether |gap| < 5.
func EquityIndex(group1, group2 []float64) EquityResult {
	m1, m2 := Mean(group1), Mean(group2)
	gap := m1 - m2

	var relative, ratio float64
	if m2 != 0 {
		relative = gap / m2 * 100
		ratio = m1 / m2
	}

	var interpretation string
	switch {
	case math.Abs(gap) < 3:
		interpretation = "Alta equidad: las diferencias entre grupos son mínimas"
	case gap > 0:
		interpretation = fmt.Sprintf("El primer grupo supera al segundo en %.2f puntos", gap)
	default:
		interpretation = fmt.Sprintf("El segundo grupo supera al primero en %.2f puntos", -gap)
	}

	return EquityResult{
		Mean1:          Round(m1, 2),
		Mean2:          Round(m2, 2),
		AbsoluteGap:    Round(gap, 2),
		RelativeGap:    Round(relative, 2),
		Ratio:          Round(ratio, 4),
		IsEquitable:    math.Abs(gap) < EquityThreshold,
		Interpretation: interpretation,
	}
}

// GiniCoefficient returns sum|xi-xj| / (2 n^2 mean) over all ordered pairs. Fewer than
// two values or a zero mean yield 0.
func GiniCoefficient(data []float64) float64 {
	n := len(data)
	m := Mean(data)
	if n < 2 || m == 0 {
		return 0
	}
	var sum float64
	for _, a := range data {
		for _, b := range data {
			sum += math.Abs(a - b)
		}
	}
	return Round(sum/(2*float64(n)*float64(n)*m), 4)
}

// LabeledGroup is a named sample.
type LabeledGroup struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// PairwiseGap compares two groups of a gap analysis.
type PairwiseGap struct {
	Group1        string  `json:"group1"`
	Group2        string  `json:"group2"`
	Gap           float64 `json:"gap"`
	RelativeGap   float64 `json:"relative_gap"`
	PValue        float64 `json:"p_value"`
	IsSignificant bool    `json:"is_significant"`
}

// GapAnalysisResult summarizes gaps between several groups.
type GapAnalysisResult struct {
	Groups            []GroupStats  `json:"groups"`
	Gaps              []PairwiseGap `json:"gaps"`
	MostAdvantaged    string        `json:"most_advantaged"`
	LeastAdvantaged   string        `json:"least_advantaged"`
	MaxGap            float64       `json:"max_gap"`
	OverallDispersion float64       `json:"overall_dispersion"`
	Interpretation    string        `json:"interpretation"`
}

// CalculateGapAnalysis runs the gap analysis with the default analyzer.
func CalculateGapAnalysis(groups []LabeledGroup) GapAnalysisResult {
	return defaultAnalyzer.CalculateGapAnalysis(groups)
}

// CalculateGapAnalysis computes every pairwise gap with a Welch t-test for significance,
// ranks groups by mean and measures dispersion as the standard deviation of group means.
// Groups keep their input order; ties in the ranking favour the earlier group.
func (a *Analyzer) CalculateGapAnalysis(groups []LabeledGroup) GapAnalysisResult {
	if len(groups) < 2 {
		return GapAnalysisResult{Interpretation: "Se requieren al menos 2 grupos para el análisis de brechas"}
	}

	stats := make([]GroupStats, len(groups))
	means := make([]float64, len(groups))
	for i, g := range groups {
		means[i] = Mean(g.Values)
		stats[i] = GroupStats{
			Name:   g.Name,
			N:      len(g.Values),
			Mean:   Round(means[i], 2),
			StdDev: Round(StandardDeviation(g.Values, true), 2),
		}
	}

	var gaps []PairwiseGap
	var maxGap float64
	for i := 0; i < len(groups); i++ {
		for j := i + 1; j < len(groups); j++ {
			gap := means[i] - means[j]
			var relative float64
			if means[j] != 0 {
				relative = gap / means[j] * 100
			}
			test := a.TTestIndependent(groups[i].Values, groups[j].Values)
			gaps = append(gaps, PairwiseGap{
				Group1:        groups[i].Name,
				Group2:        groups[j].Name,
				Gap:           Round(gap, 2),
				RelativeGap:   Round(relative, 2),
				PValue:        test.PValue,
				IsSignificant: test.IsSignificant,
			})
			maxGap = math.Max(maxGap, math.Abs(gap))
		}
	}

	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool { return means[order[x]] > means[order[y]] })
	most := groups[order[0]].Name
	least := groups[order[len(order)-1]].Name

	significant := 0
	for _, g := range gaps {
		if g.IsSignificant {
			significant++
		}
	}

	interpretation := fmt.Sprintf("No se detectan brechas significativas; la brecha máxima es de %.2f puntos", maxGap)
	if significant > 0 {
		interpretation = fmt.Sprintf("Se detectaron %d brechas significativas; la mayor separa a %s (más favorecido) de %s (menos favorecido) con %.2f puntos",
			significant, most, least, maxGap)
	}

	return GapAnalysisResult{
		Groups:            stats,
		Gaps:              gaps,
		MostAdvantaged:    most,
		LeastAdvantaged:   least,
		MaxGap:            Round(maxGap, 2),
		OverallDispersion: Round(StandardDeviation(means, true), 2),
		Interpretation:    interpretation,
	}
}
