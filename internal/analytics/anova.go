package analytics

import (
	"fmt"
	"sort"
)

// Significance grades a p-value into four tiers.
type Significance string

const (
	SignificanceVeryHigh Significance = "muy_significativo"
	SignificanceHigh     Significance = "significativo"
	SignificanceModerate Significance = "moderado"
	SignificanceNone     Significance = "no_significativo"
)

// ClassifySignificance maps p to a tier: <0.001, <0.01, <0.05, otherwise not significant.
func ClassifySignificance(p float64) Significance {
	switch {
	case p < 0.001:
		return SignificanceVeryHigh
	case p < 0.01:
		return SignificanceHigh
	case p < 0.05:
		return SignificanceModerate
	default:
		return SignificanceNone
	}
}

// AnovaResult is the raw outcome of AnovaOneWay.
type AnovaResult struct {
	FStatistic    float64 `json:"f_statistic"`
	PValue        float64 `json:"p_value"`
	DfBetween     int     `json:"df_between"`
	DfWithin      int     `json:"df_within"`
	IsSignificant bool    `json:"is_significant"`
}

type anovaSums struct {
	ssBetween, ssWithin float64
	dfBetween, dfWithin int
	f                   float64
}

// anovaCore drops empty groups and reports false when fewer than two groups remain or
// there are no residual degrees of freedom. A zero within-group sum of squares gives F=0.
func anovaCore(groups [][]float64) (anovaSums, bool) {
	var nonEmpty [][]float64
	var all []float64
	for _, g := range groups {
		if len(g) > 0 {
			nonEmpty = append(nonEmpty, g)
			all = append(all, g...)
		}
	}
	k, n := len(nonEmpty), len(all)
	if k < 2 || n <= k {
		return anovaSums{}, false
	}

	grand := Mean(all)
	var s anovaSums
	for _, g := range nonEmpty {
		m := Mean(g)
		s.ssBetween += float64(len(g)) * (m - grand) * (m - grand)
		for _, v := range g {
			s.ssWithin += (v - m) * (v - m)
		}
	}
	s.dfBetween = k - 1
	s.dfWithin = n - k

	msWithin := s.ssWithin / float64(s.dfWithin)
	if msWithin > 0 {
		s.f = (s.ssBetween / float64(s.dfBetween)) / msWithin
	}
	return s, true
}

// AnovaOneWay runs the raw one-way ANOVA with the default analyzer.
func AnovaOneWay(groups [][]float64) AnovaResult {
	return defaultAnalyzer.AnovaOneWay(groups)
}

// AnovaOneWay returns F and its p-value for the given groups.
func (a *Analyzer) AnovaOneWay(groups [][]float64) AnovaResult {
	s, ok := anovaCore(groups)
	if !ok {
		return AnovaResult{PValue: 1}
	}
	p := a.dist.FPValue(s.f, float64(s.dfBetween), float64(s.dfWithin))
	return AnovaResult{
		FStatistic:    Round(s.f, 4),
		PValue:        Round(p, 4),
		DfBetween:     s.dfBetween,
		DfWithin:      s.dfWithin,
		IsSignificant: p < SignificanceLevel,
	}
}

// GroupStats summarizes one group of a comparison.
type GroupStats struct {
	Name   string  `json:"name"`
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// ANOVAResult is the detailed outcome of OneWayANOVA.
type ANOVAResult struct {
	FStatistic     float64      `json:"f_statistic"`
	PValue         float64      `json:"p_value"`
	DfBetween      int          `json:"df_between"`
	DfWithin       int          `json:"df_within"`
	SSBetween      float64      `json:"ss_between"`
	SSWithin       float64      `json:"ss_within"`
	MSBetween      float64      `json:"ms_between"`
	MSWithin       float64      `json:"ms_within"`
	EtaSquared     float64      `json:"eta_squared"`
	EffectSize     string       `json:"effect_size"`
	Groups         []GroupStats `json:"groups"`
	Significance   Significance `json:"significance"`
	IsSignificant  bool         `json:"is_significant"`
	Interpretation string       `json:"interpretation"`
}

// OneWayANOVA runs the detailed one-way ANOVA with the default analyzer.
func OneWayANOVA(groups map[string][]float64) ANOVAResult {
	return defaultAnalyzer.OneWayANOVA(groups)
}

// OneWayANOVA compares named groups, adding per-group statistics, eta-squared and a
// four-tier significance grade. Groups are reported in name order.
func (a *Analyzer) OneWayANOVA(groups map[string][]float64) ANOVAResult {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	ordered := make([][]float64, len(names))
	stats := make([]GroupStats, len(names))
	for i, name := range names {
		ordered[i] = groups[name]
		stats[i] = GroupStats{
			Name:   name,
			N:      len(groups[name]),
			Mean:   Round(Mean(groups[name]), 2),
			StdDev: Round(StandardDeviation(groups[name], true), 2),
		}
	}

	s, ok := anovaCore(ordered)
	if !ok {
		return ANOVAResult{
			PValue:         1,
			Groups:         stats,
			Significance:   SignificanceNone,
			EffectSize:     etaSquaredLabel(0),
			Interpretation: "Datos insuficientes para el ANOVA: se requieren al menos 2 grupos con observaciones y más observaciones que grupos",
		}
	}

	p := a.dist.FPValue(s.f, float64(s.dfBetween), float64(s.dfWithin))
	var eta float64
	if total := s.ssBetween + s.ssWithin; total > 0 {
		eta = s.ssBetween / total
	}
	significance := ClassifySignificance(p)

	return ANOVAResult{
		FStatistic:     Round(s.f, 4),
		PValue:         Round(p, 4),
		DfBetween:      s.dfBetween,
		DfWithin:       s.dfWithin,
		SSBetween:      Round(s.ssBetween, 4),
		SSWithin:       Round(s.ssWithin, 4),
		MSBetween:      Round(s.ssBetween/float64(s.dfBetween), 4),
		MSWithin:       Round(s.ssWithin/float64(s.dfWithin), 4),
		EtaSquared:     Round(eta, 4),
		EffectSize:     etaSquaredLabel(eta),
		Groups:         stats,
		Significance:   significance,
		IsSignificant:  p < SignificanceLevel,
		Interpretation: anovaInterpretation(significance, eta, p),
	}
}

// etaSquaredLabel follows Cohen's conventions: 0.01 small, 0.06 medium, 0.14 large.
func etaSquaredLabel(eta float64) string {
	switch {
	case eta < 0.01:
		return "insignificante"
	case eta < 0.06:
		return "pequeno"
	case eta < 0.14:
		return "mediano"
	default:
		return "grande"
	}
}

func anovaInterpretation(s Significance, eta, p float64) string {
	if s == SignificanceNone {
		return fmt.Sprintf("No hay diferencias significativas entre los grupos (p = %.4f)", p)
	}
	return fmt.Sprintf("Existen diferencias significativas entre los grupos (p = %.4f); la pertenencia al grupo explica el %.1f%% de la varianza",
		p, eta*100)
}
