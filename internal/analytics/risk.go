package analytics

import (
	"fmt"
	"math"
	"sort"
)

// RiskDirection tells whether high or low values of a factor signal risk.
type RiskDirection string

const (
	HigherIsRisk RiskDirection = "higher_is_risk"
	LowerIsRisk  RiskDirection = "lower_is_risk"
)

// RiskLevel grades a composite risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "bajo"
	RiskMedium   RiskLevel = "medio"
	RiskHigh     RiskLevel = "alto"
	RiskCritical RiskLevel = "critico"
)

// AlertThreshold is the normalized factor value above which a factor raises an alert.
const AlertThreshold = 0.5

// RiskFactor is one input of the composite score. Weight must be non-negative; negative
// weights count as 0.
type RiskFactor struct {
	Name      string        `json:"name"`
	Value     float64       `json:"value"`
	Weight    float64       `json:"weight"`
	Threshold float64       `json:"threshold"`
	Direction RiskDirection `json:"direction"`
}

// FactorContribution is the normalized, weighted contribution of one factor.
type FactorContribution struct {
	Name            string        `json:"name"`
	Value           float64       `json:"value"`
	Threshold       float64       `json:"threshold"`
	Weight          float64       `json:"weight"`
	Direction       RiskDirection `json:"direction"`
	NormalizedValue float64       `json:"normalized_value"`
	Contribution    float64       `json:"contribution"`
	Alert           bool          `json:"alert"`
}

// RiskScore is the outcome of CalculateRiskScore.
type RiskScore struct {
	TotalScore     float64              `json:"total_score"`
	Level          RiskLevel            `json:"level"`
	Factors        []FactorContribution `json:"factors"`
	AlertCount     int                  `json:"alert_count"`
	Interpretation string               `json:"interpretation"`
}

// NormalizeRiskFactor maps a factor to [0, 1]. For lower_is_risk the value is
// 1 - value/threshold below the threshold and 0 otherwise; for higher_is_risk it is
// min(1, (value-threshold)/threshold) above the threshold and 0 otherwise.
func NormalizeRiskFactor(f RiskFactor) float64 {
	var v float64
	switch f.Direction {
	case LowerIsRisk:
		if f.Value >= f.Threshold || f.Threshold == 0 {
			return 0
		}
		v = 1 - f.Value/f.Threshold
	default:
		if f.Value <= f.Threshold {
			return 0
		}
		if f.Threshold == 0 {
			return 1
		}
		v = (f.Value - f.Threshold) / f.Threshold
	}
	if !isFinite(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// ClassifyRisk grades a 0-100 score: <25 bajo, <50 medio, <75 alto, otherwise critico.
func ClassifyRisk(score float64) RiskLevel {
	switch {
	case score < 25:
		return RiskLow
	case score < 50:
		return RiskMedium
	case score < 75:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// CalculateRiskScore combines factors into a weighted average of their normalized values
// scaled to 0-100. Factors are returned by descending contribution and any factor whose
// normalized value exceeds 0.5 is flagged as an alert.
func CalculateRiskScore(factors []RiskFactor) RiskScore {
	contributions := make([]FactorContribution, len(factors))
	var weighted, weights float64
	alerts := 0
	for i, f := range factors {
		w := math.Max(0, f.Weight)
		norm := NormalizeRiskFactor(f)
		contribution := norm * w
		weighted += contribution
		weights += w
		alert := norm > AlertThreshold
		if alert {
			alerts++
		}
		direction := f.Direction
		if direction != LowerIsRisk {
			direction = HigherIsRisk
		}
		contributions[i] = FactorContribution{
			Name:            f.Name,
			Value:           f.Value,
			Threshold:       f.Threshold,
			Weight:          w,
			Direction:       direction,
			NormalizedValue: Round(norm, 4),
			Contribution:    Round(contribution, 4),
			Alert:           alert,
		}
	}
	sort.SliceStable(contributions, func(i, j int) bool {
		return contributions[i].Contribution > contributions[j].Contribution
	})

	var total float64
	if weights > 0 {
		total = math.Max(0, math.Min(100, weighted/weights*100))
	}
	level := ClassifyRisk(total)

	return RiskScore{
		TotalScore:     Round(total, 1),
		Level:          level,
		Factors:        contributions,
		AlertCount:     alerts,
		Interpretation: riskInterpretation(level, total, alerts),
	}
}

func riskInterpretation(level RiskLevel, score float64, alerts int) string {
	var text string
	switch level {
	case RiskLow:
		text = "Riesgo bajo: no se requieren acciones inmediatas"
	case RiskMedium:
		text = "Riesgo medio: se recomienda seguimiento periódico"
	case RiskHigh:
		text = "Riesgo alto: se recomienda un plan de acción a corto plazo"
	default:
		text = "Riesgo crítico: se requiere intervención inmediata"
	}
	return fmt.Sprintf("%s (puntuación %.1f, %d factores en alerta)", text, score, alerts)
}
