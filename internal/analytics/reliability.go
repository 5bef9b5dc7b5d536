package analytics

import "fmt"

// ReliabilityLevel grades Cronbach's alpha.
type ReliabilityLevel string

const (
	ReliabilityExcellent    ReliabilityLevel = "excelente"
	ReliabilityGood         ReliabilityLevel = "bueno"
	ReliabilityAcceptable   ReliabilityLevel = "aceptable"
	ReliabilityQuestionable ReliabilityLevel = "cuestionable"
	ReliabilityPoor         ReliabilityLevel = "pobre"
	ReliabilityUnacceptable ReliabilityLevel = "inaceptable"
)

// ClassifyReliability grades alpha: >=0.9 excelente, >=0.8 bueno, >=0.7 aceptable,
// >=0.6 cuestionable, >=0.5 pobre, otherwise inaceptable.
func ClassifyReliability(alpha float64) ReliabilityLevel {
	switch {
	case alpha >= 0.9:
		return ReliabilityExcellent
	case alpha >= 0.8:
		return ReliabilityGood
	case alpha >= 0.7:
		return ReliabilityAcceptable
	case alpha >= 0.6:
		return ReliabilityQuestionable
	case alpha >= 0.5:
		return ReliabilityPoor
	default:
		return ReliabilityUnacceptable
	}
}

// ReliabilityResult is the outcome of CronbachAlpha.
type ReliabilityResult struct {
	Alpha           float64          `json:"alpha"`
	ItemCount       int              `json:"item_count"`
	RespondentCount int              `json:"respondent_count"`
	Reliability     ReliabilityLevel `json:"reliability"`
	Interpretation  string           `json:"interpretation"`
}

// CronbachAlpha computes alpha = k/(k-1) * (1 - sum(var(item))/var(totals)) for a matrix
// whose outer index is the item and inner index the respondent. Respondents beyond the
// shortest item are ignored. Fewer than 2 items or 2 respondents, or totals without
// variance, yield alpha 0.
func CronbachAlpha(itemScores [][]float64) ReliabilityResult {
	alpha, k, n, ok := cronbach(itemScores)
	if !ok {
		return ReliabilityResult{
			ItemCount:       k,
			RespondentCount: n,
			Reliability:     ReliabilityUnacceptable,
			Interpretation:  "Datos insuficientes para calcular la confiabilidad: se requieren al menos 2 ítems y 2 respuestas con variabilidad",
		}
	}
	level := ClassifyReliability(alpha)
	return ReliabilityResult{
		Alpha:           Round(alpha, 3),
		ItemCount:       k,
		RespondentCount: n,
		Reliability:     level,
		Interpretation:  reliabilityInterpretation(level, alpha),
	}
}

func cronbach(itemScores [][]float64) (alpha float64, k, n int, ok bool) {
	k = len(itemScores)
	if k == 0 {
		return 0, 0, 0, false
	}
	n = len(itemScores[0])
	for _, item := range itemScores[1:] {
		n = min(n, len(item))
	}
	if k < 2 || n < 2 {
		return 0, k, n, false
	}

	totals := make([]float64, n)
	var itemVariance float64
	for _, item := range itemScores {
		itemVariance += Variance(item[:n], true)
		for r := 0; r < n; r++ {
			totals[r] += item[r]
		}
	}
	totalVariance := Variance(totals, true)
	if totalVariance == 0 {
		return 0, k, n, false
	}
	kf := float64(k)
	return kf / (kf - 1) * (1 - itemVariance/totalVariance), k, n, true
}

func reliabilityInterpretation(level ReliabilityLevel, alpha float64) string {
	var text string
	switch level {
	case ReliabilityExcellent:
		text = "consistencia interna excelente"
	case ReliabilityGood:
		text = "buena consistencia interna"
	case ReliabilityAcceptable:
		text = "consistencia interna aceptable"
	case ReliabilityQuestionable:
		text = "consistencia interna cuestionable; conviene revisar los ítems"
	case ReliabilityPoor:
		text = "consistencia interna pobre; el instrumento requiere ajustes"
	default:
		text = "consistencia interna inaceptable; el instrumento no mide de forma coherente"
	}
	return fmt.Sprintf("α = %.3f: %s", alpha, text)
}

// ItemRecommendation is the action suggested for one item.
type ItemRecommendation string

const (
	RecommendKeep   ItemRecommendation = "mantener"
	RecommendReview ItemRecommendation = "revisar"
	RecommendDrop   ItemRecommendation = "eliminar"
)

// ItemDeletionResult reports alpha with one item left out.
type ItemDeletionResult struct {
	Item           int                `json:"item"`
	Name           string             `json:"name"`
	AlphaIfDeleted float64            `json:"alpha_if_deleted"`
	AlphaChange    float64            `json:"alpha_change"`
	Recommendation ItemRecommendation `json:"recommendation"`
}

// CronbachAlphaIfItemDeleted recomputes alpha without each item. An item whose removal
// raises alpha by more than 0.05 should be dropped, by more than 0.02 reviewed. names
// labels the items; missing names fall back to "item_<n>" (1-based).
func CronbachAlphaIfItemDeleted(itemScores [][]float64, names []string) []ItemDeletionResult {
	base, _, _, _ := cronbach(itemScores)
	out := make([]ItemDeletionResult, len(itemScores))
	for i := range itemScores {
		rest := make([][]float64, 0, len(itemScores)-1)
		rest = append(rest, itemScores[:i]...)
		rest = append(rest, itemScores[i+1:]...)
		without, _, _, _ := cronbach(rest)

		change := without - base
		rec := RecommendKeep
		switch {
		case change > 0.05:
			rec = RecommendDrop
		case change > 0.02:
			rec = RecommendReview
		}

		name := fmt.Sprintf("item_%d", i+1)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		out[i] = ItemDeletionResult{
			Item:           i,
			Name:           name,
			AlphaIfDeleted: Round(without, 3),
			AlphaChange:    Round(change, 3),
			Recommendation: rec,
		}
	}
	return out
}
