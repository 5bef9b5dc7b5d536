package analytics

import (
	"fmt"
	"math"
)

// SignificanceLevel is the alpha used by every binary significance flag.
const SignificanceLevel = 0.05

// TTestResult is the outcome of a two-sample or paired t-test.
type TTestResult struct {
	TStatistic       float64 `json:"t_statistic"`
	DegreesOfFreedom float64 `json:"degrees_of_freedom"`
	PValue           float64 `json:"p_value"`
	Mean1            float64 `json:"mean1"`
	Mean2            float64 `json:"mean2"`
	MeanDifference   float64 `json:"mean_difference"`
	EffectSize       float64 `json:"effect_size"`
	IsSignificant    bool    `json:"is_significant"`
	Interpretation   string  `json:"interpretation"`
}

func insufficientTTest(reason string) TTestResult {
	return TTestResult{PValue: 1, Interpretation: reason}
}

// TTestIndependent runs Welch's t-test with the default analyzer.
func TTestIndependent(group1, group2 []float64) TTestResult {
	return defaultAnalyzer.TTestIndependent(group1, group2)
}

// TTestIndependent runs Welch's t-test (unequal variances) with Welch-Satterthwaite
// degrees of freedom. Either group with fewer than two observations yields t=0, p=1.
func (a *Analyzer) TTestIndependent(group1, group2 []float64) TTestResult {
	n1, n2 := float64(len(group1)), float64(len(group2))
	if len(group1) < 2 || len(group2) < 2 {
		return insufficientTTest("Datos insuficientes para la prueba t: se requieren al menos 2 observaciones por grupo")
	}

	mean1, mean2 := Mean(group1), Mean(group2)
	var1, var2 := Variance(group1, true), Variance(group2, true)
	diff := mean1 - mean2

	se1, se2 := var1/n1, var2/n2
	se := math.Sqrt(se1 + se2)

	var t, df float64
	if se == 0 {
		df = n1 + n2 - 2
	} else {
		t = diff / se
		denominator := se1*se1/(n1-1) + se2*se2/(n2-1)
		if denominator == 0 {
			df = n1 + n2 - 2
		} else {
			df = (se1 + se2) * (se1 + se2) / denominator
		}
	}

	p := 1.0
	if se > 0 {
		p = a.dist.TwoTailedTPValue(t, df)
	}

	var d float64
	pooled := math.Sqrt(((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2))
	if pooled > 0 {
		d = diff / pooled
	}

	significant := p < SignificanceLevel
	return TTestResult{
		TStatistic:       Round(t, 4),
		DegreesOfFreedom: Round(df, 2),
		PValue:           Round(p, 4),
		Mean1:            Round(mean1, 2),
		Mean2:            Round(mean2, 2),
		MeanDifference:   Round(diff, 2),
		EffectSize:       Round(d, 4),
		IsSignificant:    significant,
		Interpretation:   tTestInterpretation(significant, diff, t, p),
	}
}

// TTestPaired runs a paired t-test with the default analyzer.
func TTestPaired(before, after []float64) TTestResult {
	return defaultAnalyzer.TTestPaired(before, after)
}

// TTestPaired runs a one-sample t-test on the differences before[i]-after[i].
// Samples of different length or with fewer than two pairs yield t=0, p=1.
func (a *Analyzer) TTestPaired(before, after []float64) TTestResult {
	if len(before) != len(after) {
		return insufficientTTest("Las muestras pareadas deben tener la misma cantidad de observaciones")
	}
	if len(before) < 2 {
		return insufficientTTest("Datos insuficientes para la prueba t pareada: se requieren al menos 2 pares")
	}

	n := float64(len(before))
	diffs := make([]float64, len(before))
	for i := range before {
		diffs[i] = before[i] - after[i]
	}
	meanDiff := Mean(diffs)
	sd := StandardDeviation(diffs, true)
	df := n - 1

	if sd == 0 {
		return TTestResult{
			DegreesOfFreedom: df,
			PValue:           1,
			Mean1:            Round(Mean(before), 2),
			Mean2:            Round(Mean(after), 2),
			MeanDifference:   Round(meanDiff, 2),
			Interpretation:   "Las diferencias entre mediciones no presentan variabilidad; la prueba t no es aplicable",
		}
	}

	t := meanDiff / (sd / math.Sqrt(n))
	p := a.dist.TwoTailedTPValue(t, df)
	significant := p < SignificanceLevel

	return TTestResult{
		TStatistic:       Round(t, 4),
		DegreesOfFreedom: df,
		PValue:           Round(p, 4),
		Mean1:            Round(Mean(before), 2),
		Mean2:            Round(Mean(after), 2),
		MeanDifference:   Round(meanDiff, 2),
		EffectSize:       Round(meanDiff/sd, 4),
		IsSignificant:    significant,
		Interpretation:   tTestInterpretation(significant, meanDiff, t, p),
	}
}

func tTestInterpretation(significant bool, diff, t, p float64) string {
	if !significant {
		return fmt.Sprintf("No existe una diferencia estadísticamente significativa entre las medias (p = %.4f)", p)
	}
	direction := "superior"
	if diff < 0 {
		direction = "inferior"
	}
	return fmt.Sprintf("Diferencia estadísticamente significativa (t = %.2f, p = %.4f): la primera media es %s en %.2f puntos",
		t, p, direction, math.Abs(diff))
}

// ChiSquareResult is the outcome of Pearson's chi-square test of independence.
type ChiSquareResult struct {
	ChiSquare        float64     `json:"chi_square"`
	DegreesOfFreedom int         `json:"degrees_of_freedom"`
	PValue           float64     `json:"p_value"`
	CramersV         float64     `json:"cramers_v"`
	Expected         [][]float64 `json:"expected"`
	IsSignificant    bool        `json:"is_significant"`
	Interpretation   string      `json:"interpretation"`
}

// ChiSquareTest runs the chi-square test with the default analyzer.
func ChiSquareTest(observed [][]float64) ChiSquareResult {
	return defaultAnalyzer.ChiSquareTest(observed)
}

// ChiSquareTest computes Pearson's chi-square on a contingency table. Expected counts are
// rowTotal*colTotal/grandTotal; cells whose expected count is 0 contribute nothing.
// Ragged rows are read up to the width of the first row.
func (a *Analyzer) ChiSquareTest(observed [][]float64) ChiSquareResult {
	rows := len(observed)
	if rows < 2 || len(observed[0]) < 2 {
		return ChiSquareResult{PValue: 1, Interpretation: "La tabla de contingencia debe tener al menos 2 filas y 2 columnas"}
	}
	cols := len(observed[0])

	rowTotals := make([]float64, rows)
	colTotals := make([]float64, cols)
	var total float64
	for i, row := range observed {
		for j := 0; j < cols; j++ {
			var v float64
			if j < len(row) {
				v = row[j]
			}
			rowTotals[i] += v
			colTotals[j] += v
			total += v
		}
	}
	if total == 0 {
		return ChiSquareResult{PValue: 1, Interpretation: "La tabla de contingencia no contiene observaciones"}
	}

	expected := make([][]float64, rows)
	var chi float64
	for i, row := range observed {
		expected[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			e := rowTotals[i] * colTotals[j] / total
			expected[i][j] = Round(e, 2)
			if e == 0 {
				continue
			}
			var o float64
			if j < len(row) {
				o = row[j]
			}
			chi += (o - e) * (o - e) / e
		}
	}

	df := (rows - 1) * (cols - 1)
	p := a.dist.ChiSquarePValue(chi, float64(df))
	minDim := math.Min(float64(rows-1), float64(cols-1))
	cramersV := math.Sqrt(chi / (total * minDim))
	significant := p < SignificanceLevel

	interpretation := fmt.Sprintf("No se encontró asociación significativa entre las variables (χ² = %.2f, p = %.4f)", chi, p)
	if significant {
		interpretation = fmt.Sprintf("Existe una asociación significativa entre las variables (χ² = %.2f, p = %.4f, V de Cramér = %.2f)", chi, p, cramersV)
	}

	return ChiSquareResult{
		ChiSquare:        Round(chi, 4),
		DegreesOfFreedom: df,
		PValue:           Round(p, 4),
		CramersV:         Round(cramersV, 4),
		Expected:         expected,
		IsSignificant:    significant,
		Interpretation:   interpretation,
	}
}
