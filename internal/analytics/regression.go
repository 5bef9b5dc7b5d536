package analytics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

const (
	gradientLearningRate = 0.01
	gradientIterations   = 1000
)

// InterceptName labels the intercept in RegressionResult.Coefficients.
const InterceptName = "intercepto"

// RegressionCoefficient is one fitted coefficient.
type RegressionCoefficient struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// RegressionResult is the outcome of MultipleRegression.
type RegressionResult struct {
	Coefficients     []RegressionCoefficient `json:"coefficients"`
	RSquared         float64                 `json:"r_squared"`
	AdjustedRSquared float64                 `json:"adjusted_r_squared"`
	StandardError    float64                 `json:"standard_error"`
	FStatistic       float64                 `json:"f_statistic"`
	PValue           float64                 `json:"p_value"`
	N                int                     `json:"n"`
	Predictors       int                     `json:"predictors"`
	Significance     Significance            `json:"significance"`
	IsSignificant    bool                    `json:"is_significant"`
	Solver           RegressionSolver        `json:"solver"`
	Interpretation   string                  `json:"interpretation"`
}

// MultipleRegression fits y on the predictors with the default analyzer.
func MultipleRegression(y []float64, predictors map[string][]float64) RegressionResult {
	return defaultAnalyzer.MultipleRegression(y, predictors)
}

// MultipleRegression fits y = b0 + sum(bj*xj) over the named predictors (sorted by name).
// Gradient descent is not exact OLS: unscaled or collinear predictors may not converge in
// the fixed iteration budget. Requires n >= k+2 and every predictor of length n.
func (a *Analyzer) MultipleRegression(y []float64, predictors map[string][]float64) RegressionResult {
	names := make([]string, 0, len(predictors))
	for name := range predictors {
		names = append(names, name)
	}
	sort.Strings(names)

	n, k := len(y), len(names)
	if k == 0 || n < k+2 {
		return insufficientRegression(a.solver, n, k, "Datos insuficientes para la regresión: se requieren al menos k+2 observaciones")
	}
	columns := make([][]float64, k)
	for j, name := range names {
		if len(predictors[name]) != n {
			return insufficientRegression(a.solver, n, k, fmt.Sprintf("La variable %s no tiene la misma cantidad de observaciones que la variable dependiente", name))
		}
		columns[j] = predictors[name]
	}

	solver := a.solver
	var beta []float64
	if solver == SolverNormalEquations {
		var ok bool
		if beta, ok = solveNormalEquations(y, columns); !ok {
			solver = SolverGradientDescent
		}
	}
	if solver == SolverGradientDescent {
		beta = gradientDescent(y, columns)
	}

	yMean := Mean(y)
	var ssRes, ssTot float64
	for i := 0; i < n; i++ {
		pred := beta[0]
		for j := 0; j < k; j++ {
			pred += beta[j+1] * columns[j][i]
		}
		ssRes += (y[i] - pred) * (y[i] - pred)
		ssTot += (y[i] - yMean) * (y[i] - yMean)
	}

	dfRes := float64(n - k - 1)
	var r2 float64
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}
	adjusted := 1 - (1-r2)*float64(n-1)/dfRes
	f := math.Inf(1)
	if 1-r2 > 0 {
		f = (r2 / float64(k)) / ((1 - r2) / dfRes)
	}
	if ssTot == 0 {
		f = 0
	}
	p := a.dist.FPValue(f, float64(k), dfRes)
	significance := ClassifySignificance(p)

	coefficients := make([]RegressionCoefficient, 0, k+1)
	coefficients = append(coefficients, RegressionCoefficient{Name: InterceptName, Value: Round(beta[0], 4)})
	for j, name := range names {
		coefficients = append(coefficients, RegressionCoefficient{Name: name, Value: Round(beta[j+1], 4)})
	}

	return RegressionResult{
		Coefficients:     coefficients,
		RSquared:         Round(r2, 4),
		AdjustedRSquared: Round(adjusted, 4),
		StandardError:    Round(math.Sqrt(ssRes/dfRes), 4),
		FStatistic:       Round(f, 4),
		PValue:           Round(p, 4),
		N:                n,
		Predictors:       k,
		Significance:     significance,
		IsSignificant:    p < SignificanceLevel,
		Solver:           solver,
		Interpretation:   regressionInterpretation(r2, significance),
	}
}

func insufficientRegression(solver RegressionSolver, n, k int, reason string) RegressionResult {
	return RegressionResult{
		PValue:         1,
		N:              n,
		Predictors:     k,
		Significance:   SignificanceNone,
		Solver:         solver,
		Interpretation: reason,
	}
}

func gradientDescent(y []float64, columns [][]float64) []float64 {
	n, k := len(y), len(columns)
	beta := make([]float64, k+1)
	grad := make([]float64, k+1)
	for iter := 0; iter < gradientIterations; iter++ {
		clear(grad)
		for i := 0; i < n; i++ {
			pred := beta[0]
			for j := 0; j < k; j++ {
				pred += beta[j+1] * columns[j][i]
			}
			residual := pred - y[i]
			grad[0] += residual
			for j := 0; j < k; j++ {
				grad[j+1] += residual * columns[j][i]
			}
		}
		for j := range beta {
			beta[j] -= gradientLearningRate * grad[j] / float64(n)
		}
	}
	return beta
}

// solveNormalEquations returns the least-squares coefficients via QR. It reports false
// when the design matrix is rank deficient.
func solveNormalEquations(y []float64, columns [][]float64) ([]float64, bool) {
	n, k := len(y), len(columns)
	design := mat.NewDense(n, k+1, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
		for j := 0; j < k; j++ {
			design.Set(i, j+1, columns[j][i])
		}
	}
	target := mat.NewVecDense(n, append([]float64(nil), y...))

	var solution mat.VecDense
	if err := solution.SolveVec(design, target); err != nil {
		return nil, false
	}
	beta := make([]float64, k+1)
	for j := range beta {
		beta[j] = solution.AtVec(j)
		if !isFinite(beta[j]) {
			return nil, false
		}
	}
	return beta, true
}

func regressionInterpretation(r2 float64, s Significance) string {
	fit := "bajo"
	switch {
	case r2 >= 0.7:
		fit = "alto"
	case r2 >= 0.4:
		fit = "moderado"
	}
	if s == SignificanceNone {
		return fmt.Sprintf("El modelo explica el %.1f%% de la varianza (ajuste %s) pero no es estadísticamente significativo", math.Max(0, r2)*100, fit)
	}
	return fmt.Sprintf("El modelo explica el %.1f%% de la varianza (ajuste %s) y es estadísticamente significativo", math.Max(0, r2)*100, fit)
}
