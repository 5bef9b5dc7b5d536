package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAnalyzerDefaults(t *testing.T) {
	a := NewAnalyzer()

	assert.IsType(t, ApproximateDistributions{}, a.Distributions())
	assert.Equal(t, GlobalRand, a.Rand())
	assert.Equal(t, SolverGradientDescent, a.solver)
}

func TestNewAnalyzerOptions(t *testing.T) {
	src := seeded(1)
	a := NewAnalyzer(
		WithDistributions(ExactDistributions{}),
		WithRandSource(src),
		WithRegressionSolver(SolverNormalEquations),
	)

	assert.IsType(t, ExactDistributions{}, a.Distributions())
	assert.Same(t, src, a.Rand())
	assert.Equal(t, SolverNormalEquations, a.solver)
}

func TestNewAnalyzerIgnoresInvalidOptions(t *testing.T) {
	a := NewAnalyzer(WithDistributions(nil), WithRandSource(nil), WithRegressionSolver("simplex"))

	assert.IsType(t, ApproximateDistributions{}, a.Distributions())
	assert.Equal(t, GlobalRand, a.Rand())
	assert.Equal(t, SolverGradientDescent, a.solver)
}
