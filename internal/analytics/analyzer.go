package analytics

import "math/rand/v2"

// RandSource supplies uniform numbers in [0, 1). *math/rand.Rand and *math/rand/v2.Rand
// both satisfy it.
type RandSource interface {
	Float64() float64
}

// RegressionSolver selects how MultipleRegression fits its coefficients.
type RegressionSolver string

const (
	// SolverGradientDescent runs batch gradient descent (learning rate 0.01, 1000 iterations).
	SolverGradientDescent RegressionSolver = "gradient_descent"
	// SolverNormalEquations solves the least-squares problem exactly with a QR factorization.
	SolverNormalEquations RegressionSolver = "normal_equations"
)

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// GlobalRand is the process-wide random source. It is safe for concurrent use.
var GlobalRand RandSource = globalSource{}

// Analyzer bundles the strategies that operations with p-values, randomness or model
// fitting depend on. An Analyzer built with a seeded, non-thread-safe RandSource must
// not be shared between goroutines.
type Analyzer struct {
	dist   Distributions
	rng    RandSource
	solver RegressionSolver
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithDistributions replaces the p-value machinery.
func WithDistributions(d Distributions) Option {
	return func(a *Analyzer) {
		if d != nil {
			a.dist = d
		}
	}
}

// WithRandSource injects the random source used by CompareSegments.
func WithRandSource(r RandSource) Option {
	return func(a *Analyzer) {
		if r != nil {
			a.rng = r
		}
	}
}

// WithRegressionSolver selects the regression fitting strategy.
func WithRegressionSolver(s RegressionSolver) Option {
	return func(a *Analyzer) {
		if s == SolverGradientDescent || s == SolverNormalEquations {
			a.solver = s
		}
	}
}

// NewAnalyzer returns an Analyzer using approximate distributions, the global random
// source and gradient descent unless overridden.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		dist:   ApproximateDistributions{},
		rng:    GlobalRand,
		solver: SolverGradientDescent,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Distributions returns the configured p-value machinery.
func (a *Analyzer) Distributions() Distributions { return a.dist }

// Rand returns the configured random source.
func (a *Analyzer) Rand() RandSource { return a.rng }

var defaultAnalyzer = NewAnalyzer()
