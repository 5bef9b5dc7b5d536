package analytics

import (
	"math"
	"math/rand/v2"
)

func nan() float64 { return math.NaN() }

func inf() float64 { return math.Inf(1) }

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

// constSource always yields the same number.
type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

var exact = NewAnalyzer(WithDistributions(ExactDistributions{}))
