package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalCDF(t *testing.T) {
	assert.InDelta(t, 0.5, NormalCDF(0), 1e-4)
	assert.InDelta(t, 0.975, NormalCDF(1.96), 1e-3)
	assert.InDelta(t, 0.025, NormalCDF(-1.96), 1e-3)
	assert.InDelta(t, NormalCDF(1.2), ExactDistributions{}.NormalCDF(1.2), 1e-5)
}

func TestGamma(t *testing.T) {
	assert.InEpsilon(t, 24.0, Gamma(5), 1e-3)
	assert.InEpsilon(t, 1.0, Gamma(1), 0.01)
	assert.InEpsilon(t, 1.0-math.Exp(-2), GammaCDF(2, 1)*Gamma(1), 1e-6)
}

func TestApproximateDistributions(t *testing.T) {
	d := ApproximateDistributions{}

	assert.Equal(t, 1.0, d.TwoTailedTPValue(0, 10))
	assert.InDelta(t, 10.0/14.0, d.TwoTailedTPValue(2, 10), 1e-9)
	assert.Equal(t, 0.0, d.TwoTailedTPValue(math.Inf(1), 10))
	assert.Equal(t, 1.0, d.TwoTailedTPValue(3, 0))

	assert.InDelta(t, 10.0/12.0, d.FPValue(1, 2, 10), 1e-9)
	assert.Equal(t, 1.0, d.FPValue(0, 2, 10))
	assert.Equal(t, 0.0, d.FPValue(math.Inf(1), 2, 10))

	assert.Equal(t, 1.0, d.ChiSquarePValue(0, 1))
	assert.InDelta(t, 0.05, d.ChiSquarePValue(5.991, 2), 0.01)
}

func TestExactDistributions(t *testing.T) {
	d := ExactDistributions{}

	assert.InDelta(t, 0.05, d.TwoTailedTPValue(2.228, 10), 1e-3)
	assert.InDelta(t, 0.05, d.FPValue(4.10, 2, 10), 2e-3)
	assert.InDelta(t, 0.05, d.ChiSquarePValue(5.991, 2), 1e-3)
	assert.Equal(t, 1.0, d.ChiSquarePValue(-1, 2))
}

func TestApproximateChiSquareLargeDF(t *testing.T) {
	approx := ApproximateDistributions{}.ChiSquarePValue(320, 320)
	exact := ExactDistributions{}.ChiSquarePValue(320, 320)

	assert.InDelta(t, exact, approx, 0.01)
	assert.Greater(t, approx, 0.4)
	assert.InDelta(t, 0.5, GammaCDF(400, 400), 0.02)
}
