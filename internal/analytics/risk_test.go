package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRiskFactor(t *testing.T) {
	tests := []struct {
		name   string
		factor RiskFactor
		want   float64
	}{
		{"lower below threshold", RiskFactor{Value: 50, Threshold: 100, Direction: LowerIsRisk}, 0.5},
		{"lower above threshold", RiskFactor{Value: 120, Threshold: 100, Direction: LowerIsRisk}, 0},
		{"higher above threshold", RiskFactor{Value: 150, Threshold: 100, Direction: HigherIsRisk}, 0.5},
		{"higher clamped", RiskFactor{Value: 300, Threshold: 100, Direction: HigherIsRisk}, 1},
		{"higher below threshold", RiskFactor{Value: 80, Threshold: 100, Direction: HigherIsRisk}, 0},
		{"default direction", RiskFactor{Value: 150, Threshold: 100}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NormalizeRiskFactor(tt.factor), 1e-9)
		})
	}
}

func TestClassifyRisk(t *testing.T) {
	assert.Equal(t, RiskLow, ClassifyRisk(10))
	assert.Equal(t, RiskMedium, ClassifyRisk(30))
	assert.Equal(t, RiskHigh, ClassifyRisk(60))
	assert.Equal(t, RiskCritical, ClassifyRisk(90))
}

func TestCalculateRiskScore(t *testing.T) {
	res := CalculateRiskScore([]RiskFactor{
		{Name: "desempeno", Value: 40, Weight: 2, Threshold: 80, Direction: LowerIsRisk},
		{Name: "ausentismo", Value: 20, Weight: 1, Threshold: 10, Direction: HigherIsRisk},
		{Name: "antiguedad", Value: 5, Weight: -3, Threshold: 2, Direction: HigherIsRisk},
	})

	assert.Equal(t, 66.7, res.TotalScore)
	assert.Equal(t, RiskHigh, res.Level)
	assert.Equal(t, 2, res.AlertCount)
	require.Len(t, res.Factors, 3)
	assert.Equal(t, "desempeno", res.Factors[0].Name)
	assert.Equal(t, "ausentismo", res.Factors[1].Name)
	assert.True(t, res.Factors[1].Alert)
	assert.Equal(t, 0.0, res.Factors[2].Weight)
	assert.Equal(t, 0.0, res.Factors[2].Contribution)
}

func TestCalculateRiskScoreStaysInRange(t *testing.T) {
	rng := seeded(9)
	for i := 0; i < 200; i++ {
		factors := make([]RiskFactor, 4)
		for j := range factors {
			direction := HigherIsRisk
			if rng.Float64() < 0.5 {
				direction = LowerIsRisk
			}
			factors[j] = RiskFactor{
				Value:     rng.Float64() * 200,
				Weight:    rng.Float64()*4 - 1,
				Threshold: rng.Float64() * 100,
				Direction: direction,
			}
		}
		score := CalculateRiskScore(factors).TotalScore
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 100.0)
	}
}

func TestCalculateRiskScoreEmpty(t *testing.T) {
	res := CalculateRiskScore(nil)

	assert.Equal(t, 0.0, res.TotalScore)
	assert.Equal(t, RiskLow, res.Level)
}
