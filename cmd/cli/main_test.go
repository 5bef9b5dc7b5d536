package main

import (
	"context"
	"testing"

	"evalytics/internal/analytics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValues(t *testing.T) {
	values, err := parseValues("3.5, 4,,2")
	require.NoError(t, err)
	assert.Equal(t, []float64{3.5, 4, 2}, values)

	_, err = parseValues("3,x")
	assert.Error(t, err)
}

func TestParseRiskFactor(t *testing.T) {
	f, err := parseRiskFactor("ausentismo=12:2:5")
	require.NoError(t, err)
	assert.Equal(t, analytics.RiskFactor{Name: "ausentismo", Value: 12, Weight: 2, Threshold: 5, Direction: analytics.HigherIsRisk}, f)

	f, err = parseRiskFactor("desempeno=2.1:3:3:lower_is_risk")
	require.NoError(t, err)
	assert.Equal(t, analytics.LowerIsRisk, f.Direction)

	for _, bad := range []string{"=1:1:1", "x=1:1", "x=a:1:1", "x=1:1:1:sideways", "x"} {
		_, err := parseRiskFactor(bad)
		assert.Error(t, err, bad)
	}
}

func TestLoadSampleRequiresOneSource(t *testing.T) {
	_, err := loadSample(context.Background(), "", "", "")
	assert.Error(t, err)
	_, err = loadSample(context.Background(), "1,2", "f.csv", "")
	assert.Error(t, err)

	values, err := loadSample(context.Background(), "1,2", "", "")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, values)
}
