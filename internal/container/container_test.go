package container

import (
	"context"
	"testing"

	"evalytics/adapters/memory"
	"evalytics/internal/analytics"
	"evalytics/internal/config"
	"evalytics/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "8080"},
		Analytics: config.AnalyticsConfig{
			DistributionMode:  config.DistributionExact,
			RegressionSolver:  config.SolverNormalEquations,
			MaxClusters:       4,
			OutlierZThreshold: 2.5,
			ReportConcurrency: 2,
		},
	}
}

func TestNewWithoutDatabase(t *testing.T) {
	c, err := New(context.Background(), memoryConfig(), nil)
	require.NoError(t, err)

	assert.Nil(t, c.DB)
	assert.IsType(t, &memory.ScoreRepository{}, c.ScoreRepo)
	assert.IsType(t, &memory.ReportRepository{}, c.ReportRepo)
	assert.NotNil(t, c.Reports)
	assert.NotNil(t, c.API)
	assert.NotNil(t, c.Ops)
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestNewRejectsNilConfig(t *testing.T) {
	_, err := New(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestDistributions(t *testing.T) {
	assert.IsType(t, analytics.ExactDistributions{}, Distributions(config.DistributionExact))
	assert.IsType(t, analytics.ApproximateDistributions{}, Distributions(config.DistributionApproximate))
	assert.IsType(t, analytics.ApproximateDistributions{}, Distributions(""))
}
