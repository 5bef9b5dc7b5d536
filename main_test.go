package main

import (
	"context"
	"path/filepath"
	"testing"

	"evalytics/internal/config"
	"evalytics/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0"},
		Analytics: config.AnalyticsConfig{
			DistributionMode:  config.DistributionApproximate,
			RegressionSolver:  config.SolverGradientDescent,
			MaxClusters:       6,
			OutlierZThreshold: 2.5,
			ReportConcurrency: 2,
		},
	}
}

func TestRunReturnsImportError(t *testing.T) {
	cfg := testConfig()
	cfg.Data.ImportFile = filepath.Join(t.TempDir(), "missing.csv")

	err := run(context.Background(), cfg, nil)

	require.Error(t, err)
	assert.Equal(t, errors.CodeImportError, errors.GetCode(err))
	assert.Contains(t, err.Error(), "failed to import")
}

func TestRunStopsWhenContextIsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, run(ctx, testConfig(), nil))
}
