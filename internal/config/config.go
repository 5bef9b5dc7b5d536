package config

import (
	"os"
	"strconv"

	"evalytics/internal/errors"
)

// Distribution modes accepted by DISTRIBUTION_MODE
const (
	DistributionApproximate = "approximate"
	DistributionExact       = "exact"
)

// Regression solvers accepted by REGRESSION_SOLVER
const (
	SolverGradientDescent = "gradient_descent"
	SolverNormalEquations = "normal_equations"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Profiling ProfilingConfig
	Analytics AnalyticsConfig
	Data      DataConfig
	LogLevel  string
}

// DatabaseConfig holds database connection settings. An empty URL selects the
// in-memory repositories.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// ProfilingConfig holds the ops server settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// AnalyticsConfig tunes the statistics engine
type AnalyticsConfig struct {
	DistributionMode  string
	RegressionSolver  string
	Seed              int64
	MaxClusters       int
	OutlierZThreshold float64
	ReportConcurrency int
}

// DataConfig holds data import settings
type DataConfig struct {
	ImportFile string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Profiling: ProfilingConfig{
			Port:    getEnvOrDefault("PPROF_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("PPROF_ENABLED", true),
		},
		Analytics: AnalyticsConfig{
			DistributionMode:  getEnvOrDefault("DISTRIBUTION_MODE", DistributionApproximate),
			RegressionSolver:  getEnvOrDefault("REGRESSION_SOLVER", SolverGradientDescent),
			Seed:              getEnvInt64OrDefault("ANALYTICS_SEED", 0),
			MaxClusters:       getEnvIntOrDefault("MAX_CLUSTERS", 6),
			OutlierZThreshold: getEnvFloatOrDefault("OUTLIER_Z_THRESHOLD", 2.5),
			ReportConcurrency: getEnvIntOrDefault("REPORT_CONCURRENCY", 4),
		},
		Data: DataConfig{
			ImportFile: getEnvOrDefault("IMPORT_FILE", ""),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	switch config.Analytics.DistributionMode {
	case DistributionApproximate, DistributionExact:
	default:
		return errors.ConfigInvalid("DISTRIBUTION_MODE must be approximate or exact")
	}
	switch config.Analytics.RegressionSolver {
	case SolverGradientDescent, SolverNormalEquations:
	default:
		return errors.ConfigInvalid("REGRESSION_SOLVER must be gradient_descent or normal_equations")
	}
	if config.Analytics.MaxClusters < 2 {
		return errors.ConfigInvalid("MAX_CLUSTERS must be at least 2")
	}
	if config.Analytics.OutlierZThreshold <= 0 {
		return errors.ConfigInvalid("OUTLIER_Z_THRESHOLD must be positive")
	}
	if config.Analytics.ReportConcurrency < 1 {
		return errors.ConfigInvalid("REPORT_CONCURRENCY must be at least 1")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	return nil
}

// UsesDatabase reports whether a PostgreSQL connection is configured
func (c *Config) UsesDatabase() bool {
	return c.Database.URL != ""
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
