package container

import (
	"context"
	"fmt"

	"evalytics/adapters/excel"
	"evalytics/adapters/memory"
	"evalytics/adapters/postgres"
	"evalytics/adapters/rng"
	"evalytics/app"
	"evalytics/internal"
	"evalytics/internal/analytics"
	"evalytics/internal/api"
	"evalytics/internal/config"
	"evalytics/internal/errors"
	"evalytics/internal/migration"
	"evalytics/internal/profiling"
	"evalytics/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	ScoreRepo  ports.ScoreRepository
	ReportRepo ports.ReportRepository

	// Adapters
	RNG      ports.RNGPort
	Importer ports.ScoreImporter

	// Services and transports
	Reports *app.ReportService
	API     *api.Server
	Ops     *profiling.OpsRouter
}

// New creates a container. With a DATABASE_URL it connects to PostgreSQL and runs
// the migrations, otherwise the in-memory repositories are used.
func New(ctx context.Context, cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, errors.ConfigInvalid("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	if err := c.initRepositories(ctx); err != nil {
		return nil, err
	}
	c.initServices()

	logger.Info("Container initialized (database=%t, distributions=%s, solver=%s)",
		cfg.UsesDatabase(), cfg.Analytics.DistributionMode, cfg.Analytics.RegressionSolver)
	return c, nil
}

// initRepositories initializes data access repositories
func (c *Container) initRepositories(ctx context.Context) error {
	if !c.Config.UsesDatabase() {
		c.ScoreRepo = memory.NewScoreRepository()
		c.ReportRepo = memory.NewReportRepository()
		return nil
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
	if err != nil {
		return errors.DatabaseError("failed to connect to database", err)
	}
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return errors.Wrap(err, "database migration failed")
	}

	c.DB = db
	c.ScoreRepo = postgres.NewScoreRepository(db)
	c.ReportRepo = postgres.NewReportRepository(db)
	return nil
}

// initServices builds the report service and both HTTP routers from the config
func (c *Container) initServices() {
	cfg := c.Config.Analytics

	c.RNG = rng.NewAdapter()
	c.Importer = excel.NewImporter(excel.DefaultConfig(), c.Logger)

	c.Reports = app.NewReportService(c.ScoreRepo, c.ReportRepo, c.Importer, c.RNG, app.ReportOptions{
		Seed:          cfg.Seed,
		MaxClusters:   cfg.MaxClusters,
		Concurrency:   cfg.ReportConcurrency,
		Distributions: Distributions(cfg.DistributionMode),
		Solver:        analytics.RegressionSolver(cfg.RegressionSolver),
	}, c.Logger)

	c.API = api.NewServer(c.Reports, c.RNG, api.Options{
		Distributions:     Distributions(cfg.DistributionMode),
		Solver:            analytics.RegressionSolver(cfg.RegressionSolver),
		OutlierZThreshold: cfg.OutlierZThreshold,
		MaxClusters:       cfg.MaxClusters,
	}, c.Logger)

	c.Ops = profiling.NewOpsRouter(c.ScoreRepo, c.Logger)
}

// Distributions maps a DISTRIBUTION_MODE value onto its implementation
func Distributions(mode string) analytics.Distributions {
	if mode == config.DistributionExact {
		return analytics.ExactDistributions{}
	}
	return analytics.ApproximateDistributions{}
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}
	return nil
}
