package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"evalytics/domain/evaluation"
	"evalytics/internal"
	"evalytics/internal/config"
	"evalytics/internal/container"
	"evalytics/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, appConfig, logger); err != nil {
		stop()
		log.Fatalf("%v", err)
	}
}

// run serves the API (and the ops router when enabled) until ctx is cancelled. The
// container is shut down on every return path.
func run(ctx context.Context, appConfig *config.Config, logger *internal.Logger) error {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	// Create dependency injection container
	appContainer, err := container.New(ctx, appConfig, logger)
	if err != nil {
		return errors.Wrap(err, "failed to create application container")
	}
	defer appContainer.Shutdown(context.Background())

	// Seed the store from a file when configured
	if path := appConfig.Data.ImportFile; path != "" {
		cycle := evaluation.Cycle{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
		summary, err := appContainer.Reports.ImportCycle(ctx, cycle, path, "")
		if err != nil {
			return errors.Wrapf(err, "failed to import %s", path)
		}
		logger.Info("Imported %d scores from %s into cycle %s", summary.Scores, path, summary.CycleID)
	}

	servers := []*http.Server{{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           appContainer.API.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}}

	// Start ops server for health checks and performance profiling
	if appConfig.Profiling.Enabled {
		servers = append(servers, &http.Server{
			Addr:              ":" + appConfig.Profiling.Port,
			Handler:           appContainer.Ops.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		})
		logger.Info("View profiles: go tool pprof -http=:8081 http://localhost:%s/debug/pprof/profile?seconds=30", appConfig.Profiling.Port)
	}

	errs := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			logger.Info("Listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errs <- errors.Wrapf(err, "server on %s failed", srv.Addr)
				stop()
			}
		}(srv)
	}

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Shutdown of %s failed: %v", srv.Addr, err)
		}
	}

	select {
	case err := <-errs:
		return err
	default:
		return nil
	}
}
