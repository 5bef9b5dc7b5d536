// Package profiling serves the operational endpoints: liveness, readiness and pprof.
package profiling

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"evalytics/internal"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// readinessTimeout bounds the backing-store ping of /readyz
const readinessTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsRouter serves /healthz, /readyz and /debug/pprof
type OpsRouter struct {
	router *chi.Mux
	store  Pinger
	logger *internal.Logger
}

// NewOpsRouter creates the ops router. store may be nil when nothing needs checking.
func NewOpsRouter(store Pinger, logger *internal.Logger) *OpsRouter {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	o := &OpsRouter{
		router: chi.NewRouter(),
		store:  store,
		logger: logger.Component("Ops"),
	}
	o.setupMiddleware()
	o.setupRoutes()
	return o
}

// Handler returns the HTTP handler of the ops router
func (o *OpsRouter) Handler() http.Handler {
	return o.router
}

func (o *OpsRouter) setupMiddleware() {
	o.router.Use(middleware.RequestID)
	o.router.Use(middleware.Recoverer)
	o.router.Use(middleware.NoCache)
}

func (o *OpsRouter) setupRoutes() {
	o.router.Get("/healthz", o.handleHealth)
	o.router.Get("/readyz", o.handleReady)
	o.router.Mount("/debug", middleware.Profiler())
}

func (o *OpsRouter) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (o *OpsRouter) handleReady(w http.ResponseWriter, r *http.Request) {
	if o.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		if err := o.store.Ping(ctx); err != nil {
			o.logger.Warn("Readiness check failed: %v", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
