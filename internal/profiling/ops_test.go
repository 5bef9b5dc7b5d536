package profiling

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthz(t *testing.T) {
	w := get(t, NewOpsRouter(nil, nil).Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestReadyz(t *testing.T) {
	ready := NewOpsRouter(pingerFunc(func(context.Context) error { return nil }), nil)
	w := get(t, ready.Handler(), "/readyz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())

	down := NewOpsRouter(pingerFunc(func(context.Context) error { return errors.New("connection refused") }), nil)
	w = get(t, down.Handler(), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","error":"connection refused"}`, w.Body.String())
}

func TestReadyzWithoutStore(t *testing.T) {
	w := get(t, NewOpsRouter(nil, nil).Handler(), "/readyz")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPprofMounted(t *testing.T) {
	w := get(t, NewOpsRouter(nil, nil).Handler(), "/debug/pprof/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "goroutine")
}
