package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ruteri/interface-registry/api"
	"github.com/ruteri/interface-registry/api/interfacehandler"
	"github.com/ruteri/interface-registry/interfaces"
	"github.com/ruteri/interface-registry/registry"
	"github.com/ruteri/interface-registry/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, pprof bool) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg, err := registry.New(context.Background(), storage.NewMemoryBackend(), logger)
	require.NoError(t, err)

	cfg := api.DefaultHTTPServerConfig("127.0.0.1:0", logger)
	cfg.DrainDuration = 0
	cfg.EnablePprof = pprof

	srv, err := New(cfg, nil, interfacehandler.NewHandler(reg, nil, logger))
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var body struct {
		Status string `json:"status"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body.Status
}

func TestServer_HealthEndpoints(t *testing.T) {
	srv := newTestServer(t, false)
	router := srv.srv.Handler

	code, status := get(t, router, "/livez")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alive", status)

	code, status = get(t, router, "/readyz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", status)
}

func TestServer_DrainUndrain(t *testing.T) {
	srv := newTestServer(t, false)
	router := srv.srv.Handler

	_, status := get(t, router, "/drain")
	assert.Equal(t, "draining", status)
	_, status = get(t, router, "/drain")
	assert.Equal(t, "already draining", status)

	code, status := get(t, router, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not ready", status)

	// Draining only affects readiness, the API keeps serving.
	code, _ = get(t, router, "/api/public/interfaces/"+interfaces.SupportsInterfaceID.String())
	assert.Equal(t, http.StatusOK, code)

	_, status = get(t, router, "/undrain")
	assert.Equal(t, "ready", status)
	_, status = get(t, router, "/undrain")
	assert.Equal(t, "already ready", status)

	code, _ = get(t, router, "/readyz")
	assert.Equal(t, http.StatusOK, code)
}

func TestServer_ShutdownWaitsForDrainPeriod(t *testing.T) {
	srv := newTestServer(t, false)
	srv.cfg.DrainDuration = 100 * time.Millisecond
	router := srv.srv.Handler

	assert.Zero(t, srv.drainRemaining())

	_, status := get(t, router, "/drain")
	require.Equal(t, "draining", status)
	remaining := srv.drainRemaining()
	assert.Positive(t, remaining)
	assert.LessOrEqual(t, remaining, 100*time.Millisecond)

	_, status = get(t, router, "/undrain")
	require.Equal(t, "ready", status)
	assert.Zero(t, srv.drainRemaining())

	start := time.Now()
	srv.Shutdown()
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)

	code, status := get(t, router, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not ready", status)
}

func TestServer_MountsHandlers(t *testing.T) {
	srv := newTestServer(t, false)

	w := httptest.NewRecorder()
	srv.srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/public/interfaces/"+interfaces.SupportsInterfaceID.String(), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.SupportsInterfaceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Supported)
	assert.NotNil(t, srv.Metrics())
}

func TestServer_Pprof(t *testing.T) {
	code, _ := get(t, newTestServer(t, false).srv.Handler, "/debug/pprof/")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = get(t, newTestServer(t, true).srv.Handler, "/debug/pprof/")
	assert.Equal(t, http.StatusOK, code)
}
