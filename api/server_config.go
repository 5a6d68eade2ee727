package api

import (
	"log/slog"
	"time"
)

// HTTPServerConfig contains the listener and lifecycle settings of the registry server.
type HTTPServerConfig struct {
	ListenAddr string

	// MetricsAddr is where the Prometheus listener binds. Empty disables it.
	MetricsAddr string

	// EnablePprof mounts the pprof handlers under /debug.
	EnablePprof bool

	Log *slog.Logger

	// DrainDuration is how long the server stays unready before Shutdown
	// closes the listener, so load balancers can stop routing to it.
	DrainDuration time.Duration

	// GracefulShutdownDuration bounds how long Shutdown waits for in-flight requests.
	GracefulShutdownDuration time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MaxBodyBytes caps request bodies of the signature endpoints.
	MaxBodyBytes int64
}

// DefaultHTTPServerConfig returns the timeouts used by the registry binaries.
func DefaultHTTPServerConfig(listenAddr string, log *slog.Logger) *HTTPServerConfig {
	return &HTTPServerConfig{
		ListenAddr:               listenAddr,
		Log:                      log,
		DrainDuration:            45 * time.Second,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             30 * time.Second,
		MaxBodyBytes:             1024 * 1024,
	}
}
