/*
Package httpserver runs the interface registry HTTP API.

Server mounts any RouteRegistrar, normally an interfacehandler.Handler, on a
chi router with access logging, and adds health and lifecycle endpoints:

  - GET /livez: liveness, always 200
  - GET /readyz: 200 when ready, 503 while draining
  - GET /drain: mark the server not ready ahead of a shutdown
  - GET /undrain: mark the server ready again
  - /debug/pprof/: profiling, when enabled

Prometheus metrics are served by a separate listener on MetricsAddr.

# Usage

	cfg := api.DefaultHTTPServerConfig("127.0.0.1:8080", logger)
	cfg.MetricsAddr = "127.0.0.1:8090"

	srv, err := httpserver.New(cfg, metricsSrv, interfacehandler.NewHandler(reg, metricsSrv, logger))
	if err != nil {
	    return err
	}
	srv.RunInBackground()
	defer srv.Shutdown()
*/
package httpserver
