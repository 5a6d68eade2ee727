// Package metrics exposes registry counters in the Prometheus text format on
// a dedicated listener.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels.
const (
	ResultRegistered        = "registered"
	ResultAlreadyRegistered = "already_registered"
	ResultSupported         = "supported"
	ResultUnsupported       = "unsupported"
	ResultError             = "error"
)

// MetricsServer owns a private Prometheus registry and the HTTP server exposing it.
type MetricsServer struct {
	registry *prometheus.Registry
	srv      *http.Server

	registrations *prometheus.CounterVec
	queries       *prometheus.CounterVec
}

// New creates a metrics server listening on addr. Metric names are prefixed
// with namespace; dashes become underscores.
func New(namespace, addr string) (*MetricsServer, error) {
	namespace = strings.ReplaceAll(namespace, "-", "_")
	reg := prometheus.NewRegistry()

	m := &MetricsServer{
		registry: reg,
		registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registrations_total",
				Help:      "Interface registration attempts by result",
			},
			[]string{"result"},
		),
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Interface support queries by result",
			},
			[]string{"result"},
		),
	}

	for _, c := range []prometheus.Collector{
		m.registrations,
		m.queries,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	mux := chi.NewRouter()
	mux.Handle("/metrics", m.Handler())

	m.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return m, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *MetricsServer) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRegistration counts a registration attempt.
func (m *MetricsServer) ObserveRegistration(result string) {
	m.registrations.WithLabelValues(result).Inc()
}

// ObserveQuery counts a support query.
func (m *MetricsServer) ObserveQuery(result string) {
	m.queries.WithLabelValues(result).Inc()
}

func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

func (m *MetricsServer) Shutdown(ctx context.Context) error {
	if err := m.srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
