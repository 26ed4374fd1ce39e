package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the API server.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DomainEventsTotal       *prometheus.CounterVec
	PhotoStorageErrorsTotal *prometheus.CounterVec
	ReconciledUsersTotal    prometheus.Counter
	ReconcileRunsTotal      *prometheus.CounterVec

	ServerStartTime prometheus.Gauge
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ninetyplus_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ninetyplus_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		DomainEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ninetyplus_domain_events_total",
			Help: "Domain events published to live subscribers.",
		}, []string{"type"}),

		PhotoStorageErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ninetyplus_photo_storage_errors_total",
			Help: "Object storage failures by operation.",
		}, []string{"operation"}),

		ReconciledUsersTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ninetyplus_reconciled_users_total",
			Help: "Users whose club_id was corrected by reconciliation.",
		}),

		ReconcileRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ninetyplus_reconcile_runs_total",
			Help: "Club membership reconciliation runs.",
		}, []string{"status"}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ninetyplus_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DomainEventsTotal,
		m.PhotoStorageErrorsTotal,
		m.ReconciledUsersTotal,
		m.ReconcileRunsTotal,
		m.ServerStartTime,
	)
	m.ServerStartTime.Set(float64(time.Now().Unix()))

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) IncDomainEvent(eventType string) {
	m.DomainEventsTotal.WithLabelValues(eventType).Inc()
}

func (m *Metrics) IncPhotoStorageError(operation string) {
	m.PhotoStorageErrorsTotal.WithLabelValues(operation).Inc()
}

func (m *Metrics) ObserveReconcile(updated int64, err error) {
	if err != nil {
		m.ReconcileRunsTotal.WithLabelValues("error").Inc()
		return
	}
	m.ReconcileRunsTotal.WithLabelValues("ok").Inc()
	m.ReconciledUsersTotal.Add(float64(updated))
}

// Middleware records request counts and latency keyed by the chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		pattern := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				pattern = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}
