package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "roomanalyzer"

// Metrics holds the HTTP and analysis collectors.
type Metrics struct {
	registry prometheus.Gatherer

	requestsTotal      *prometheus.CounterVec
	requestsInProgress prometheus.Gauge
	requestDuration    *prometheus.HistogramVec
	analysesTotal      *prometheus.CounterVec
	modelCallDuration  prometheus.Histogram
}

// NewMetrics registers all collectors on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
		requestsInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_progress",
			Help:      "HTTP requests currently being served.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		analysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Room analyses by outcome.",
		}, []string{"outcome"}),
		modelCallDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_call_duration_seconds",
			Help:      "Latency of the upstream vision model call.",
			Buckets:   []float64{0.5, 1, 2, 4, 8, 16, 32, 64},
		}),
	}
	reg.MustRegister(m.requestsTotal, m.requestsInProgress, m.requestDuration, m.analysesTotal, m.modelCallDuration)
	return m
}

// ObserveAnalysis counts one finished analysis.
func (m *Metrics) ObserveAnalysis(outcome string) {
	m.analysesTotal.WithLabelValues(outcome).Inc()
}

// ObserveModelCall records how long the upstream call took.
func (m *Metrics) ObserveModelCall(d time.Duration) {
	m.modelCallDuration.Observe(d.Seconds())
}

// Middleware tracks request metrics
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.requestsInProgress.Inc()
		defer m.requestsInProgress.Dec()

		wrapped := wrap(w)
		next.ServeHTTP(wrapped, r)

		m.requestsTotal.WithLabelValues(r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
		m.requestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
