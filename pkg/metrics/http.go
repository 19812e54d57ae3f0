package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request metadata for rendered pages and actions.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewHTTPMetrics registers the request metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of handled HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Handled HTTP requests by route, method, and status class.",
	}, []string{"route", "method", "status"})
	reg.MustRegister(duration, requests)
	return &HTTPMetrics{duration: duration, requests: requests}
}

// Observe records one handled request.
func (m *HTTPMetrics) Observe(route, method, status string, elapsed time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	route = normalizeLabel(route)
	m.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
	m.requests.WithLabelValues(route, method, status).Inc()
}

// UpstreamMetrics records calls made against the remote SINTA API.
type UpstreamMetrics struct {
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewUpstreamMetrics registers the upstream call metrics.
func NewUpstreamMetrics(reg prometheus.Registerer) *UpstreamMetrics {
	if reg == nil {
		return &UpstreamMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of upstream API calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_request_failures_total",
		Help: "Upstream API calls that ended in an error, by taxonomy code.",
	}, []string{"path", "code"})
	reg.MustRegister(duration, failures)
	return &UpstreamMetrics{duration: duration, failures: failures}
}

// ObserveCall records the latency of one upstream round-trip.
func (m *UpstreamMetrics) ObserveCall(path, method string, elapsed time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(path), method).Observe(elapsed.Seconds())
}

// IncFailure counts one failed upstream call.
func (m *UpstreamMetrics) IncFailure(path, code string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(path), normalizeLabel(code)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
