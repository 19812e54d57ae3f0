package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe("/admin/users/aktif", "GET", "200", 120*time.Millisecond)
	m.Observe("/admin/users/aktif", "GET", "200", 80*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	got, err := counterValue(mfs, "http_requests_total", map[string]string{
		"route": "/admin/users/aktif", "method": "GET", "status": "200",
	})
	if err != nil {
		t.Fatalf("fetch counter: %v", err)
	}
	if got != 2 {
		t.Fatalf("expected 2 requests, got %f", got)
	}
}

func TestUpstreamMetricsCountsFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewUpstreamMetrics(reg)
	m.ObserveCall("/api/login", "POST", 40*time.Millisecond)
	m.IncFailure("/api/login", "UNAUTHORIZED")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	got, err := counterValue(mfs, "upstream_request_failures_total", map[string]string{
		"path": "/api/login", "code": "UNAUTHORIZED",
	})
	if err != nil {
		t.Fatalf("fetch counter: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected 1 failure, got %f", got)
	}
}

func TestNilReceiversAreNoOps(t *testing.T) {
	var h *HTTPMetrics
	var u *UpstreamMetrics
	h.Observe("r", "GET", "200", time.Millisecond)
	u.ObserveCall("p", "GET", time.Millisecond)
	u.IncFailure("p", "X")
}

func counterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
	metric:
		for _, m := range mf.GetMetric() {
			seen := map[string]string{}
			for _, lp := range m.GetLabel() {
				seen[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if seen[k] != v {
					continue metric
				}
			}
			return m.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %s with labels %v not found", name, labels)
}
