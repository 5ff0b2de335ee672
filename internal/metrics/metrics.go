package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var durationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Metrics holds the server's collectors on a private registry so that
// several instances can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	ToolCalls        *prometheus.CounterVec
	ToolDuration     *prometheus.HistogramVec
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	Resolutions      *prometheus.CounterVec
	BulkItems        *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ToolCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crmfields_tool_calls_total",
			Help: "Total number of tool calls by tool and outcome",
		}, []string{"tool", "is_error"}),
		ToolDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crmfields_tool_duration_seconds",
			Help:    "Duration of tool calls",
			Buckets: durationBuckets,
		}, []string{"tool"}),
		UpstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crmfields_upstream_requests_total",
			Help: "Total number of HighLevel API requests by route and status",
		}, []string{"method", "route", "status"}),
		UpstreamDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crmfields_upstream_request_duration_seconds",
			Help:    "Duration of HighLevel API requests",
			Buckets: durationBuckets,
		}, []string{"method", "route"}),
		Resolutions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crmfields_credential_resolutions_total",
			Help: "Credential resolutions by source",
		}, []string{"source"}),
		BulkItems: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crmfields_bulk_items_total",
			Help: "Bulk create items by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) ObserveTool(tool string, isError bool, start time.Time) {
	m.ToolCalls.WithLabelValues(tool, strconv.FormatBool(isError)).Inc()
	m.ToolDuration.WithLabelValues(tool).Observe(time.Since(start).Seconds())
}

// ObserveRequest records one upstream round trip. A zero status means the
// request never got a response.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.UpstreamRequests.WithLabelValues(method, route, code).Inc()
	m.UpstreamDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveResolution(source string) {
	m.Resolutions.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveBulkItem(ok bool) {
	outcome := "failed"
	if ok {
		outcome = "succeeded"
	}
	m.BulkItems.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry}))
	return mux
}
