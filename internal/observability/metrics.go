package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the proxy.
type Metrics struct {
	HTTPRequests    *prometheus.CounterVec
	BackendLatency  prometheus.Histogram
	BackendFailures *prometheus.CounterVec
	StoreFailures   *prometheus.CounterVec
	SwallowedWrites prometheus.Counter
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		BackendLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_latency_seconds",
			Help:      "Latency of ML service generate calls in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
		}),
		BackendFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_failures_total",
			Help:      "ML service call failures by class.",
		}, []string{"class"}),
		StoreFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_failures_total",
			Help:      "History store operation failures by operation.",
		}, []string{"op"}),
		SwallowedWrites: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_writes_swallowed_total",
			Help:      "History writes dropped without failing the chat exchange.",
		}),
	}
}

func (m *Metrics) ObserveBackendLatency(d time.Duration) {
	m.BackendLatency.Observe(d.Seconds())
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
