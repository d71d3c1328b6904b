package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	httpRequestsTotal    *prometheus.CounterVec
	httpLatencySeconds   *prometheus.HistogramVec
	httpErrorsTotal      *prometheus.CounterVec
	accessDecisionsTotal *prometheus.CounterVec
	scanLogsWrittenTotal prometheus.Counter
	historyCacheTotal    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		accessDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "access_decisions_total",
			Help: "Access decisions by call site and reason.",
		}, []string{"variant", "reason"})

		scanLogsWrittenTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scan_logs_written_total",
			Help: "Number of guard scans recorded in the scan log.",
		})

		historyCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_history_cache_total",
			Help: "Payment history cache lookups by result.",
		}, []string{"result"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			accessDecisionsTotal,
			scanLogsWrittenTotal,
			historyCacheTotal,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// AccessDecisions exposes the counter of access decisions.
func AccessDecisions() *prometheus.CounterVec {
	RegisterMetrics()
	return accessDecisionsTotal
}

// ScanLogsWritten exposes the counter of persisted scan logs.
func ScanLogsWritten() prometheus.Counter {
	RegisterMetrics()
	return scanLogsWrittenTotal
}

// HistoryCache exposes the history cache hit/miss counter.
func HistoryCache() *prometheus.CounterVec {
	RegisterMetrics()
	return historyCacheTotal
}
