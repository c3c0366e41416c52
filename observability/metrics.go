package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymdash",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gymdash",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	ledgerOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymdash",
		Subsystem: "ledger",
		Name:      "operations_total",
		Help:      "Ledger transitions by operation and outcome.",
	}, []string{"operation", "outcome"})

	ledgerDateWarnings = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gymdash",
		Subsystem: "ledger",
		Name:      "malformed_date_keys_total",
		Help:      "Malformed performance date keys encountered while ordering history.",
	})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, ledgerOps, ledgerDateWarnings)
}

// MetricsHandler exposes the Prometheus registry.
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// HTTPMetricsMiddleware records request counts and latency per route.
// FullPath keeps the parameterized route so cardinality stays bounded.
func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordLedgerOp counts one ledger transition.
func RecordLedgerOp(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ledgerOps.WithLabelValues(operation, outcome).Inc()
}

// RecordMalformedDates counts malformed date keys surfaced by the engine.
func RecordMalformedDates(n int) {
	if n > 0 {
		ledgerDateWarnings.Add(float64(n))
	}
}
