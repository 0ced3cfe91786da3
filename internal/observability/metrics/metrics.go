// Package metrics registers the process-wide prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BillsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "motorbill_bills_created_total",
		Help: "Bills created, by channel.",
	}, []string{"channel"})

	BillsConverted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "motorbill_bills_converted_total",
		Help: "Advance bills converted to a settled bill.",
	})

	ReconcileCorrections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "motorbill_reconcile_corrections_total",
		Help: "Stored totals corrected by the reconciliation sweep.",
	})

	DocumentsRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "motorbill_documents_rendered_total",
		Help: "Bill documents rendered, by format.",
	}, []string{"format"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "motorbill_http_requests_total",
		Help: "HTTP requests, by route, method and status.",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "motorbill_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// GinMiddleware records request counts and latencies per route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
