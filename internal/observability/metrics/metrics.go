package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics exposes Prometheus observability primitives for the HTTP surface.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers and returns HTTP request metrics.
func NewHTTPMetrics() *HTTPMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_http_requests_total",
		Help: "Counts HTTP requests by method, route, and status.",
	}, []string{"method", "route", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_http_request_duration_seconds",
		Help:    "HTTP request latency per method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	prometheus.MustRegister(requests, duration)

	return &HTTPMetrics{
		requests: requests,
		duration: duration,
	}
}

// GinMiddleware records request counts and latency.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.requests.WithLabelValues(method, route, status).Inc()
		m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Metrics exposes catalog-level instruments.
type Metrics struct {
	productsCreated prometheus.Counter
	productsDeleted prometheus.Counter
	exports         prometheus.Counter
}

// New registers and returns the catalog domain metrics.
func New() *Metrics {
	productsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_created_total",
		Help: "Counts products created through any surface.",
	})
	productsDeleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_deleted_total",
		Help: "Counts products soft-deleted, including bulk deletions.",
	})
	exports := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_exports_total",
		Help: "Counts spreadsheet export downloads.",
	})

	prometheus.MustRegister(productsCreated, productsDeleted, exports)

	return &Metrics{
		productsCreated: productsCreated,
		productsDeleted: productsDeleted,
		exports:         exports,
	}
}

// RecordProductCreated increments the created counter.
func (m *Metrics) RecordProductCreated() {
	if m == nil {
		return
	}
	m.productsCreated.Inc()
}

// RecordProductsDeleted increments the deleted counter by n.
func (m *Metrics) RecordProductsDeleted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.productsDeleted.Add(float64(n))
}

// RecordExport increments the export counter.
func (m *Metrics) RecordExport() {
	if m == nil {
		return
	}
	m.exports.Inc()
}
