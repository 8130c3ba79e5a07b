package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records request rate, errors and duration into reg. Call it once
// per registry.
func Metrics(reg prometheus.Registerer) gin.HandlerFunc {
	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	requestErrorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_errors_total",
			Help: "Total number of HTTP request errors",
		},
		[]string{"method", "path", "status", "error_type"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	reg.MustRegister(requestsTotal, requestErrorsTotal, requestDuration)

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		statusStr := strconv.Itoa(status)
		// FullPath is the route template ("/driver/reservations/:id/take"), not the raw URL.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		requestsTotal.WithLabelValues(method, path, statusStr).Inc()
		switch {
		case status >= 500:
			requestErrorsTotal.WithLabelValues(method, path, statusStr, "server").Inc()
		case status >= 400:
			requestErrorsTotal.WithLabelValues(method, path, statusStr, "client").Inc()
		}
		requestDuration.WithLabelValues(method, path, statusStr).Observe(time.Since(start).Seconds())
	}
}
