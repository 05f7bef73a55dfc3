// Package metrics exposes prometheus instrumentation for the HTTP server
// and the job workers.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satbrowse_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "satbrowse_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// JobsProcessed counts processed queue jobs by type and result.
	JobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satbrowse_jobs_processed_total",
			Help: "Queue jobs processed by type and result.",
		},
		[]string{"type", "result"},
	)
)

// Middleware records request counts and latency for every route except the
// metrics endpoint itself.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == "/metrics" {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			httpRequestsTotal.WithLabelValues(
				c.Request().Method, c.Path(), strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(
				c.Request().Method, c.Path()).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler returns the /metrics endpoint handler.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
