// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector registers and records the service metrics.
type Collector struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration prometheus.Histogram
	authFailures *prometheus.CounterVec
	otpIssued    *prometheus.CounterVec
	otpVerified  *prometheus.CounterVec
}

// NewCollector creates a Collector backed by its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tours_http_requests_total",
			Help: "HTTP requests by method and status code",
		}, []string{"method", "status_code"}),
		httpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tours_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tours_auth_failures_total",
			Help: "Authentication failures by reason",
		}, []string{"reason"}),
		otpIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tours_otp_issued_total",
			Help: "One-time codes issued by type",
		}, []string{"type"}),
		otpVerified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tours_otp_verified_total",
			Help: "One-time codes successfully consumed by type",
		}, []string{"type"}),
	}

	c.registry.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.authFailures,
		c.otpIssued,
		c.otpVerified,
	)

	return c
}

// RecordAuthFailure counts a failed authentication attempt.
func (c *Collector) RecordAuthFailure(reason string) {
	c.authFailures.WithLabelValues(reason).Inc()
}

// RecordOTPIssued counts an issued one-time code.
func (c *Collector) RecordOTPIssued(otpType string) {
	c.otpIssued.WithLabelValues(otpType).Inc()
}

// RecordOTPVerified counts a consumed one-time code.
func (c *Collector) RecordOTPVerified(otpType string) {
	c.otpVerified.WithLabelValues(otpType).Inc()
}

// Middleware returns an Echo middleware recording request count and latency.
func (c *Collector) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)
			c.httpDuration.Observe(time.Since(start).Seconds())
			status := ctx.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			c.httpRequests.WithLabelValues(ctx.Request().Method, strconv.Itoa(status)).Inc()
			return err
		}
	}
}

// Handler returns the /metrics scrape handler.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
