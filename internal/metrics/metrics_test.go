package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMiddlewareCountsRequests(t *testing.T) {
	c := NewCollector()
	e := echo.New()
	e.Use(c.Middleware())
	e.GET("/ok", func(ctx echo.Context) error {
		return ctx.NoContent(http.StatusOK)
	})
	e.GET("/boom", func(ctx echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "no")
	})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	body := scrape(t, c)
	assert.Contains(t, body, `tours_http_requests_total{method="GET",status_code="200"} 3`)
	assert.Contains(t, body, `tours_http_requests_total{method="GET",status_code="418"} 1`)
	assert.True(t, strings.Contains(body, "tours_http_request_duration_seconds_count 4"))
}

func TestCounters(t *testing.T) {
	c := NewCollector()
	c.RecordAuthFailure("token_invalid")
	c.RecordAuthFailure("token_invalid")
	c.RecordOTPIssued("password_reset")
	c.RecordOTPVerified("password_reset")

	body := scrape(t, c)
	assert.Contains(t, body, `tours_auth_failures_total{reason="token_invalid"} 2`)
	assert.Contains(t, body, `tours_otp_issued_total{type="password_reset"} 1`)
	assert.Contains(t, body, `tours_otp_verified_total{type="password_reset"} 1`)
}

func TestRegistriesAreIsolated(t *testing.T) {
	a := NewCollector()
	b := NewCollector()
	a.RecordAuthFailure("user_missing")

	assert.Contains(t, scrape(t, a), "tours_auth_failures_total")
	assert.NotContains(t, scrape(t, b), `reason="user_missing"`)
}
