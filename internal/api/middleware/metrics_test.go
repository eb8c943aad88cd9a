package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mw "github.com/donaldgifford/auction-proxy/internal/api/middleware"
	"github.com/donaldgifford/auction-proxy/internal/metrics"
)

func TestMetricsMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		route      string
		target     string
		handler    echo.HandlerFunc
		wantStatus int
	}{
		{
			name:   "records 200 response with route pattern",
			method: http.MethodGet,
			route:  "/api/alt-auctions",
			target: "/api/alt-auctions?q=charizard",
			handler: func(c echo.Context) error {
				return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "records 502 response",
			method: http.MethodGet,
			route:  "/api/metrics-502",
			target: "/api/metrics-502",
			handler: func(c echo.Context) error {
				return c.NoContent(http.StatusBadGateway)
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:   "records status of returned echo error",
			method: http.MethodPost,
			route:  "/api/metrics-echo-error",
			target: "/api/metrics-echo-error",
			handler: func(_ echo.Context) error {
				return echo.NewHTTPError(http.StatusTeapot, "short and stout")
			},
			wantStatus: http.StatusTeapot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.Use(mw.Metrics())
			e.Add(tt.method, tt.route, tt.handler)

			req := httptest.NewRequest(tt.method, tt.target, http.NoBody)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			statusStr := strconv.Itoa(tt.wantStatus)

			counter, err := metrics.HTTPRequestsTotal.GetMetricWithLabelValues(
				tt.method, tt.route, statusStr,
			)
			require.NoError(t, err)

			m := &io_prometheus_client.Metric{}
			require.NoError(t, counter.Write(m))
			assert.Greater(t, m.GetCounter().GetValue(), float64(0))

			observer, err := metrics.HTTPRequestDuration.GetMetricWithLabelValues(
				tt.method, tt.route, statusStr,
			)
			require.NoError(t, err)

			hm := &io_prometheus_client.Metric{}
			require.NoError(t, observer.(prometheus.Metric).Write(hm))
			assert.Positive(t, hm.GetHistogram().GetSampleCount())
		})
	}
}

func TestMetricsMiddleware_HealthGauges(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		status    int
		gauge     prometheus.Gauge
		wantValue float64
	}{
		{name: "healthz up", path: "/healthz", status: http.StatusOK, gauge: metrics.HealthzUp, wantValue: 1},
		{name: "readyz down", path: "/readyz", status: http.StatusServiceUnavailable, gauge: metrics.ReadyzUp, wantValue: 0},
		{name: "readyz back up", path: "/readyz", status: http.StatusOK, gauge: metrics.ReadyzUp, wantValue: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.Use(mw.Metrics())
			e.GET(tt.path, func(c echo.Context) error {
				return c.NoContent(tt.status)
			})

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))

			assert.Equal(t, tt.status, rec.Code)
			assert.InDelta(t, tt.wantValue, testutil.ToFloat64(tt.gauge), 0)

			_, err := metrics.HTTPRequestsTotal.GetMetricWithLabelValues(
				http.MethodGet, tt.path, strconv.Itoa(tt.status),
			)
			require.NoError(t, err)
		})
	}
}

func TestMetricsMiddleware_PassesErrorThrough(t *testing.T) {
	sentinel := errors.New("boom")

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/passthrough", http.NoBody), httptest.NewRecorder())

	err := mw.Metrics()(func(_ echo.Context) error { return sentinel })(c)
	assert.ErrorIs(t, err, sentinel)
}
