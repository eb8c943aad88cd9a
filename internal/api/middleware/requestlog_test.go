package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// probeRunner drives a single RequestLog instance so probe state carries
// across calls.
type probeRunner struct {
	e       *echo.Echo
	buf     *bytes.Buffer
	handler echo.HandlerFunc
}

func newProbeRunner(statuses ...int) *probeRunner {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	calls := 0
	handler := RequestLog(logger)(func(c echo.Context) error {
		status := statuses[min(calls, len(statuses)-1)]
		calls++
		return c.NoContent(status)
	})
	return &probeRunner{e: echo.New(), buf: &buf, handler: handler}
}

// hit issues one request and returns how many bytes of log it produced.
func (p *probeRunner) hit(t *testing.T, path string) int {
	t.Helper()
	before := p.buf.Len()
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	require.NoError(t, p.handler(p.e.NewContext(req, httptest.NewRecorder())))
	return p.buf.Len() - before
}

func TestRequestLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		method        string
		path          string
		status        int
		providedReqID string
		wantLogFields []string
	}{
		{
			name:   "logs search request with generated ID",
			method: http.MethodGet,
			path:   "/api/alt-auctions",
			status: http.StatusOK,
			wantLogFields: []string{
				"level=INFO",
				"method=GET",
				"path=/api/alt-auctions",
				"status=200",
				"duration_ms=",
				"request_id=",
			},
		},
		{
			name:   "server error logged at ERROR",
			method: http.MethodGet,
			path:   "/api/alt-auctions",
			status: http.StatusBadGateway,
			wantLogFields: []string{
				"level=ERROR",
				"status=502",
			},
		},
		{
			name:   "client error stays at INFO",
			method: http.MethodGet,
			path:   "/api/alt-auctions",
			status: http.StatusUnprocessableEntity,
			wantLogFields: []string{
				"level=INFO",
				"status=422",
			},
		},
		{
			name:          "uses provided request ID",
			method:        http.MethodGet,
			path:          "/docs",
			status:        http.StatusOK,
			providedReqID: "custom-req-id-123",
			wantLogFields: []string{
				"request_id=custom-req-id-123",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			e := echo.New()
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			if tt.providedReqID != "" {
				req.Header.Set(requestIDHeader, tt.providedReqID)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := RequestLog(logger)(func(c echo.Context) error {
				return c.NoContent(tt.status)
			})

			require.NoError(t, handler(c))

			for _, field := range tt.wantLogFields {
				assert.Contains(t, buf.String(), field)
			}

			respID := rec.Header().Get(requestIDHeader)
			assert.NotEmpty(t, respID)
			if tt.providedReqID != "" {
				assert.Equal(t, tt.providedReqID, respID)
			}
			assert.Equal(t, respID, requestID(c))
		})
	}
}

func TestRequestLog_HandlerErrorIsRendered(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/missing", http.NoBody), rec)

	handler := RequestLog(logger)(func(_ echo.Context) error {
		return echo.ErrNotFound
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, buf.String(), "status=404")
}

func TestRequestLog_ProbeSuppression(t *testing.T) {
	t.Parallel()

	t.Run("repeated healthz success logged once", func(t *testing.T) {
		t.Parallel()
		p := newProbeRunner(http.StatusOK)

		assert.Positive(t, p.hit(t, "/healthz"))
		assert.Contains(t, p.buf.String(), "path=/healthz")
		assert.Zero(t, p.hit(t, "/healthz"), "second success should be suppressed")
		assert.Zero(t, p.hit(t, "/healthz"), "third success should be suppressed")
	})

	t.Run("failures always logged at WARN", func(t *testing.T) {
		t.Parallel()
		p := newProbeRunner(http.StatusServiceUnavailable)

		assert.Positive(t, p.hit(t, "/readyz"))
		assert.Positive(t, p.hit(t, "/readyz"))
		assert.Contains(t, p.buf.String(), "status=503")
		assert.Contains(t, p.buf.String(), "level=WARN")
	})

	t.Run("success after failure is logged again", func(t *testing.T) {
		t.Parallel()
		p := newProbeRunner(http.StatusOK, http.StatusOK, http.StatusServiceUnavailable, http.StatusOK, http.StatusOK)

		assert.Positive(t, p.hit(t, "/readyz"))
		assert.Zero(t, p.hit(t, "/readyz"))
		assert.Positive(t, p.hit(t, "/readyz"), "failure is logged")
		assert.Positive(t, p.hit(t, "/readyz"), "recovery is logged")
		assert.Zero(t, p.hit(t, "/readyz"))
	})

	t.Run("probe paths tracked independently", func(t *testing.T) {
		t.Parallel()
		p := newProbeRunner(http.StatusOK)

		assert.Positive(t, p.hit(t, "/healthz"))
		assert.Positive(t, p.hit(t, "/readyz"))
		assert.Zero(t, p.hit(t, "/healthz"))
		assert.Zero(t, p.hit(t, "/readyz"))
	})

	t.Run("non-probe path always logged", func(t *testing.T) {
		t.Parallel()
		p := newProbeRunner(http.StatusOK)

		assert.Positive(t, p.hit(t, "/api/alt-auctions"))
		assert.Positive(t, p.hit(t, "/api/alt-auctions"))
	})
}
