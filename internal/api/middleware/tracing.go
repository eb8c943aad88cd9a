package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Tracing starts a server span per request using the global tracer provider
// and propagator unless opts override them. Probe and scrape paths are not
// traced.
func Tracing(service string, opts ...otelhttp.Option) echo.MiddlewareFunc {
	base := []otelhttp.Option{
		otelhttp.WithFilter(func(r *http.Request) bool {
			_, skip := metricsSkipPaths[r.URL.Path]
			return !skip
		}),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
	}
	return echo.WrapMiddleware(otelhttp.NewMiddleware(service, append(base, opts...)...))
}
