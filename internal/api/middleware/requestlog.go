package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// probePaths are polled by orchestrators. A success on these is logged only
// when it follows startup or a failure.
var probePaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
}

// probeState remembers, per probe path, whether the last logged outcome was
// a success.
type probeState struct {
	mu      sync.Mutex
	healthy map[string]bool
}

// shouldLog reports whether a probe result is worth a log line and records it.
func (p *probeState) shouldLog(path string, ok bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !ok {
		p.healthy[path] = false
		return true
	}
	if p.healthy[path] {
		return false
	}
	p.healthy[path] = true
	return true
}

// RequestLog logs every request with method, path, status, latency and a
// request ID. The ID is taken from X-Request-ID or generated, then echoed in
// the response header and stored on the context under "request_id".
// Repeated successful probe requests are suppressed. Failed probes are
// logged at WARN.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	probes := &probeState{healthy: make(map[string]bool)}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Set(requestIDKey, reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Request().URL.Path
			status := c.Response().Status
			ok := status < 400

			level := slog.LevelInfo
			if _, probe := probePaths[path]; probe {
				if !probes.shouldLog(path, ok) {
					return nil
				}
				if !ok {
					level = slog.LevelWarn
				}
			} else if status >= 500 {
				level = slog.LevelError
			}

			log.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", c.Request().Method),
				slog.String("path", path),
				slog.Int("status", status),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.String("request_id", reqID),
			)

			return nil
		}
	}
}

func requestID(c echo.Context) string {
	id, _ := c.Get(requestIDKey).(string)
	return id
}
