// Package handlers implements the HTTP handlers of the auction proxy API.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// EndpointLister reports the configured upstream endpoints.
type EndpointLister interface {
	Endpoints() []string
}

// HealthHandler provides liveness and readiness endpoints.
type HealthHandler struct {
	upstream EndpointLister
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(upstream EndpointLister) *HealthHandler {
	return &HealthHandler{upstream: upstream}
}

// Healthz returns 200 while the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 when at least one upstream endpoint is configured,
// 503 otherwise. It does not contact the upstream.
func (h *HealthHandler) Readyz(c echo.Context) error {
	if h.upstream == nil || len(h.upstream.Endpoints()) == 0 {
		return c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}

// RegisterHealthRoutes mounts the probe endpoints on e.
func RegisterHealthRoutes(e *echo.Echo, h *HealthHandler) {
	e.GET("/healthz", h.Healthz)
	e.GET("/readyz", h.Readyz)
}
