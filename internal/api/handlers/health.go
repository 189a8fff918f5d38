package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	deps []Pinger
}

// NewHealthHandler creates a HealthHandler checking the given
// dependencies for readiness. An empty list means always ready.
func NewHealthHandler(deps ...Pinger) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz returns 200 if all backing dependencies are reachable, 503
// otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	for _, d := range h.deps {
		if err := d.Ping(c.Request().Context()); err != nil {
			return c.JSON(
				http.StatusServiceUnavailable,
				map[string]string{"status": "unavailable"},
			)
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
