package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// healthPaths are probe endpoints whose repeated successes are suppressed
// to keep kubelet polling from flooding the log.
var healthPaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
}

// RequestLog returns Echo middleware that logs requests with structured fields.
// It generates a request ID if none is provided and propagates it through
// the response header and echo context.
//
// Health probe paths log their first success and every failure; consecutive
// successes are suppressed. Failures log at warn (probes) or error (5xx).
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var (
		mu           sync.Mutex
		probeHealthy = make(map[string]bool)
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set("request_id", reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)

			path := c.Request().URL.Path
			status := c.Response().Status

			level := slog.LevelInfo
			switch {
			case healthPaths[path] && status >= 400:
				level = slog.LevelWarn
			case status >= 500:
				level = slog.LevelError
			}

			if healthPaths[path] {
				mu.Lock()
				suppressed := status < 400 && probeHealthy[path]
				probeHealthy[path] = status < 400
				mu.Unlock()
				if suppressed {
					return err
				}
			}

			log.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", c.Request().Method),
				slog.String("path", path),
				slog.Int("status", status),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.String("remote_ip", c.RealIP()),
				slog.String("request_id", reqID),
			)

			return err
		}
	}
}
