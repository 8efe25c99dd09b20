package middleware

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestIDFromContext returns the request ID stored by RequestLog, or "" when
// ctx did not come from an HTTP request.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestLog returns Echo middleware that logs requests with structured fields.
// It generates a request ID if none is provided and propagates it through the
// response header, the echo context and the request context. Server errors
// are logged at warn level. Probe paths log only the first of a run of
// successes; probe failures are always logged.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	probeHealthy := map[string]*atomic.Bool{
		"/healthz": new(atomic.Bool),
		"/readyz":  new(atomic.Bool),
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set("request_id", reqID)
			c.Response().Header().Set(requestIDHeader, reqID)
			c.SetRequest(c.Request().WithContext(
				context.WithValue(c.Request().Context(), requestIDKey{}, reqID),
			))

			err := next(c)

			status := c.Response().Status
			if healthy, ok := probeHealthy[c.Request().URL.Path]; ok {
				ok := status >= 200 && status < 300
				if wasHealthy := healthy.Swap(ok); ok && wasHealthy {
					return err
				}
			}

			level := slog.LevelInfo
			if status >= 500 {
				level = slog.LevelWarn
			}

			log.Log(c.Request().Context(), level, "request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"route", c.Path(),
				"status", status,
				"bytes", c.Response().Size,
				"remote_ip", c.RealIP(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			)

			return err
		}
	}
}
