package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tessa-labs/tessa/server/internal/observability"
)

// RequestLogger attaches a request context (request ID + route) to each
// request, logs completion with duration and status, and feeds the metrics
// collector.
func RequestLogger(logger *slog.Logger, metrics *observability.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Request().Method + " " + c.Path()
			reqCtx := observability.NewRequestContext(logger, route)

			ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			duration := time.Duration(reqCtx.DurationMs()) * time.Millisecond
			metrics.RecordRequest(route, status, duration)

			reqCtx.Info("request completed",
				slog.Int(observability.LogFieldStatus, status),
				slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
			)
			return nil
		}
	}
}
