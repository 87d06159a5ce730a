package middleware

import (
	"context"
	"log/slog"
	"time"

	"brainvault/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// ContextMiddleware copies the request and trace ids from fiber locals into the
// request context so the context-aware logger can pick them up.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		if rid, ok := c.Locals("requestid").(string); ok {
			ctx = context.WithValue(ctx, observability.RequestIDKey, rid)
		}
		if tid, ok := c.Locals("traceID").(string); ok {
			ctx = context.WithValue(ctx, observability.TraceIDKey, tid)
		}

		c.SetUserContext(ctx)
		return c.Next()
	}
}

// StructuredLogger logs one line per request. Headers and bodies are never
// logged, so bearer tokens and passwords stay out of the output.
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		fields := []any{
			slog.Int("status", c.Response().StatusCode()),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
			slog.Duration("latency", time.Since(start)),
		}

		if err != nil {
			fields = append(fields, slog.String("error", err.Error()))
			observability.Logger.ErrorContext(c.UserContext(), "request failed", fields...)
		} else {
			observability.Logger.InfoContext(c.UserContext(), "request processed", fields...)
		}

		return err
	}
}
