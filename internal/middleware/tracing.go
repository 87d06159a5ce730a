package middleware

import (
	"fmt"

	"brainvault/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware starts a server span per request, continuing any W3C
// trace context sent by the caller, and echoes the trace id in X-Trace-ID.
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))

		// The matched route is only known after c.Next(); the span is renamed then.
		ctx, span := observability.Tracer.Start(ctx, c.Method(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.ip", c.IP()),
			),
		)
		defer span.End()

		traceID := span.SpanContext().TraceID().String()
		c.Locals("traceID", traceID)
		c.Set("X-Trace-ID", traceID)

		if requestID := c.Locals("requestid"); requestID != nil {
			span.SetAttributes(attribute.String("request.id", fmt.Sprintf("%v", requestID)))
		}

		c.SetUserContext(ctx)

		err := c.Next()

		route := c.Route().Path
		span.SetName(fmt.Sprintf("%s %s", c.Method(), route))
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", c.Response().StatusCode()),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		if userID, ok := UserID(c); ok {
			span.SetAttributes(attribute.Int64("user.id", int64(userID)))
		}

		return err
	}
}
