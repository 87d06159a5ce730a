package middleware

import (
	"sync"

	"brainvault/internal/observability"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the request metrics collector, registered once on
// observability.Registry.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.NewWithRegistry(observability.Registry, serviceName, "http", "", nil)
	})
	return prom
}

// MetricsMiddleware records request count, latency and in-flight requests.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
