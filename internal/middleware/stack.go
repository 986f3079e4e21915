package middleware

import (
	"parley/internal/observability"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Setup applies the middleware stack every service shares: panic recovery,
// request IDs, context propagation, tracing, prometheus metrics and
// structured logging. It returns the prometheus middleware so the caller can
// expose it with RegisterAt(app, "/metrics").
func Setup(app *fiber.App, service string, tracing bool) *fiberprometheus.FiberPrometheus {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(ContextMiddleware())

	if tracing {
		app.Use(observability.TracingMiddleware())
	}

	prom := observability.NewHTTPMetrics(service)
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	app.Use(StructuredLogger(service))

	return prom
}
