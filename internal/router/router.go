package router // package router defines how HTTP routes are registered

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/qf-devops/do-doks-saas/internal/handler" // handlers for the greeting and health check
)

// RegisterRoutes maps the two public routes.  The greeting counts a visit on
// every call; mw (rate limiting, when enabled) only wraps that route so the
// health check stays reachable under load.
func RegisterRoutes(e *echo.Echo, hits *handler.HitHandler, mw ...echo.MiddlewareFunc) {
	e.GET("/", hits.Hello, mw...)

	// Liveness probe.  It never touches the counter store.
	e.GET("/healthz", handler.Health)
}
