package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/railway-seat-reservation/internal/handler" // handlers implementing the API surface
)

// RegisterRoutes registers routes that need no extra middleware.
// Currently this is only the health check, used by load balancers and
// monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAvailability registers the read path.  cached wraps the
// availability query in the Redis response cache; pass nil middleware
// to serve uncached.
func RegisterAvailability(e *echo.Echo, a *handler.AvailabilityHandler, cached echo.MiddlewareFunc) {
	if cached != nil {
		e.GET("/v1/availability", a.Check, cached)
		return
	}
	e.GET("/v1/availability", a.Check)
}

// RegisterBooking registers the mutating endpoints.  The rate limiter
// is applied to the whole group so a misbehaving client cannot hammer
// the per-pool locks.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/bookings")
	if limit != nil {
		g.Use(limit)
	}
	g.POST("", b.Create)
	g.GET("/:id", b.Get)
	g.DELETE("/:id", b.Cancel)
}
