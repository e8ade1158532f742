package router // package router defines how HTTP routes are registered for the view server

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theater-client/internal/handler"
	"github.com/iliyamo/theater-client/internal/middleware"
)

// RegisterRoutes registers the health check.  It reports the live
// channel state alongside "ok".
func RegisterRoutes(e *echo.Echo, live handler.LiveStatus) {
	e.GET("/healthz", handler.Health(live))
}

// RegisterAuth registers sign-in routes under /v1/auth and the profile
// routes, which need a signed-in user, under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, id middleware.Identity) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Logout works signed in or not so a stale view can always clear state.
	g.POST("/logout", a.Logout)

	me := e.Group("/v1", middleware.RequireIdentity(id))
	me.GET("/me", a.Me)
	me.PUT("/me", a.UpdateMe)
}

// RegisterPublic registers the browse endpoints.  They need no
// identity; cache is applied per route so only catalogue reads are
// cached.
func RegisterPublic(e *echo.Echo, p *handler.BrowseHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/shows", p.ListShows, cache)
	e.GET("/v1/shows/upcoming", p.Upcoming, cache)
	e.GET("/v1/shows/search", p.Search, cache)
	e.GET("/v1/shows/genre/:genre", p.ByGenre, cache)
	e.GET("/v1/shows/:id", p.GetShow, cache)
	// Seat availability changes constantly; never cached.
	e.GET("/v1/shows/:id/seats", p.GetSeats)
}
