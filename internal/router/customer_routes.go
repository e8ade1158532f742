package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theater-client/internal/handler"
	"github.com/iliyamo/theater-client/internal/middleware"
)

// RegisterCustomer registers the seat-selection and reservation routes
// under /v1.  All of them need a signed-in user; without one they
// answer 401 with a redirect to the login screen.
func RegisterCustomer(e *echo.Echo, s *handler.SelectionHandler, r *handler.ReservationHandler, id middleware.Identity) {
	g := e.Group("/v1", middleware.RequireIdentity(id))

	g.POST("/shows/:id/selection", s.Open)
	g.GET("/selections/:sid", s.Get)
	g.POST("/selections/:sid/seats/:seatId/toggle", s.Toggle)
	g.POST("/selections/:sid/submit", s.Submit)
	g.DELETE("/selections/:sid", s.Close)

	g.GET("/reservations/:code", r.Get)
	g.GET("/reservations/:code/invoice", r.Invoice)
	g.POST("/reservations/:code/cancel", r.Cancel)
	g.GET("/me/reservations", r.Mine)
}
