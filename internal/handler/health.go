package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theater-client/internal/live"
)

// LiveStatus reports the live channel's connection state.
type LiveStatus interface {
	State() live.State
}

// Health always answers 200 while the process is up; the live channel
// state is informational since a disconnected channel is a degraded but
// usable mode.
func Health(ch LiveStatus) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "live": ch.State()})
	}
}
