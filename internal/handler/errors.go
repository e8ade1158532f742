package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theater-client/internal/api"
	"github.com/iliyamo/theater-client/internal/middleware"
	"github.com/iliyamo/theater-client/internal/synchronizer"
)

// backendError relays a backend failure.  Backend statuses pass through
// with the backend's message; transport failures become 502.
func backendError(c echo.Context, err error) error {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.StatusCode)
		}
		return c.JSON(apiErr.StatusCode, echo.Map{"error": msg})
	}
	c.Logger().Errorf("handler: backend: %v", err)
	return c.JSON(http.StatusBadGateway, echo.Map{"error": "backend unavailable"})
}

// sessionError maps synchronizer errors onto responses.
func sessionError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, synchronizer.ErrNotSignedIn):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error(), "redirect": middleware.LoginPath})
	case errors.Is(err, synchronizer.ErrEmptySelection):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, synchronizer.ErrUnknownSeat), errors.Is(err, synchronizer.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, synchronizer.ErrInvalidState),
		errors.Is(err, synchronizer.ErrSubmitInProgress),
		errors.Is(err, synchronizer.ErrClosed):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, synchronizer.ErrSubmitFailed), errors.Is(err, synchronizer.ErrLoadFailed):
		return backendError(c, err)
	}
	c.Logger().Errorf("handler: session: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func paramID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

func invalidParam(c echo.Context, name string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid " + name})
}
