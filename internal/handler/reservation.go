package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theater-client/internal/middleware"
)

// ReservationHandler serves the confirmation and profile screens.
type ReservationHandler struct {
	API Backend
}

func NewReservationHandler(api Backend) *ReservationHandler { return &ReservationHandler{API: api} }

// Get returns a reservation by its code.
func (h *ReservationHandler) Get(c echo.Context) error {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		return invalidParam(c, "reservation code")
	}
	res, err := h.API.GetReservationByCode(c.Request().Context(), code)
	if err != nil {
		return backendError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": res, "seat_labels": res.SeatLabels()})
}

// Invoice streams the invoice document.
func (h *ReservationHandler) Invoice(c echo.Context) error {
	code := c.Param("code")
	doc, err := h.API.DownloadInvoice(c.Request().Context(), code)
	if err != nil {
		return backendError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="invoice-`+code+`.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", doc)
}

// Cancel cancels a reservation.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	code := c.Param("code")
	if err := h.API.CancelReservation(c.Request().Context(), code); err != nil {
		return backendError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation_code": code, "status": "cancelled"})
}

// Mine lists the signed-in user's reservations.
func (h *ReservationHandler) Mine(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	list, err := h.API.GetUserReservations(c.Request().Context(), u.ID)
	if err != nil {
		return backendError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": nonNil(list)})
}
