package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theater-client/internal/synchronizer"
)

// SelectionHandler drives seat-selection sessions.  Each POST to a
// show's selection opens a Session that lives until it is deleted, the
// user signs out, or the process stops.
type SelectionHandler struct {
	Sessions *synchronizer.Registry
	Config   synchronizer.Config
}

func NewSelectionHandler(sessions *synchronizer.Registry, cfg synchronizer.Config) *SelectionHandler {
	return &SelectionHandler{Sessions: sessions, Config: cfg}
}

type selectionResp struct {
	SessionID string `json:"session_id"`
	synchronizer.Snapshot
}

// Open loads the show and subscribes to its seat updates.  A failed
// load is reported and the session discarded.
func (h *SelectionHandler) Open(c echo.Context) error {
	showID, ok := paramID(c, "id")
	if !ok {
		return invalidParam(c, "show id")
	}
	s := synchronizer.New(h.Config, showID)
	if err := s.Open(c.Request().Context()); err != nil {
		s.Close()
		return sessionError(c, err)
	}
	sid := h.Sessions.Add(s)
	return c.JSON(http.StatusCreated, selectionResp{SessionID: sid, Snapshot: s.Snapshot()})
}

func (h *SelectionHandler) session(c echo.Context) (string, *synchronizer.Session, error) {
	sid := c.Param("sid")
	s, err := h.Sessions.Get(sid)
	return sid, s, err
}

// Get renders the session: rows, selection, total and state.
func (h *SelectionHandler) Get(c echo.Context) error {
	sid, s, err := h.session(c)
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(http.StatusOK, selectionResp{SessionID: sid, Snapshot: s.Snapshot()})
}

// Toggle flips one seat in the selection.
func (h *SelectionHandler) Toggle(c echo.Context) error {
	sid, s, err := h.session(c)
	if err != nil {
		return sessionError(c, err)
	}
	seatID, ok := paramID(c, "seatId")
	if !ok {
		return invalidParam(c, "seat id")
	}
	if _, err := s.Toggle(seatID); err != nil {
		return sessionError(c, err)
	}
	return c.JSON(http.StatusOK, selectionResp{SessionID: sid, Snapshot: s.Snapshot()})
}

// Submit reserves the selection and points the view at the
// confirmation screen.
func (h *SelectionHandler) Submit(c echo.Context) error {
	_, s, err := h.session(c)
	if err != nil {
		return sessionError(c, err)
	}
	res, err := s.Submit(c.Request().Context())
	if err != nil {
		if errors.Is(err, synchronizer.ErrSubmitFailed) {
			c.Logger().Warnf("handler: submit show %d: %v", s.ShowID(), err)
		}
		return sessionError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"reservation_code": res.ReservationCode,
		"redirect":         "/confirmation/" + res.ReservationCode,
	})
}

// Close tears the session down.
func (h *SelectionHandler) Close(c echo.Context) error {
	if err := h.Sessions.Remove(c.Param("sid")); err != nil {
		return sessionError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
