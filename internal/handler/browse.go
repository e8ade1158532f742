package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theater-client/internal/model"
)

// BrowseHandler serves the public show catalogue.
type BrowseHandler struct {
	API Backend
}

func NewBrowseHandler(api Backend) *BrowseHandler { return &BrowseHandler{API: api} }

// ListShows lists shows, optionally filtered by ?title= (search) or
// ?genre=.  A title filter wins over genre.
func (h *BrowseHandler) ListShows(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		shows []model.Show
		err   error
	)
	switch title, genre := strings.TrimSpace(c.QueryParam("title")), c.QueryParam("genre"); {
	case title != "":
		shows, err = h.API.SearchShows(ctx, title)
	case genre != "":
		g := model.Genre(genre)
		if !g.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown genre", "genres": model.Genres})
		}
		shows, err = h.API.ShowsByGenre(ctx, g)
	default:
		shows, err = h.API.ListShows(ctx)
	}
	if err != nil {
		return backendError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": nonNil(shows)})
}

// Upcoming lists shows that have not started.
func (h *BrowseHandler) Upcoming(c echo.Context) error {
	shows, err := h.API.UpcomingShows(c.Request().Context())
	if err != nil {
		return backendError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": nonNil(shows)})
}

// ByGenre lists the shows of one genre.
func (h *BrowseHandler) ByGenre(c echo.Context) error {
	g := model.Genre(c.Param("genre"))
	if !g.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown genre", "genres": model.Genres})
	}
	shows, err := h.API.ShowsByGenre(c.Request().Context(), g)
	if err != nil {
		return backendError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": nonNil(shows)})
}

// Search matches shows by ?title=.
func (h *BrowseHandler) Search(c echo.Context) error {
	title := strings.TrimSpace(c.QueryParam("title"))
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	shows, err := h.API.SearchShows(c.Request().Context(), title)
	if err != nil {
		return backendError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": nonNil(shows)})
}

// GetShow returns one show's details.
func (h *BrowseHandler) GetShow(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidParam(c, "show id")
	}
	show, err := h.API.GetShow(c.Request().Context(), id)
	if err != nil {
		return backendError(c, err)
	}
	return c.JSON(http.StatusOK, show)
}

// GetSeats returns a show's seats; ?available=true restricts to free
// seats.
func (h *BrowseHandler) GetSeats(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidParam(c, "show id")
	}
	ctx := c.Request().Context()
	var (
		seats []model.Seat
		err   error
	)
	if c.QueryParam("available") == "true" {
		seats, err = h.API.GetAvailableSeats(ctx, id)
	} else {
		seats, err = h.API.GetSeatsForShow(ctx, id)
	}
	if err != nil {
		return backendError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": nonNil(seats)})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
