package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theater-client/internal/middleware"
	"github.com/iliyamo/theater-client/internal/model"
	"github.com/iliyamo/theater-client/internal/synchronizer"
)

// AuthHandler signs the local user in and out against the backend.
type AuthHandler struct {
	API      Backend
	Identity Identity
	Sessions *synchronizer.Registry
}

func NewAuthHandler(api Backend, id Identity, sessions *synchronizer.Registry) *AuthHandler {
	return &AuthHandler{API: api, Identity: id, Sessions: sessions}
}

// Login forwards credentials and stores the returned user.
func (h *AuthHandler) Login(c echo.Context) error {
	var req model.Credentials
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	u, err := h.API.Login(c.Request().Context(), req)
	if err != nil {
		return backendError(c, err)
	}
	h.Identity.Set(*u, u.Token)
	u.Token = ""
	return c.JSON(http.StatusOK, echo.Map{"user": u, "redirect": "/"})
}

// Register creates the account and signs straight in with the same
// credentials.
func (h *AuthHandler) Register(c echo.Context) error {
	var req model.Registration
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Role = strings.ToUpper(strings.TrimSpace(req.Role))
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	if _, err := h.API.Register(ctx, req); err != nil {
		return backendError(c, err)
	}
	u, err := h.API.Login(ctx, model.Credentials{Username: req.Username, Password: req.Password})
	if err != nil {
		return backendError(c, err)
	}
	h.Identity.Set(*u, u.Token)
	u.Token = ""
	return c.JSON(http.StatusCreated, echo.Map{"user": u, "redirect": "/"})
}

// Logout signs out and tears down every open selection.
func (h *AuthHandler) Logout(c echo.Context) error {
	closed := h.Sessions.CloseAll()
	h.Identity.Clear()
	return c.JSON(http.StatusOK, echo.Map{"closed_sessions": closed, "redirect": middleware.LoginPath})
}

// Me returns the signed-in user's profile, refreshed from the backend.
func (h *AuthHandler) Me(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	fresh, err := h.API.GetUser(c.Request().Context(), u.ID)
	if err != nil {
		return backendError(c, err)
	}
	return c.JSON(http.StatusOK, fresh)
}

// UpdateMe saves the editable profile fields.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	var req model.ProfileUpdate
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	updated, err := h.API.UpdateUser(c.Request().Context(), u.ID, req)
	if err != nil {
		return backendError(c, err)
	}
	updated.Token = ""
	return c.JSON(http.StatusOK, updated)
}
