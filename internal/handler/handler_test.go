package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theater-client/internal/api"
	"github.com/iliyamo/theater-client/internal/live"
	"github.com/iliyamo/theater-client/internal/model"
	"github.com/iliyamo/theater-client/internal/synchronizer"
)

func respond(t *testing.T, fn func(c echo.Context) error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	require.NoError(t, fn(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
	return rec
}

func TestSessionErrorStatus(t *testing.T) {
	conflict := fmt.Errorf("%w: %w", synchronizer.ErrSubmitFailed, &api.APIError{StatusCode: http.StatusConflict, Message: "taken"})
	cases := []struct {
		err  error
		code int
	}{
		{synchronizer.ErrNotSignedIn, http.StatusUnauthorized},
		{synchronizer.ErrEmptySelection, http.StatusBadRequest},
		{synchronizer.ErrUnknownSeat, http.StatusNotFound},
		{synchronizer.ErrSessionNotFound, http.StatusNotFound},
		{synchronizer.ErrSubmitInProgress, http.StatusConflict},
		{synchronizer.ErrClosed, http.StatusConflict},
		{conflict, http.StatusConflict},
		{fmt.Errorf("%w: %w", synchronizer.ErrLoadFailed, errors.New("dial tcp: refused")), http.StatusBadGateway},
		{errors.New("???"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := respond(t, func(c echo.Context) error { return sessionError(c, tc.err) })
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
	}

	rec := respond(t, func(c echo.Context) error { return sessionError(c, conflict) })
	assert.JSONEq(t, `{"error":"taken"}`, rec.Body.String())
}

func TestValidatorMessages(t *testing.T) {
	v := NewValidator()
	err := v.Validate(&model.Registration{Username: "ab", Password: "secret1", FullName: "A", Email: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username: min=3")
	assert.Contains(t, err.Error(), "email: email")

	assert.NoError(t, v.Validate(&model.Credentials{Username: "a", Password: "b"}))
}

type fixedState live.State

func (s fixedState) State() live.State { return live.State(s) }

func TestHealthReportsLiveState(t *testing.T) {
	rec := respond(t, Health(fixedState(live.StateBackoffWait)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","live":"backoff-wait"}`, rec.Body.String())
}
