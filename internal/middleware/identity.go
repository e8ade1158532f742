package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theater-client/internal/model"
)

const userKey = "user"

// LoginPath is where signed-out users are sent.
const LoginPath = "/login"

// Identity reports the signed-in user.
type Identity interface {
	Current() (model.User, bool)
}

// RequireIdentity rejects requests while nobody is signed in with 401
// and a redirect hint to the login screen.  The user is stored in the
// context for CurrentUser.
func RequireIdentity(id Identity) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := id.Current()
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error":    "sign in required",
					"redirect": LoginPath,
				})
			}
			c.Set(userKey, u)
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by RequireIdentity.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(userKey).(model.User)
	return u, ok
}
