package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/njprem/Blog_APP_BackEnd/internal/domain"
	"github.com/njprem/Blog_APP_BackEnd/internal/service"
	"github.com/njprem/Blog_APP_BackEnd/internal/util"
)

const bearerPrefix = "Bearer "

// Authenticator resolves a bearer token to the identity of an existing user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
}

// RequireAuth rejects requests without a valid bearer token. On success the
// caller's identity is stored in the request context before next runs.
func RequireAuth(auth Authenticator, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return c.JSON(http.StatusUnauthorized, util.Error(http.StatusUnauthorized, service.ErrMissingCredential.Error()))
			}
			token := header[strings.IndexByte(header, ' ')+1:]

			identity, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return writeError(c, logger, err)
			}

			ctx := domain.WithIdentity(c.Request().Context(), identity)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// CurrentIdentity returns the identity attached by RequireAuth.
func CurrentIdentity(c echo.Context) (domain.Identity, bool) {
	return domain.IdentityFrom(c.Request().Context())
}
