package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

type healthResponse struct {
	Status string `json:"status"`
}

// NewRouter returns an echo instance with the shared middleware stack and
// the /health endpoint. Feature routes are registered by the caller.
func NewRouter(allowOrigins []string, logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = newHTTPErrorHandler(logger)

	registerLogging(e, logger)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error().Err(err).Str("uri", redactURI(c, c.Request().RequestURI)).Bytes("stack", stack).Msg("panic recovered")
			return err
		},
	}))
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(corsConfig(allowOrigins)))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
	})
	return e
}

// corsConfig allows credentials only when no wildcard origin is configured.
func corsConfig(allowOrigins []string) middleware.CORSConfig {
	withCredentials := len(allowOrigins) > 0
	for _, origin := range allowOrigins {
		if origin == "*" {
			withCredentials = false
		}
	}
	return middleware.CORSConfig{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderOrigin},
		AllowCredentials: withCredentials,
		MaxAge:           600,
	}
}
