package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/njprem/Blog_APP_BackEnd/internal/service"
	"github.com/njprem/Blog_APP_BackEnd/internal/util"
)

const internalErrorMessage = "internal error"

// statusFor maps a service error to its HTTP status. The second result is
// false for errors that must not be shown to the client.
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrInvalidOrExpiredToken):
		return http.StatusBadRequest, true
	case errors.Is(err, service.ErrMissingCredential),
		errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, true
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, true
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrGoogleLoginDisabled):
		return http.StatusNotFound, true
	case errors.Is(err, service.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, true
	default:
		return http.StatusInternalServerError, false
	}
}

// writeError renders err in the error envelope. Unexpected errors are logged
// and replaced by a generic message.
func writeError(c echo.Context, logger zerolog.Logger, err error) error {
	status, public := statusFor(err)
	if !public {
		logger.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("request failed")
		return c.JSON(status, util.Error(status, internalErrorMessage))
	}
	return c.JSON(status, util.Error(status, publicMessage(err)))
}

// publicMessage drops the sentinel prefix of wrapped validation and conflict
// errors so that only the detail reaches the client.
func publicMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{service.ErrValidation, service.ErrConflict} {
		prefix := sentinel.Error() + ": "
		if errors.Is(err, sentinel) && strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}

func newHTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) {
			message := http.StatusText(he.Code)
			if m, ok := he.Message.(string); ok && m != "" {
				message = m
			}
			if he.Code >= http.StatusInternalServerError {
				logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
			}
			if c.Request().Method == http.MethodHead {
				_ = c.NoContent(he.Code)
				return
			}
			_ = c.JSON(he.Code, util.Error(he.Code, message))
			return
		}
		_ = writeError(c, logger, err)
	}
}
