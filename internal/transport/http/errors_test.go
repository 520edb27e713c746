package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/njprem/Blog_APP_BackEnd/internal/service"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		public bool
	}{
		{fmt.Errorf("%w: title is required", service.ErrValidation), http.StatusBadRequest, true},
		{fmt.Errorf("%w: email already registered", service.ErrConflict), http.StatusBadRequest, true},
		{service.ErrInvalidOrExpiredToken, http.StatusBadRequest, true},
		{service.ErrMissingCredential, http.StatusUnauthorized, true},
		{service.ErrUnauthorized, http.StatusUnauthorized, true},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, true},
		{service.ErrForbidden, http.StatusForbidden, true},
		{service.ErrNotFound, http.StatusNotFound, true},
		{service.ErrStorageUnavailable, http.StatusServiceUnavailable, true},
		{errors.New("dial tcp: refused"), http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		status, public := statusFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.public, public, tt.err.Error())
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "email already registered", publicMessage(fmt.Errorf("%w: email already registered", service.ErrConflict)))
	assert.Equal(t, "title is required", publicMessage(fmt.Errorf("%w: title is required", service.ErrValidation)))
	assert.Equal(t, "forbidden", publicMessage(service.ErrForbidden))
}
