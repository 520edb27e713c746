package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njprem/Blog_APP_BackEnd/internal/domain"
	"github.com/njprem/Blog_APP_BackEnd/internal/service"
)

type fakeAuthenticator struct {
	identities map[string]domain.Identity
	err        error

	calls     int
	lastToken string
}

func (f *fakeAuthenticator) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	f.calls++
	f.lastToken = token
	if f.err != nil {
		return domain.Identity{}, f.err
	}
	identity, ok := f.identities[token]
	if !ok {
		return domain.Identity{}, service.ErrUnauthorized
	}
	return identity, nil
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func runRequireAuth(auth Authenticator, header string) (*httptest.ResponseRecorder, int, domain.Identity) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	nextCalls := 0
	var seen domain.Identity
	handler := RequireAuth(auth, zerolog.Nop())(func(c echo.Context) error {
		nextCalls++
		seen, _ = CurrentIdentity(c)
		return c.NoContent(http.StatusNoContent)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, nextCalls, seen
}

func TestRequireAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	alice := domain.Identity{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"no header", "", "missing credentials"},
		{"basic scheme", "Basic YWxpY2U6cHc=", "missing credentials"},
		{"lowercase scheme", "bearer good", "missing credentials"},
		{"no space", "Bearergood", "missing credentials"},
		{"unknown token", "Bearer forged", "unauthorized"},
		{"empty token", "Bearer ", "unauthorized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuthenticator{identities: map[string]domain.Identity{"good": alice}}
			rec, nextCalls, _ := runRequireAuth(auth, tt.header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Zero(t, nextCalls, "protected handler must not run")
			body := decodeEnvelope(t, rec)
			assert.Equal(t, tt.message, body.Error)
			assert.Equal(t, http.StatusUnauthorized, body.Status)
		})
	}
}

func TestRequireAuthAttachesIdentity(t *testing.T) {
	alice := domain.Identity{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	auth := &fakeAuthenticator{identities: map[string]domain.Identity{"good token": alice}}

	rec, nextCalls, seen := runRequireAuth(auth, "Bearer good token")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, nextCalls)
	assert.Equal(t, "good token", auth.lastToken, "token is everything after the first space")
	assert.Equal(t, alice, seen)
}

func TestRequireAuthDeletedUserIsUnauthorized(t *testing.T) {
	// Authenticate reports ErrUnauthorized when the token subject no longer exists.
	auth := &fakeAuthenticator{err: service.ErrUnauthorized}
	rec, nextCalls, _ := runRequireAuth(auth, "Bearer valid-but-orphaned")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, nextCalls)
}

func TestRequireAuthStoreFailureIsInternal(t *testing.T) {
	auth := &fakeAuthenticator{err: errors.New("connection refused")}
	rec, nextCalls, _ := runRequireAuth(auth, "Bearer good")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, nextCalls)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, internalErrorMessage, body.Error)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestCurrentIdentityWithoutAuth(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, ok := CurrentIdentity(c)
	assert.False(t, ok)
}
