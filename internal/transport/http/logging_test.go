package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeBodyRedactsSecrets(t *testing.T) {
	body := []byte(`{"email":"a@example.com","password":"hunter22","new_password":"x","token":"abc","user":{"id_token":"t"},"tags":["go"]}`)
	got, ok := sanitizeBody(body, echo.MIMEApplicationJSON).(map[string]interface{})
	require.True(t, ok)

	assert.Equal(t, "a@example.com", got["email"])
	assert.Equal(t, redacted, got["password"])
	assert.Equal(t, redacted, got["new_password"])
	assert.Equal(t, redacted, got["token"])
	assert.Equal(t, redacted, got["user"].(map[string]interface{})["id_token"])
	assert.Equal(t, []interface{}{"go"}, got["tags"])
}

func TestSanitizeBodyFormsAndBinary(t *testing.T) {
	form := sanitizeBody([]byte("email=a%40example.com&password=secret"), echo.MIMEApplicationForm)
	fields, ok := form.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "a@example.com", fields["email"])
	assert.Equal(t, redacted, fields["password"])

	assert.Equal(t, binaryPlaceholder, sanitizeBody([]byte{0xff, 0xfe, 0x00}, "application/octet-stream"))
	assert.Nil(t, sanitizeBody(nil, echo.MIMEApplicationJSON))

	long := strings.Repeat("a", maxLoggedBody+10)
	assert.True(t, strings.HasSuffix(sanitizeBody([]byte(long), "text/plain").(string), "...(truncated)"))
}

func TestSanitizeMultipartHidesFiles(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("caption", "hello"))
	fw, err := w.CreateFormFile("image", "cover.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got, ok := sanitizeBody(buf.Bytes(), w.FormDataContentType()).(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "hello", got["caption"])
	assert.Equal(t, binaryPlaceholder, got["image"])
}

func TestLimitJSONSizeTruncates(t *testing.T) {
	items := make([]interface{}, 500)
	for i := range items {
		items[i] = "item"
	}
	got, ok := limitJSONSize(map[string]interface{}{"items": items}).(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, got["_truncated"])
}

func TestRequestLogRedactsResetToken(t *testing.T) {
	var out bytes.Buffer
	logger := zerolog.New(&out)
	e := NewRouter([]string{"*"}, logger)
	e.PUT("/api/v1/auth/password/reset/:token", func(c echo.Context) error {
		return c.JSON(http.StatusOK, SuccessResponse{Success: true})
	})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/auth/password/reset/s3cr3t-token", strings.NewReader(`{"new_password":"newpassword1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	logged := out.String()
	assert.NotContains(t, logged, "s3cr3t-token")
	assert.NotContains(t, logged, "newpassword1")

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(logged)), &event))
	assert.Equal(t, "/api/v1/auth/password/reset/redacted", event["uri"])
	assert.Equal(t, "anonymous", event["user_id"])
	assert.EqualValues(t, http.StatusOK, event["status"])
}
