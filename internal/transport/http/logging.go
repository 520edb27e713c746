package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

const (
	requestBodyLogKey  = "http.request.body.summary"
	responseBodyLogKey = "http.response.body.summary"
	maxLoggedBody      = 2048
	redacted           = "redacted"
	binaryPlaceholder  = "binary"
)

// registerLogging emits one structured event per request. Bodies are
// summarized with secrets removed.
func registerLogging(e *echo.Echo, logger zerolog.Logger) {
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := logger.Info()
			switch {
			case v.Status >= 500:
				event = logger.Error()
			case v.Status >= 400:
				event = logger.Warn()
			}

			userID := "anonymous"
			if identity, ok := CurrentIdentity(c); ok {
				userID = identity.ID.String()
			}

			event = event.
				Str("user_id", userID).
				Str("method", v.Method).
				Str("uri", redactURI(c, v.URI)).
				Str("route", c.Path()).
				Int("status", v.Status).
				Int64("latency_ms", v.Latency.Milliseconds())
			if summary := c.Get(requestBodyLogKey); summary != nil {
				event = event.Interface("request_body", summary)
			}
			if summary := c.Get(responseBodyLogKey); summary != nil {
				event = event.Interface("response_body", summary)
			}
			if v.Error != nil {
				event = event.Err(v.Error)
			}
			event.Msg("http request")
			return nil
		},
	}))

	e.Use(middleware.BodyDump(func(c echo.Context, reqBody, resBody []byte) {
		if summary := sanitizeBody(reqBody, c.Request().Header.Get(echo.HeaderContentType)); summary != nil {
			c.Set(requestBodyLogKey, summary)
		}
		if summary := sanitizeBody(resBody, c.Response().Header().Get(echo.HeaderContentType)); summary != nil {
			c.Set(responseBodyLogKey, summary)
		}
	}))
}

// isSensitiveKey matches passwords and every kind of token, bearer and reset alike.
func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	return strings.Contains(key, "password") || strings.Contains(key, "token")
}

// redactURI hides the reset token carried in the path.
func redactURI(c echo.Context, uri string) string {
	token := c.Param("token")
	if token == "" {
		return uri
	}
	return strings.Replace(uri, token, redacted, 1)
}

func sanitizeBody(body []byte, contentType string) interface{} {
	if len(body) == 0 {
		return nil
	}
	mediaType := strings.ToLower(strings.TrimSpace(contentType))

	switch {
	case strings.HasPrefix(mediaType, "multipart/form-data"):
		return sanitizeMultipart(body, contentType)
	case strings.HasPrefix(mediaType, "application/json") || json.Valid(body):
		var data interface{}
		if err := json.Unmarshal(body, &data); err == nil {
			return limitJSONSize(sanitizeJSON(data, ""))
		}
	case strings.HasPrefix(mediaType, "application/x-www-form-urlencoded"):
		if values, err := url.ParseQuery(string(body)); err == nil && len(values) > 0 {
			fields := make(map[string]interface{}, len(values))
			for key, vals := range values {
				for _, val := range vals {
					addFormField(fields, key, sanitizeString(val, key))
				}
			}
			return limitJSONSize(fields)
		}
	}

	if isBinary(body) {
		return binaryPlaceholder
	}
	text := string(body)
	if isSensitiveKey(text) {
		return redacted
	}
	return clampString(text, maxLoggedBody)
}

func sanitizeJSON(value interface{}, key string) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			if isSensitiveKey(k) {
				out[k] = redacted
				continue
			}
			out[k] = sanitizeJSON(val, k)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = sanitizeJSON(item, key)
		}
		return out
	case string:
		return sanitizeString(v, key)
	default:
		return v
	}
}

func sanitizeString(value, key string) string {
	if key != "" && isSensitiveKey(key) {
		return redacted
	}
	if isBinary([]byte(value)) {
		return binaryPlaceholder
	}
	return clampString(value, maxLoggedBody)
}

func sanitizeMultipart(body []byte, contentType string) interface{} {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		return binaryPlaceholder
	}

	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	fields := make(map[string]interface{})
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return binaryPlaceholder
		}
		name := part.FormName()
		if name == "" {
			_ = part.Close()
			continue
		}
		var value interface{} = binaryPlaceholder
		if part.FileName() == "" {
			if data, err := io.ReadAll(part); err == nil {
				value = sanitizeString(string(data), name)
			}
		}
		_ = part.Close()
		addFormField(fields, name, value)
	}
	if len(fields) == 0 {
		return binaryPlaceholder
	}
	return limitJSONSize(fields)
}

// limitJSONSize replaces values whose encoding exceeds maxLoggedBody with a
// shallow preview.
func limitJSONSize(value interface{}) interface{} {
	buf, err := json.Marshal(value)
	if err != nil || len(buf) <= maxLoggedBody {
		return value
	}
	return map[string]interface{}{
		"_truncated": true,
		"_preview":   previewJSON(value, 0),
	}
}

func previewJSON(value interface{}, depth int) interface{} {
	const (
		maxDepth      = 3
		maxMapEntries = 6
		maxSamples    = 3
		maxString     = 256
	)
	if depth >= maxDepth {
		return "...(omitted)..."
	}

	switch v := value.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]interface{}, maxMapEntries+1)
		for i, k := range keys {
			if i == maxMapEntries {
				out["_omitted_fields"] = len(keys) - i
				break
			}
			out[k] = previewJSON(v[k], depth+1)
		}
		return out
	case []interface{}:
		n := len(v)
		if n > maxSamples {
			n = maxSamples
		}
		sample := make([]interface{}, 0, n)
		for _, item := range v[:n] {
			sample = append(sample, previewJSON(item, depth+1))
		}
		return map[string]interface{}{"_total_items": len(v), "_sample": sample}
	case string:
		return clampString(v, maxString)
	default:
		return v
	}
}

func isBinary(data []byte) bool {
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			return true
		}
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return true
		}
		data = data[size:]
	}
	return false
}

func clampString(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	truncated := value[:limit]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated + "...(truncated)"
}

func addFormField(fields map[string]interface{}, key string, value interface{}) {
	existing, ok := fields[key]
	if !ok {
		fields[key] = value
		return
	}
	if items, ok := existing.([]interface{}); ok {
		fields[key] = append(items, value)
		return
	}
	fields[key] = []interface{}{existing, value}
}
