package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skillstack/internal/pkg/jwt"
	"skillstack/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer   abc  ", "abc", true},
		{"  Bearer abc", "abc", true},
		{"Bearer", "", false},
		{"Bearer   ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := bearerToken(tc.header)
		assert.Equal(t, tc.ok, ok, tc.header)
		assert.Equal(t, tc.want, got, tc.header)
	}
}

func TestNormalizeError(t *testing.T) {
	status, kind, msg := normalizeError(NewAppError(fiber.StatusBadGateway, response.KindProviderError, "upstream down", errors.New("boom")))
	assert.Equal(t, fiber.StatusBadGateway, status)
	assert.Equal(t, response.KindProviderError, kind)
	assert.Equal(t, "upstream down", msg)

	status, kind, msg = normalizeError(NewAppError(fiber.StatusInternalServerError, response.KindInternal, "sql: connection refused", nil))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, response.KindInternal, kind)
	assert.Equal(t, response.MessageInternalServerError, msg)

	status, kind, _ = normalizeError(fiber.ErrNotFound)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, response.KindNotFound, kind)

	status, _, msg = normalizeError(errors.New("raw"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, response.MessageInternalServerError, msg)
}

func newGuardedApp(t *testing.T, svc jwt.Service, logs io.Writer) *fiber.App {
	t.Helper()
	logger := log.New(logs, "", 0)
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(logger).Middleware())
	app.Use(NewErrorMiddleware(logger).Middleware())
	app.Post("/things", NewAuthMiddleware(svc).Middleware(), func(c fiber.Ctx) error {
		return c.SendString(Subject(c))
	})
	app.Get("/open", func(c fiber.Ctx) error {
		return c.SendString("subject=" + Subject(c))
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	svc := jwt.NewHMACService("s3cret", "skillstack", time.Hour)
	app := newGuardedApp(t, svc, io.Discard)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/things", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, `Bearer realm="skillstack"`, resp.Header.Get("WWW-Authenticate"))

	var body response.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, response.KindUnauthorized, body.Kind)
	assert.Equal(t, http.StatusUnauthorized, body.Status)

	token, err := svc.GenerateAccessToken("dashboard")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/things", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "dashboard", string(b))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/open", nil))
	require.NoError(t, err)
	b, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "subject=", string(b))
}

func TestAccessLogWritesRouteAndRequestID(t *testing.T) {
	var logs bytes.Buffer
	app := newGuardedApp(t, nil, &logs)

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set(HeaderRequestID, "rid-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "rid-1", resp.Header.Get(HeaderRequestID))

	line := logs.String()
	assert.Contains(t, line, "rid=rid-1")
	assert.Contains(t, line, "route=/open")
	assert.Contains(t, line, "status=200")

	logs.Reset()
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))
	assert.Contains(t, logs.String(), "status=404")
}
