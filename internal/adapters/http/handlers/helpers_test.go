package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/914h/BabImmob-sub000/internal/adapters/api"
	"github.com/914h/BabImmob-sub000/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithFlash(t *testing.T) {
	assert.Equal(t, "/owner/properties", withFlash("/owner/properties", "message", ""))
	assert.Equal(t, "/login?error=Bad+credentials", withFlash("/login", "error", "Bad credentials"))
}

func TestOrDashAndNames(t *testing.T) {
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "x", orDash("x"))
	assert.Equal(t, "-", userName(nil, 0))
	assert.Equal(t, "#4", userName(nil, 4))
	assert.Equal(t, "#9", propertyName(nil, 9))
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func failApp(err error) *fiber.App {
	app := fiber.New()
	app.Post("/api/v1/thing", func(c *fiber.Ctx) error {
		return failed(c, err, "/back", "Unable to save")
	})
	app.Post("/thing", func(c *fiber.Ctx) error {
		return failed(c, err, "/back", "Unable to save")
	})
	return app
}

func TestFailedMapsAPIErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"client error keeps status and message", &api.Error{Status: http.StatusConflict, Message: "Property already rented"}, http.StatusConflict, "Property already rented"},
		{"server error hides upstream message", &api.Error{Status: http.StatusInternalServerError, Message: "SQLSTATE"}, http.StatusBadGateway, "Unable to save"},
		{"transport error", errors.New("dial tcp: refused"), http.StatusBadGateway, "Unable to save"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := failApp(tt.err).Test(httptest.NewRequest(http.MethodPost, "/api/v1/thing", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body envelope
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}

func TestFailedRedirectsPagesWithFlash(t *testing.T) {
	resp, err := failApp(&api.Error{Status: http.StatusForbidden, Message: "Not yours"}).
		Test(httptest.NewRequest(http.MethodPost, "/thing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/back?error=Not+yours", resp.Header.Get("Location"))
}

func TestFailedHandsUnauthorizedToInterceptor(t *testing.T) {
	var seen error
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		seen = err
		return c.SendStatus(fiber.StatusTeapot)
	}})
	app.Get("/x", func(c *fiber.Ctx) error {
		return failed(c, &api.Error{Status: http.StatusUnauthorized}, "/back", "nope")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.ErrorIs(t, seen, api.ErrUnauthorized)
}

func TestPagesAndScriptsGetDifferentSuccessAnswers(t *testing.T) {
	app := fiber.New()
	app.Post("/owner/properties/3/delete", func(c *fiber.Ctx) error {
		return done(c, "/owner/properties", "Property deleted", fiber.Map{"id": 3})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/owner/properties/3/delete", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/owner/properties?message=Property+deleted", resp.Header.Get("Location"))

	req := httptest.NewRequest(http.MethodPost, "/owner/properties/3/delete", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"success":true,"message":"Property deleted","data":{"id":3}}`, string(raw))
}

func TestHealthCheck(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Any answer, even a 401, proves the API is up
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(upstream.Close)

	cfg := &config.Config{AppMode: "dev"}
	check := func(h *HealthHandler) (int, map[string]any) {
		app := fiber.New()
		app.Get("/health", h.HealthCheck)
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return resp.StatusCode, body
	}

	h := NewHealthHandler(api.New(upstream.URL, time.Second), cfg)
	h.checkDB = func() error { return nil }
	status, body := check(h)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	h.checkDB = func() error { return errors.New("gone") }
	status, body = check(h)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "unhealthy", body["checks"].(map[string]any)["database"])

	down := NewHealthHandler(api.New("http://127.0.0.1:1", time.Second), cfg)
	down.checkDB = func() error { return nil }
	status, body = check(down)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "unreachable", body["checks"].(map[string]any)["api"])
}
