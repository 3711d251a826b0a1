package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PosCloud/internal/pkg/billing"
	"github.com/ManuelReschke/PosCloud/internal/pkg/tenant"
)

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{billing.ErrPlanNotFound, fiber.StatusNotFound, "plan_not_found"},
		{fmt.Errorf("lock tenant: %w", tenant.ErrTenantNotFound), fiber.StatusNotFound, "tenant_not_found"},
		{fmt.Errorf("%w: trial -> expired", tenant.ErrInvalidTransition), fiber.StatusConflict, "invalid_transition"},
		{tenant.ErrOutletLimitReached, fiber.StatusForbidden, "outlet_limit_reached"},
		{errors.New("disk on fire"), fiber.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return respondError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decode(t, resp)
			assert.Equal(t, tt.code, body["error"])
			if tt.status == fiber.StatusInternalServerError {
				assert.NotContains(t, body["message"], "disk")
			}
		})
	}
}

func TestBindJSON(t *testing.T) {
	type payload struct {
		PlanID     string `json:"planId" validate:"required,uuid"`
		MaxOutlets int    `json:"maxOutlets" validate:"gte=1"`
	}

	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		var p payload
		if ok, err := bindJSON(c, &p); !ok {
			return err
		}
		return c.JSON(p)
	})

	send := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	resp := send(`{"planId":"bad","maxOutlets":0}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "validation_failed", body["error"])
	assert.Equal(t, map[string]interface{}{"planId": "uuid", "maxOutlets": "gte"}, body["fields"])

	resp = send(`{"planId":`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_body", decode(t, resp)["error"])

	resp = send(`{"planId":"0b9e6c3c-8f55-4a55-8c8b-8d1f0fb0e2a4","maxOutlets":2}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "http_error", decode(t, resp)["error"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal_error", decode(t, resp)["error"])
}

func TestClientIP(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(ClientIP(c)) })

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"cloudflare", map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "10.0.0.1"}, "203.0.113.7"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": " 198.51.100.4, 10.0.0.1"}, "198.51.100.4"},
		{"real ip", map[string]string{"X-Real-IP": "192.0.2.9"}, "192.0.2.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			buf := new(strings.Builder)
			_, err = io.Copy(buf, resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestClientIP_ProxyTrust(t *testing.T) {
	tests := []struct {
		name    string
		proxies []string
		spoofed bool
	}{
		{"untrusted peer", nil, false},
		{"trusted proxy", []string{"0.0.0.0/0", "::/0"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{EnableTrustedProxyCheck: true, TrustedProxies: tt.proxies})
			app.Get("/", func(c *fiber.Ctx) error { return c.SendString(ClientIP(c)) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Forwarded-For", "198.51.100.4")
			req.Header.Set("CF-Connecting-IP", "203.0.113.7")
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			if tt.spoofed {
				assert.Equal(t, "203.0.113.7", string(raw))
			} else {
				assert.NotEqual(t, "203.0.113.7", string(raw))
				assert.NotEqual(t, "198.51.100.4", string(raw))
			}
		})
	}
}

func TestUUIDField(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		id, ok, err := uuidField(c, "planId", c.Query("id"))
		if !ok {
			return err
		}
		return c.SendString(id.String())
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/?id=not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "validation_failed", body["error"])
	assert.Equal(t, map[string]interface{}{"planId": "uuid"}, body["fields"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/?id=0b9e6c3c-8f55-4a55-8c8b-8d1f0fb0e2a4", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
