package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PosCloud/app/models"
	"github.com/ManuelReschke/PosCloud/internal/pkg/security"
	"github.com/ManuelReschke/PosCloud/internal/pkg/usercontext"
)

func newTestApp(tokens *security.TokenIssuer, guards ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{RequireAuth(tokens)}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.SendString(usercontext.GetUserID(c).String())
	})
	app.Get("/protected", handlers...)
	return app
}

func issue(t *testing.T, tokens *security.TokenIssuer, tenantID *uuid.UUID, role models.Role) string {
	t.Helper()
	token, _, err := tokens.Issue(&models.User{ID: uuid.New(), TenantID: tenantID, Role: role})
	require.NoError(t, err)
	return token
}

func call(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRequireAuth(t *testing.T) {
	tokens := security.NewTokenIssuer("secret", "poscloud", time.Hour)
	app := newTestApp(tokens)
	tenantID := uuid.New()

	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, ""))
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, "not-a-jwt"))

	other := security.NewTokenIssuer("other-secret", "poscloud", time.Hour)
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, issue(t, other, &tenantID, models.RoleOwner)))

	expired := security.NewTokenIssuer("secret", "poscloud", -time.Minute)
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, issue(t, expired, &tenantID, models.RoleOwner)))

	assert.Equal(t, fiber.StatusOK, call(t, app, issue(t, tokens, &tenantID, models.RoleOwner)))
}

func TestRequirePermissionAndTenant(t *testing.T) {
	tokens := security.NewTokenIssuer("secret", "poscloud", time.Hour)
	tenantID := uuid.New()

	billing := newTestApp(tokens, RequireTenant, RequirePermission(models.PermManageBilling))
	assert.Equal(t, fiber.StatusOK, call(t, billing, issue(t, tokens, &tenantID, models.RoleOwner)))
	assert.Equal(t, fiber.StatusForbidden, call(t, billing, issue(t, tokens, &tenantID, models.RoleManager)))
	assert.Equal(t, fiber.StatusForbidden, call(t, billing, issue(t, tokens, &tenantID, models.RoleCashier)))
	assert.Equal(t, fiber.StatusForbidden, call(t, billing, issue(t, tokens, nil, models.RoleSuperAdmin)))

	admin := newTestApp(tokens, RequirePermission(models.PermAdminister))
	assert.Equal(t, fiber.StatusOK, call(t, admin, issue(t, tokens, nil, models.RoleSuperAdmin)))
	assert.Equal(t, fiber.StatusForbidden, call(t, admin, issue(t, tokens, &tenantID, models.RoleOwner)))
}

func TestExtractBearerToken(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(extractBearerToken(c))
	})

	for header, want := range map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"Basic abc":    "",
		"Bearer":       "",
	} {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set(fiber.HeaderAuthorization, header)
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, want, string(body), header)
	}
}
