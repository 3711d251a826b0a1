package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PosCloud/app/models"
	"github.com/ManuelReschke/PosCloud/internal/pkg/security"
	"github.com/ManuelReschke/PosCloud/internal/pkg/usercontext"
)

// RequireAuth verifies the bearer token and stores the identity in Locals.
// Missing, malformed or expired tokens get a JSON 401.
func RequireAuth(tokens *security.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := extractBearerToken(c)
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": "missing bearer token",
			})
		}

		id, err := tokens.Verify(raw)
		if err != nil {
			msg := "invalid or expired token"
			if errors.Is(err, security.ErrUnknownRole) {
				msg = "unknown role"
			}
			log.Debugf("token rejected on %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": msg,
			})
		}

		usercontext.SetIdentity(c, id)
		return c.Next()
	}
}

// RequirePermission rejects callers whose role does not grant p.
func RequirePermission(p models.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := usercontext.GetIdentity(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": "login required",
			})
		}
		if !id.Role.Can(p) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "forbidden",
				"message": "role " + string(id.Role) + " lacks permission " + p.String(),
			})
		}
		return c.Next()
	}
}

// RequireTenant rejects callers without a tenant on tenant-scoped routes.
func RequireTenant(c *fiber.Ctx) error {
	id, ok := usercontext.GetIdentity(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	if !id.HasTenant() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "tenant context required",
		})
	}
	return c.Next()
}
