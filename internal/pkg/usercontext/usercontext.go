package usercontext

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ManuelReschke/PosCloud/internal/pkg/security"
)

// KeyIdentity is the Locals key holding the verified *security.Identity.
const KeyIdentity = "identity"

// SetIdentity stores the verified caller for the rest of the request.
func SetIdentity(c *fiber.Ctx, id *security.Identity) {
	c.Locals(KeyIdentity, id)
}

// GetIdentity returns the caller, or false on unauthenticated requests.
func GetIdentity(c *fiber.Ctx) (*security.Identity, bool) {
	id, ok := c.Locals(KeyIdentity).(*security.Identity)
	return id, ok && id != nil
}

// GetUserID returns the caller's user ID, or uuid.Nil if not logged in
func GetUserID(c *fiber.Ctx) uuid.UUID {
	if id, ok := GetIdentity(c); ok {
		return id.UserID
	}
	return uuid.Nil
}

// GetTenantID returns the caller's tenant, or uuid.Nil for superadmins and
// anonymous requests
func GetTenantID(c *fiber.Ctx) uuid.UUID {
	if id, ok := GetIdentity(c); ok {
		return id.TenantID
	}
	return uuid.Nil
}
