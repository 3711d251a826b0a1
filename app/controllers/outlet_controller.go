package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PosCloud/internal/pkg/tenant"
	"github.com/ManuelReschke/PosCloud/internal/pkg/usercontext"
)

type createOutletRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=150"`
	Address string `json:"address" validate:"max=500"`
}

func (h *Controllers) HandleListOutlets(c *fiber.Ctx) error {
	outlets, err := h.Tenants.ListOutlets(c.UserContext(), usercontext.GetTenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(outlets)
}

// HandleCreateOutlet opens an outlet if the tenant's plan has room for it.
func (h *Controllers) HandleCreateOutlet(c *fiber.Ctx) error {
	var req createOutletRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	outlet, err := h.Tenants.CreateOutlet(c.UserContext(), usercontext.GetTenantID(c), tenant.OutletInput{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(outlet)
}
