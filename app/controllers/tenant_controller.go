package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PosCloud/internal/pkg/tenant"
	"github.com/ManuelReschke/PosCloud/internal/pkg/usercontext"
)

type updateTenantRequest struct {
	BusinessName *string `json:"businessName" validate:"omitempty,min=2,max=200"`
	Phone        *string `json:"phone" validate:"omitempty,max=50"`
	Address      *string `json:"address" validate:"omitempty,max=500"`
}

type toggleModuleRequest struct {
	Module    string `json:"module" validate:"required"`
	IsEnabled *bool  `json:"isEnabled" validate:"required"`
}

func (h *Controllers) HandleGetTenant(c *fiber.Ctx) error {
	t, err := h.Tenants.GetTenant(c.UserContext(), usercontext.GetTenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(t)
}

// HandleUpdateTenant updates the caller's business profile.
func (h *Controllers) HandleUpdateTenant(c *fiber.Ctx) error {
	var req updateTenantRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	t, err := h.Tenants.UpdateTenant(c.UserContext(), usercontext.GetTenantID(c), tenant.ProfileUpdate{
		BusinessName: req.BusinessName,
		Phone:        req.Phone,
		Address:      req.Address,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(t)
}

func (h *Controllers) HandleListModules(c *fiber.Ctx) error {
	modules, err := h.Tenants.ListModules(c.UserContext(), usercontext.GetTenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(modules)
}

func (h *Controllers) HandleToggleModule(c *fiber.Ctx) error {
	var req toggleModuleRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	module, err := h.Tenants.ToggleModule(c.UserContext(), usercontext.GetTenantID(c), usercontext.GetUserID(c), req.Module, *req.IsEnabled)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(module)
}
