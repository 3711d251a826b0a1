package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PosCloud/internal/pkg/billing"
)

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type createPlanRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Price      string `json:"price" validate:"required,numeric"`
	Currency   string `json:"currency" validate:"omitempty,len=3"`
	Interval   string `json:"interval" validate:"omitempty,max=10"`
	MaxOutlets int    `json:"maxOutlets" validate:"gte=1"`
	MaxUsers   int    `json:"maxUsers" validate:"gte=1"`
	IsActive   *bool  `json:"isActive"`
}

type setPlanActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// HandleAdminListTenants lists every tenant, newest first.
func (h *Controllers) HandleAdminListTenants(c *fiber.Ctx) error {
	tenants, err := h.Tenants.ListTenants(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tenants)
}

// HandleAdminSetTenantStatus applies a guarded status transition.
func (h *Controllers) HandleAdminSetTenantStatus(c *fiber.Ctx) error {
	tenantID, ok, err := uuidParam(c, "tenantId")
	if !ok {
		return err
	}
	var req setStatusRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	t, err := h.Tenants.SetTenantStatus(c.UserContext(), tenantID, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(t)
}

func (h *Controllers) HandleAdminCreatePlan(c *fiber.Ctx) error {
	var req createPlanRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	plan, err := h.Billing.CreatePlan(c.UserContext(), billing.CreatePlanInput{
		Name:       req.Name,
		Price:      req.Price,
		Currency:   req.Currency,
		Interval:   req.Interval,
		MaxOutlets: req.MaxOutlets,
		MaxUsers:   req.MaxUsers,
		IsActive:   req.IsActive,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

func (h *Controllers) HandleAdminSetPlanActive(c *fiber.Ctx) error {
	planID, ok, err := uuidParam(c, "planId")
	if !ok {
		return err
	}
	var req setPlanActiveRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	plan, err := h.Billing.SetPlanActive(c.UserContext(), planID, *req.IsActive)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plan)
}
