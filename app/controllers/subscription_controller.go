package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PosCloud/internal/pkg/billing"
	"github.com/ManuelReschke/PosCloud/internal/pkg/usercontext"
)

type subscribeRequest struct {
	PlanID string `json:"planId" validate:"required,uuid"`
}

type updatePaymentRequest struct {
	BillingID     string `json:"billingId" validate:"required,uuid"`
	Status        string `json:"status" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"max=50"`
}

// HandleCurrentSubscription returns the tenant's active subscription and its plan.
func (h *Controllers) HandleCurrentSubscription(c *fiber.Ctx) error {
	sub, err := h.Billing.CurrentSubscription(c.UserContext(), usercontext.GetTenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"subscription": sub,
		"plan":         sub.Plan,
	})
}

func (h *Controllers) HandleListPlans(c *fiber.Ctx) error {
	plans, err := h.Billing.ListActivePlans(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plans)
}

// HandleSubscribe moves the tenant onto a new plan.
func (h *Controllers) HandleSubscribe(c *fiber.Ctx) error {
	var req subscribeRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	planID, ok, err := uuidField(c, "planId", req.PlanID)
	if !ok {
		return err
	}

	result, err := h.Billing.Subscribe(c.UserContext(), usercontext.GetTenantID(c), planID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *Controllers) HandleListBilling(c *fiber.Ctx) error {
	entries, err := h.Billing.ListBillingHistory(c.UserContext(), usercontext.GetTenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

// HandleUpdatePayment settles one of the tenant's billing rows.
func (h *Controllers) HandleUpdatePayment(c *fiber.Ctx) error {
	var req updatePaymentRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	billingID, ok, err := uuidField(c, "billingId", req.BillingID)
	if !ok {
		return err
	}

	entry, err := h.Billing.UpdatePaymentStatus(c.UserContext(), usercontext.GetTenantID(c), billing.PaymentUpdate{
		BillingID:     billingID,
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}
