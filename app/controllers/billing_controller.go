package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PosCloud/internal/pkg/billing"
)

// HandleStripeWebhook receives Stripe deliveries. Everything past signature
// verification is acknowledged with 200 so Stripe stops retrying.
func (h *Controllers) HandleStripeWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := c.Get("Stripe-Signature")

	outcome, err := h.Billing.HandleStripeWebhook(c.UserContext(), rawBody, signature, h.StripeWebhookSecret)
	if err != nil {
		if errors.Is(err, billing.ErrInvalidSignature) {
			log.Warnf("stripe webhook rejected from %s: %v", ClientIP(c), err)
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"ok":        true,
		"eventId":   outcome.EventID,
		"duplicate": outcome.Duplicate,
		"applied":   outcome.Applied,
		"ignored":   outcome.Ignored,
	})
}
