package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/ManuelReschke/PosCloud/app/models"
)

// BillingIDMetadataKey is the PaymentIntent metadata key that carries the
// billing row being paid.
const BillingIDMetadataKey = "billing_id"

// HandleStripeWebhook verifies a Stripe delivery, records it once and
// applies payment intent outcomes to the referenced billing row.
func (s *Service) HandleStripeWebhook(ctx context.Context, payload []byte, signature, secret string) (*WebhookOutcome, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: webhook secret not configured", ErrInvalidSignature)
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	outcome := &WebhookOutcome{EventID: event.ID, EventType: string(event.Type)}
	created, stored, err := s.RecordWebhookEvent(ctx, WebhookEventInput{
		Provider:        ProviderStripe,
		ProviderEventID: event.ID,
		EventType:       string(event.Type),
		PayloadJSON:     string(payload),
		SignatureValid:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("record webhook: %w", err)
	}
	if !created && stored.ProcessedAt != nil {
		outcome.Duplicate = true
		return outcome, nil
	}

	var status models.BillingStatus
	switch event.Type {
	case "payment_intent.succeeded":
		status = models.BillingStatusPaid
	case "payment_intent.payment_failed":
		status = models.BillingStatusFailed
	default:
		outcome.Ignored = true
		return outcome, s.MarkWebhookProcessed(ctx, stored.ID, nil)
	}

	procErr := s.applyPaymentIntent(ctx, event.Data.Raw, status)
	if procErr != nil {
		log.Warnf("stripe event %s not applied: %v", event.ID, procErr)
	} else {
		outcome.Applied = true
	}
	if err := s.MarkWebhookProcessed(ctx, stored.ID, procErr); err != nil {
		return nil, err
	}
	return outcome, nil
}

func (s *Service) applyPaymentIntent(ctx context.Context, raw json.RawMessage, status models.BillingStatus) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return fmt.Errorf("parse payment intent: %w", err)
	}
	ref, ok := intent.Metadata[BillingIDMetadataKey]
	if !ok || ref == "" {
		return errors.New("payment intent has no billing_id metadata")
	}
	billingID, err := uuid.Parse(ref)
	if err != nil {
		return fmt.Errorf("invalid billing_id %q: %w", ref, err)
	}

	_, err = s.ApplyProviderPayment(ctx, billingID, status, ProviderStripe, SourceStripe)
	return err
}
