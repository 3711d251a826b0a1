package billing_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/ManuelReschke/PosCloud/app/models"
	"github.com/ManuelReschke/PosCloud/internal/pkg/billing"
	"github.com/ManuelReschke/PosCloud/internal/pkg/testutil"
)

const whsec = "whsec_test_secret"

func stripeEvent(t *testing.T, id, eventType string, metadata map[string]string) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"id":          id,
		"object":      "event",
		"type":        eventType,
		"api_version": "2020-08-27",
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":       "pi_" + id,
				"object":   "payment_intent",
				"metadata": metadata,
			},
		},
	})
	require.NoError(t, err)
	return payload
}

func sign(payload []byte, secret string) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: secret}).Header
}

func TestHandleStripeWebhook_PaymentSucceeded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := testutil.CreatePlan(t, f.repos, "Pro", "500000", 5)
	res, err := f.svc.Subscribe(ctx, f.tenant.ID, plan.ID)
	require.NoError(t, err)

	payload := stripeEvent(t, "evt_paid", "payment_intent.succeeded", map[string]string{
		billing.BillingIDMetadataKey: res.Billing.ID.String(),
	})

	outcome, err := f.svc.HandleStripeWebhook(ctx, payload, sign(payload, whsec), whsec)
	require.NoError(t, err)
	assert.True(t, outcome.Applied)
	assert.False(t, outcome.Duplicate)

	entry, err := f.repos.Billing.GetByID(ctx, res.Billing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillingStatusPaid, entry.Status)
	assert.Equal(t, "stripe", entry.PaymentMethod)
	assert.NotNil(t, entry.PaidAt)

	// Redelivery is acknowledged without reprocessing.
	outcome, err = f.svc.HandleStripeWebhook(ctx, payload, sign(payload, whsec), whsec)
	require.NoError(t, err)
	assert.True(t, outcome.Duplicate)
	assert.False(t, outcome.Applied)
}

func TestHandleStripeWebhook_PaymentFailed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := testutil.CreatePlan(t, f.repos, "Pro", "500000", 5)
	res, err := f.svc.Subscribe(ctx, f.tenant.ID, plan.ID)
	require.NoError(t, err)

	payload := stripeEvent(t, "evt_failed", "payment_intent.payment_failed", map[string]string{
		billing.BillingIDMetadataKey: res.Billing.ID.String(),
	})
	outcome, err := f.svc.HandleStripeWebhook(ctx, payload, sign(payload, whsec), whsec)
	require.NoError(t, err)
	assert.True(t, outcome.Applied)

	entry, err := f.repos.Billing.GetByID(ctx, res.Billing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillingStatusFailed, entry.Status)
	assert.Nil(t, entry.PaidAt)
}

func TestHandleStripeWebhook_BadSignature(t *testing.T) {
	f := newFixture(t)
	payload := stripeEvent(t, "evt_x", "payment_intent.succeeded", nil)

	_, err := f.svc.HandleStripeWebhook(context.Background(), payload, sign(payload, "whsec_other"), whsec)
	assert.ErrorIs(t, err, billing.ErrInvalidSignature)

	_, err = f.svc.HandleStripeWebhook(context.Background(), payload, sign(payload, whsec), "")
	assert.ErrorIs(t, err, billing.ErrInvalidSignature)
}

func TestHandleStripeWebhook_IgnoredAndUnresolvable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	payload := stripeEvent(t, "evt_other", "customer.created", nil)
	outcome, err := f.svc.HandleStripeWebhook(ctx, payload, sign(payload, whsec), whsec)
	require.NoError(t, err)
	assert.True(t, outcome.Ignored)

	payload = stripeEvent(t, "evt_nometa", "payment_intent.succeeded", map[string]string{})
	outcome, err = f.svc.HandleStripeWebhook(ctx, payload, sign(payload, whsec), whsec)
	require.NoError(t, err)
	assert.False(t, outcome.Applied)

	payload = stripeEvent(t, "evt_unknown", "payment_intent.succeeded", map[string]string{
		billing.BillingIDMetadataKey: uuid.NewString(),
	})
	outcome, err = f.svc.HandleStripeWebhook(ctx, payload, sign(payload, whsec), whsec)
	require.NoError(t, err)
	assert.False(t, outcome.Applied)

	// Recorded with the processing error so it is not retried as new.
	created, stored, err := f.svc.RecordWebhookEvent(ctx, billing.WebhookEventInput{
		Provider: billing.ProviderStripe, ProviderEventID: "evt_unknown", PayloadJSON: string(payload),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.NotNil(t, stored.ProcessedAt)
	assert.Contains(t, stored.ProcessingError, "not found")
}
