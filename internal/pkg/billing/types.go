package billing

import (
	"errors"

	"github.com/google/uuid"

	"github.com/ManuelReschke/PosCloud/app/models"
)

var (
	ErrPlanNotFound         = errors.New("plan not found")
	ErrTenantNotFound       = errors.New("tenant not found")
	ErrSubscriptionNotFound = errors.New("no active subscription")
	ErrBillingNotFound      = errors.New("billing record not found")
	ErrInvalidPaymentStatus = errors.New("payment status must be paid or failed")
	ErrInvalidSignature     = errors.New("webhook signature verification failed")
)

const (
	ProviderStripe = "stripe"

	SourceAPI    = "api"
	SourceStripe = "stripe"
)

// SubscribeResult is everything written by one subscribe transaction.
type SubscribeResult struct {
	Subscription *models.Subscription   `json:"subscription"`
	Tenant       *models.Tenant         `json:"tenant"`
	Billing      *models.BillingHistory `json:"billing"`
}

// PaymentUpdate is a request to settle a billing row.
type PaymentUpdate struct {
	BillingID     uuid.UUID
	Status        string
	PaymentMethod string
}

// CreatePlanInput describes a new catalog entry.
type CreatePlanInput struct {
	Name       string
	Price      string
	Currency   string
	Interval   string
	MaxOutlets int
	MaxUsers   int
	IsActive   *bool
}

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	Provider        string
	ProviderEventID string
	EventType       string
	PayloadJSON     string
	SignatureValid  bool
}

// WebhookOutcome reports what happened to a delivered webhook.
type WebhookOutcome struct {
	EventID   string
	EventType string
	Duplicate bool
	Applied   bool
	Ignored   bool
}
