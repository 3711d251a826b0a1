package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PosCloud/app/models"
	"github.com/ManuelReschke/PosCloud/app/repository"
	"github.com/ManuelReschke/PosCloud/internal/pkg/cache"
	"github.com/ManuelReschke/PosCloud/internal/pkg/metrics"
)

// Service owns the subscription lifecycle and the billing ledger.
type Service struct {
	repos        *repository.Repositories
	cache        *cache.Cache
	metrics      *metrics.Metrics
	planCacheTTL time.Duration
	now          func() time.Time
}

// Options carries the optional collaborators of the service.
type Options struct {
	Cache        *cache.Cache
	Metrics      *metrics.Metrics
	PlanCacheTTL time.Duration
}

// NewService creates a billing service from injected repositories.
func NewService(repos *repository.Repositories, opts Options) *Service {
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewNop()
	}
	if opts.PlanCacheTTL <= 0 {
		opts.PlanCacheTTL = 5 * time.Minute
	}
	return &Service{
		repos:        repos,
		cache:        opts.Cache,
		metrics:      opts.Metrics,
		planCacheTTL: opts.PlanCacheTTL,
		now:          time.Now,
	}
}

// Subscribe enrolls the tenant in planID. Cancelling older subscriptions,
// creating the new one, updating the tenant and appending the pending
// charge happen in one transaction.
func (s *Service) Subscribe(ctx context.Context, tenantID, planID uuid.UUID) (*SubscribeResult, error) {
	plan, err := s.repos.Plan.GetByID(ctx, planID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !plan.IsActive) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}

	now := s.now().UTC()
	var result SubscribeResult
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		tenant, err := tx.Tenant.GetByIDForUpdate(ctx, tenantID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTenantNotFound
		}
		if err != nil {
			return fmt.Errorf("lock tenant: %w", err)
		}

		if _, err := tx.Subscription.CancelAllForTenant(ctx, tenantID); err != nil {
			return fmt.Errorf("cancel subscriptions: %w", err)
		}

		sub := models.NewActiveSubscription(tenantID, plan.ID, now)
		if err := tx.Subscription.Create(ctx, sub); err != nil {
			return fmt.Errorf("create subscription: %w", err)
		}

		tenant.MaxOutlets = plan.MaxOutlets
		tenant.Status = models.TenantStatusActive
		tenant.SubscriptionID = &sub.ID
		if err := tx.Tenant.Save(ctx, tenant); err != nil {
			return fmt.Errorf("update tenant: %w", err)
		}

		charge := models.NewPendingCharge(sub, plan)
		if err := tx.Billing.Create(ctx, charge); err != nil {
			return fmt.Errorf("append billing: %w", err)
		}

		sub.Plan = plan
		result = SubscribeResult{Subscription: sub, Tenant: tenant, Billing: charge}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.SubscriptionsCreated.WithLabelValues(plan.Name).Inc()
	log.Infof("tenant %s subscribed to plan %s (subscription %s)", tenantID, plan.Name, result.Subscription.ID)
	return &result, nil
}

// CurrentSubscription returns the tenant's active subscription with its plan.
func (s *Service) CurrentSubscription(ctx context.Context, tenantID uuid.UUID) (*models.Subscription, error) {
	sub, err := s.repos.Subscription.GetActiveByTenant(ctx, tenantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load subscription: %w", err)
	}
	return sub, nil
}

// ListActivePlans returns the purchasable catalog, served from the cache when possible.
func (s *Service) ListActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	var cached []models.SubscriptionPlan
	hit, err := s.cache.GetJSON(ctx, activePlansCacheKey, &cached)
	if err != nil {
		log.Warnf("plan cache read failed: %v", err)
	} else if hit {
		return cached, nil
	}

	plans, err := s.repos.Plan.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	if plans == nil {
		plans = []models.SubscriptionPlan{}
	}
	if err := s.cache.SetJSON(ctx, activePlansCacheKey, plans, s.planCacheTTL); err != nil {
		log.Warnf("plan cache write failed: %v", err)
	}
	return plans, nil
}

// CreatePlan adds a catalog entry. Plans are active unless stated otherwise.
func (s *Service) CreatePlan(ctx context.Context, in CreatePlanInput) (*models.SubscriptionPlan, error) {
	plan := &models.SubscriptionPlan{
		Name:       strings.TrimSpace(in.Name),
		Price:      strings.TrimSpace(in.Price),
		Currency:   normalizeCurrency(in.Currency),
		Interval:   normalizeInterval(in.Interval),
		MaxOutlets: in.MaxOutlets,
		MaxUsers:   in.MaxUsers,
		IsActive:   in.IsActive == nil || *in.IsActive,
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if err := s.repos.Plan.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	s.invalidatePlans(ctx)
	return plan, nil
}

// SetPlanActive toggles catalog visibility, the only mutation allowed on a
// plan once subscriptions reference it.
func (s *Service) SetPlanActive(ctx context.Context, planID uuid.UUID, active bool) (*models.SubscriptionPlan, error) {
	err := s.repos.Plan.SetActive(ctx, planID, active)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}
	s.invalidatePlans(ctx)

	plan, err := s.repos.Plan.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("reload plan: %w", err)
	}
	return plan, nil
}

func (s *Service) invalidatePlans(ctx context.Context) {
	if err := s.cache.Delete(ctx, activePlansCacheKey); err != nil {
		log.Warnf("plan cache invalidation failed: %v", err)
	}
}

// ListBillingHistory returns the tenant's ledger, newest first.
func (s *Service) ListBillingHistory(ctx context.Context, tenantID uuid.UUID) ([]models.BillingHistory, error) {
	entries, err := s.repos.Billing.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list billing: %w", err)
	}
	if entries == nil {
		entries = []models.BillingHistory{}
	}
	return entries, nil
}

// UpdatePaymentStatus settles a billing row owned by tenantID.
// The owning subscription and tenant are left untouched.
func (s *Service) UpdatePaymentStatus(ctx context.Context, tenantID uuid.UUID, in PaymentUpdate) (*models.BillingHistory, error) {
	status, ok := normalizePaymentStatus(in.Status)
	if !ok {
		return nil, ErrInvalidPaymentStatus
	}

	entry, err := s.repos.Billing.GetByIDForTenant(ctx, in.BillingID, tenantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBillingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load billing: %w", err)
	}
	return s.settle(ctx, entry, status, in.PaymentMethod, SourceAPI)
}

// ApplyProviderPayment settles a billing row on behalf of a payment
// provider. There is no tenant scope; the provider reference is trusted.
func (s *Service) ApplyProviderPayment(ctx context.Context, billingID uuid.UUID, status models.BillingStatus, method, source string) (*models.BillingHistory, error) {
	if _, ok := normalizePaymentStatus(string(status)); !ok {
		return nil, ErrInvalidPaymentStatus
	}
	entry, err := s.repos.Billing.GetByID(ctx, billingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBillingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load billing: %w", err)
	}
	return s.settle(ctx, entry, status, method, source)
}

func (s *Service) settle(ctx context.Context, entry *models.BillingHistory, status models.BillingStatus, method, source string) (*models.BillingHistory, error) {
	entry.Status = status
	if m := normalizePaymentMethod(method); m != "" {
		entry.PaymentMethod = m
	}
	if status == models.BillingStatusPaid {
		paidAt := s.now().UTC()
		entry.PaidAt = &paidAt
	}
	if err := s.repos.Billing.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("save billing: %w", err)
	}

	s.metrics.PaymentUpdates.WithLabelValues(string(status), source).Inc()
	if status == models.BillingStatusFailed {
		log.Warnf("payment failed for billing %s (tenant %s, subscription %s); subscription left unchanged",
			entry.ID, entry.TenantID, entry.SubscriptionID)
	}
	return entry, nil
}

// RecordWebhookEvent persists webhook payloads idempotently.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.BillingWebhookEvent, error) {
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.BillingWebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.repos.WebhookEvent.CreateIfNotExists(ctx, event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repos.WebhookEvent.MarkProcessed(ctx, webhookEventID, errMsg)
}
