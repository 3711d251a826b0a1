package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PosCloud/app/models"
)

// TenantRepository defines the interface for tenant-related database operations
type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	// GetByIDForUpdate loads the tenant and holds a row lock until the
	// surrounding transaction ends, where the driver supports it.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	Save(ctx context.Context, tenant *models.Tenant) error
	List(ctx context.Context) ([]models.Tenant, error)
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// OutletRepository defines the interface for outlet operations
type OutletRepository interface {
	Create(ctx context.Context, outlet *models.Outlet) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Outlet, error)
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// ModuleRepository defines the interface for tenant module toggles
type ModuleRepository interface {
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.TenantModule, error)
	Get(ctx context.Context, tenantID uuid.UUID, module models.ModuleKey) (*models.TenantModule, error)
	Upsert(ctx context.Context, module *models.TenantModule) error
}

// PlanRepository defines the interface for the subscription plan catalog
type PlanRepository interface {
	Create(ctx context.Context, plan *models.SubscriptionPlan) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error)
	ListActive(ctx context.Context) ([]models.SubscriptionPlan, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// SubscriptionRepository defines the interface for tenant subscriptions
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *models.Subscription) error
	CancelAllForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	GetActiveByTenant(ctx context.Context, tenantID uuid.UUID) (*models.Subscription, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Subscription, error)
}

// BillingRepository defines the interface for billing history rows
type BillingRepository interface {
	Create(ctx context.Context, entry *models.BillingHistory) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BillingHistory, error)
	GetByIDForTenant(ctx context.Context, id, tenantID uuid.UUID) (*models.BillingHistory, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.BillingHistory, error)
	Save(ctx context.Context, entry *models.BillingHistory) error
}

// WebhookEventRepository persists provider webhook events for idempotency
type WebhookEventRepository interface {
	CreateIfNotExists(ctx context.Context, event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error)
	MarkProcessed(ctx context.Context, id uint, processingError string) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	db *gorm.DB

	Tenant       TenantRepository
	User         UserRepository
	Outlet       OutletRepository
	Module       ModuleRepository
	Plan         PlanRepository
	Subscription SubscriptionRepository
	Billing      BillingRepository
	WebhookEvent WebhookEventRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:           db,
		Tenant:       NewTenantRepository(db),
		User:         NewUserRepository(db),
		Outlet:       NewOutletRepository(db),
		Module:       NewModuleRepository(db),
		Plan:         NewPlanRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Billing:      NewBillingRepository(db),
		WebhookEvent: NewWebhookEventRepository(db),
	}
}

// Transaction runs fn with repositories bound to a single database
// transaction. Returning an error from fn rolls everything back.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// DB exposes the underlying handle for health checks.
func (r *Repositories) DB() *gorm.DB {
	return r.db
}
