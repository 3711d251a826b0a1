package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ManuelReschke/PosCloud/app/models"
)

type billingRepository struct {
	db *gorm.DB
}

// NewBillingRepository creates a new billing history repository instance
func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) Create(ctx context.Context, entry *models.BillingHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *billingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BillingHistory, error) {
	var entry models.BillingHistory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *billingRepository) GetByIDForTenant(ctx context.Context, id, tenantID uuid.UUID) (*models.BillingHistory, error) {
	var entry models.BillingHistory
	err := r.db.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByTenant returns the tenant's ledger, newest first
func (r *billingRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.BillingHistory, error) {
	var entries []models.BillingHistory
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&entries).Error
	return entries, err
}

func (r *billingRepository) Save(ctx context.Context, entry *models.BillingHistory) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

type webhookEventRepository struct {
	db *gorm.DB
}

// NewWebhookEventRepository creates a new webhook event repository instance
func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepository{db: db}
}

func (r *webhookEventRepository) CreateIfNotExists(ctx context.Context, event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	db := r.db.WithContext(ctx)
	tx := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.BillingWebhookEvent
	if err := db.Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *webhookEventRepository) MarkProcessed(ctx context.Context, id uint, processingError string) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.WithContext(ctx).Model(&models.BillingWebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}
