package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PosCloud/app/models"
)

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	return r.db.WithContext(ctx).Omit("Plan").Create(sub).Error
}

// CancelAllForTenant marks every still-active subscription of the tenant cancelled.
func (r *subscriptionRepository) CancelAllForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("tenant_id = ? AND status = ?", tenantID, models.SubscriptionStatusActive).
		Update("status", models.SubscriptionStatusCancelled)
	return res.RowsAffected, res.Error
}

// GetActiveByTenant returns the active subscription with its plan preloaded
func (r *subscriptionRepository) GetActiveByTenant(ctx context.Context, tenantID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("tenant_id = ? AND status = ?", tenantID, models.SubscriptionStatusActive).
		Order("start_date DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("start_date DESC").Find(&subs).Error
	return subs, err
}
