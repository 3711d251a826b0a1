package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PosCloud/app/models"
)

type outletRepository struct {
	db *gorm.DB
}

// NewOutletRepository creates a new outlet repository instance
func NewOutletRepository(db *gorm.DB) OutletRepository {
	return &outletRepository{db: db}
}

func (r *outletRepository) Create(ctx context.Context, outlet *models.Outlet) error {
	return r.db.WithContext(ctx).Create(outlet).Error
}

func (r *outletRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Outlet, error) {
	var outlets []models.Outlet
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("created_at ASC").Find(&outlets).Error
	return outlets, err
}

func (r *outletRepository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Outlet{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	return count, err
}
