package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ManuelReschke/PosCloud/app/models"
)

type moduleRepository struct {
	db *gorm.DB
}

// NewModuleRepository creates a new tenant module repository instance
func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.TenantModule, error) {
	var modules []models.TenantModule
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Find(&modules).Error
	return modules, err
}

func (r *moduleRepository) Get(ctx context.Context, tenantID uuid.UUID, module models.ModuleKey) (*models.TenantModule, error) {
	var m models.TenantModule
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND module = ?", tenantID, module).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Upsert inserts the (tenant, module) row or updates its toggle fields.
// The stored row is loaded back into module.
func (r *moduleRepository) Upsert(ctx context.Context, module *models.TenantModule) error {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "tenant_id"},
			{Name: "module"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"is_enabled",
			"enabled_at",
			"enabled_by",
			"updated_at",
		}),
	}).Create(module).Error; err != nil {
		return err
	}

	// On conflict the generated ID was discarded, so reload by the natural key.
	stored, err := r.Get(ctx, module.TenantID, module.Module)
	if err != nil {
		return err
	}
	*module = *stored
	return nil
}
