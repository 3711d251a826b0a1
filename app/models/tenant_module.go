package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ModuleKey identifies an optional feature area.
type ModuleKey string

const (
	ModulePOS       ModuleKey = "pos"
	ModuleInventory ModuleKey = "inventory"
	ModuleReports   ModuleKey = "reports"
	ModuleLoyalty   ModuleKey = "loyalty"
)

// AllModules lists the known modules in display order.
func AllModules() []ModuleKey {
	return []ModuleKey{ModulePOS, ModuleInventory, ModuleReports, ModuleLoyalty}
}

func ParseModule(raw string) (ModuleKey, bool) {
	switch m := ModuleKey(strings.ToLower(strings.TrimSpace(raw))); m {
	case ModulePOS, ModuleInventory, ModuleReports, ModuleLoyalty:
		return m, true
	default:
		return "", false
	}
}

// TenantModule is the (tenant, module) join row. The pair is unique.
type TenantModule struct {
	ID        uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	TenantID  uuid.UUID  `gorm:"type:char(36);not null;uniqueIndex:ux_tenant_modules_tenant_module,priority:1" json:"tenantId"`
	Module    ModuleKey  `gorm:"type:varchar(30);not null;uniqueIndex:ux_tenant_modules_tenant_module,priority:2" json:"module"`
	IsEnabled bool       `gorm:"not null" json:"isEnabled"`
	EnabledAt *time.Time `json:"enabledAt"`
	EnabledBy *uuid.UUID `gorm:"type:char(36)" json:"enabledBy"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (m *TenantModule) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
