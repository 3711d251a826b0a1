package entitlements

import (
	"github.com/ManuelReschke/PosCloud/app/models"
)

// CanOperate reports whether a tenant in this status may use the POS.
func CanOperate(status models.TenantStatus) bool {
	switch status {
	case models.TenantStatusTrial, models.TenantStatusActive:
		return true
	default:
		return false
	}
}

// CanAddOutlet reports whether the tenant has room for one more outlet.
func CanAddOutlet(tenant *models.Tenant, currentOutlets int64) bool {
	if tenant == nil || !CanOperate(tenant.Status) {
		return false
	}
	return RemainingOutlets(tenant, currentOutlets) > 0
}

// RemainingOutlets returns how many more outlets the tenant may open.
func RemainingOutlets(tenant *models.Tenant, currentOutlets int64) int64 {
	if tenant == nil {
		return 0
	}
	left := int64(tenant.MaxOutlets) - currentOutlets
	if left < 0 {
		return 0
	}
	return left
}
