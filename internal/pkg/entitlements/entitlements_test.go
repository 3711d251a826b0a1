package entitlements

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ManuelReschke/PosCloud/app/models"
)

func TestCanOperate(t *testing.T) {
	assert.True(t, CanOperate(models.TenantStatusTrial))
	assert.True(t, CanOperate(models.TenantStatusActive))
	assert.False(t, CanOperate(models.TenantStatusSuspended))
	assert.False(t, CanOperate(models.TenantStatusExpired))
}

func TestCanAddOutlet(t *testing.T) {
	tenant := &models.Tenant{Status: models.TenantStatusActive, MaxOutlets: 2}

	assert.True(t, CanAddOutlet(tenant, 0))
	assert.True(t, CanAddOutlet(tenant, 1))
	assert.False(t, CanAddOutlet(tenant, 2))
	assert.Equal(t, int64(1), RemainingOutlets(tenant, 1))
	assert.Equal(t, int64(0), RemainingOutlets(tenant, 5))

	tenant.Status = models.TenantStatusSuspended
	assert.False(t, CanAddOutlet(tenant, 0))
	assert.False(t, CanAddOutlet(nil, 0))
}
