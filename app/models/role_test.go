package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{in: "superadmin", want: RoleSuperAdmin, ok: true},
		{in: "OWNER", want: RoleOwner, ok: true},
		{in: " manager ", want: RoleManager, ok: true},
		{in: "cashier", want: RoleCashier, ok: true},
		{in: "admin", ok: false},
		{in: "", ok: false},
	}

	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestRoleCan(t *testing.T) {
	grants := map[Role][]Permission{
		RoleSuperAdmin: {PermAdminister},
		RoleOwner:      {PermViewTenant, PermViewBilling, PermManageBilling, PermManageTenant},
		RoleManager:    {PermViewTenant, PermViewBilling, PermManageTenant},
		RoleCashier:    {PermViewTenant},
	}
	all := []Permission{PermViewTenant, PermViewBilling, PermManageBilling, PermManageTenant, PermAdminister}

	for role, allowed := range grants {
		for _, p := range all {
			assert.Equal(t, contains(allowed, p), role.Can(p), "%s/%s", role, p)
		}
	}

	for _, p := range all {
		assert.False(t, Role("ghost").Can(p))
	}
}

func TestRoleTenantScoped(t *testing.T) {
	assert.False(t, RoleSuperAdmin.TenantScoped())
	assert.True(t, RoleOwner.TenantScoped())
	assert.True(t, RoleManager.TenantScoped())
	assert.True(t, RoleCashier.TenantScoped())
}

func TestParseModule(t *testing.T) {
	for _, m := range AllModules() {
		got, ok := ParseModule(string(m))
		assert.True(t, ok)
		assert.Equal(t, m, got)
	}
	_, ok := ParseModule("payroll")
	assert.False(t, ok)
}

func TestNewUser(t *testing.T) {
	tenantID := uuid.New()
	u, err := NewUser(&tenantID, "Budi", " Budi@Example.com ", "secret123", RoleOwner)
	require.NoError(t, err)

	assert.Equal(t, "budi@example.com", u.Email)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "secret123", u.Password)
	assert.True(t, u.CheckPassword("secret123"))
	assert.False(t, u.CheckPassword("wrong"))

	_, err = NewUser(&tenantID, "Budi", "not-an-email", "secret123", RoleOwner)
	assert.Error(t, err)
}

func TestNewActiveSubscription(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sub := NewActiveSubscription(uuid.New(), uuid.New(), now)

	assert.Equal(t, SubscriptionStatusActive, sub.Status)
	assert.True(t, sub.AutoRenew)
	assert.Equal(t, now.AddDate(0, 0, 30), sub.EndDate)
}

func TestPlanValidate(t *testing.T) {
	p := &SubscriptionPlan{Name: "Pro", Price: "500000", Currency: "IDR", Interval: PlanIntervalMonthly, MaxOutlets: 5, MaxUsers: 10}
	assert.NoError(t, p.Validate())

	p.Price = "lots"
	assert.Error(t, p.Validate())

	p.Price = "500000"
	p.Currency = "idr"
	assert.Error(t, p.Validate())
}

func contains(ps []Permission, p Permission) bool {
	for _, x := range ps {
		if x == p {
			return true
		}
	}
	return false
}
