package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ManuelReschke/PosCloud/app/models"
	"github.com/ManuelReschke/PosCloud/app/repository"
	"github.com/ManuelReschke/PosCloud/internal/pkg/config"
	"github.com/ManuelReschke/PosCloud/internal/pkg/database"
)

const TestJWTSecret = "test-jwt-secret"

// NewConfig returns a dev config bound to an in-memory sqlite database.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(map[string]string{
		"APP_ENV":       "dev",
		"DB_DRIVER":     "sqlite",
		"DB_NAME":       "file::memory:",
		"JWT_SECRET":    TestJWTSecret,
		"CACHE_ENABLED": "false",
	})
	require.NoError(t, err)
	return cfg
}

// NewDB opens a fresh, migrated in-memory sqlite database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DriverSQLite, "file::memory:", &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewRepositories wires repositories over a fresh test database.
func NewRepositories(t testing.TB) *repository.Repositories {
	t.Helper()
	return repository.NewRepositories(NewDB(t))
}

// CreateTenant persists a tenant with the given status.
func CreateTenant(t testing.TB, repos *repository.Repositories, name string, status models.TenantStatus) *models.Tenant {
	t.Helper()
	tenant := models.NewTrialTenant(name, 14)
	tenant.Status = status
	require.NoError(t, repos.Tenant.Create(context.Background(), tenant))
	return tenant
}

// CreatePlan persists an active monthly plan priced in IDR.
func CreatePlan(t testing.TB, repos *repository.Repositories, name, price string, maxOutlets int) *models.SubscriptionPlan {
	t.Helper()
	plan := &models.SubscriptionPlan{
		Name:       name,
		Price:      price,
		Currency:   models.DefaultCurrency,
		Interval:   models.PlanIntervalMonthly,
		MaxOutlets: maxOutlets,
		MaxUsers:   maxOutlets * 3,
		IsActive:   true,
	}
	require.NoError(t, repos.Plan.Create(context.Background(), plan))
	return plan
}

// CreateUser persists an active user with password "secret123".
func CreateUser(t testing.TB, repos *repository.Repositories, tenantID *uuid.UUID, role models.Role) *models.User {
	t.Helper()
	email := fmt.Sprintf("%s-%s@example.com", role, uuid.NewString()[:8])
	u, err := models.NewUser(tenantID, "Test "+string(role), email, "secret123", role)
	require.NoError(t, err)
	require.NoError(t, repos.User.Create(context.Background(), u))
	return u
}
