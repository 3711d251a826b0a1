package tenant

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PosCloud/app/models"
	"github.com/ManuelReschke/PosCloud/app/repository"
	"github.com/ManuelReschke/PosCloud/internal/pkg/entitlements"
	"github.com/ManuelReschke/PosCloud/internal/pkg/metrics"
)

var (
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrInvalidStatus      = errors.New("status must be one of trial, active, suspended, expired")
	ErrInvalidTransition  = errors.New("tenant status transition not allowed")
	ErrUnknownModule      = errors.New("unknown module")
	ErrOutletLimitReached = errors.New("outlet limit reached for current plan")
	ErrTenantInactive     = errors.New("tenant is not active")
)

// ProfileUpdate holds the writable tenant profile fields. Nil fields are
// left unchanged.
type ProfileUpdate struct {
	BusinessName *string
	Phone        *string
	Address      *string
}

// ModuleState is one module as reported to the tenant.
type ModuleState struct {
	Module    models.ModuleKey `json:"module"`
	IsEnabled bool             `json:"isEnabled"`
	EnabledAt *time.Time       `json:"enabledAt"`
	EnabledBy *uuid.UUID       `json:"enabledBy"`
}

// OutletInput describes a new outlet.
type OutletInput struct {
	Name    string
	Address string
}

// Service handles tenant profile, status, modules and outlets.
type Service struct {
	repos   *repository.Repositories
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(repos *repository.Repositories, m *metrics.Metrics) *Service {
	if m == nil {
		m = metrics.NewNop()
	}
	return &Service{repos: repos, metrics: m, now: time.Now}
}

func (s *Service) GetTenant(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	tenant, err := s.repos.Tenant.GetByID(ctx, tenantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load tenant: %w", err)
	}
	return tenant, nil
}

// UpdateTenant writes profile fields only. Status, plan limits and the
// subscription reference are never touched here.
func (s *Service) UpdateTenant(ctx context.Context, tenantID uuid.UUID, in ProfileUpdate) (*models.Tenant, error) {
	tenant, err := s.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if in.BusinessName != nil {
		tenant.BusinessName = strings.TrimSpace(*in.BusinessName)
	}
	if in.Phone != nil {
		tenant.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		tenant.Address = strings.TrimSpace(*in.Address)
	}
	if err := tenant.Validate(); err != nil {
		return nil, err
	}

	if err := s.repos.Tenant.Save(ctx, tenant); err != nil {
		return nil, fmt.Errorf("save tenant: %w", err)
	}
	return tenant, nil
}

// ListTenants returns every tenant, newest first.
func (s *Service) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	tenants, err := s.repos.Tenant.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	if tenants == nil {
		tenants = []models.Tenant{}
	}
	return tenants, nil
}

// SetTenantStatus moves a tenant to status if the transition is allowed.
func (s *Service) SetTenantStatus(ctx context.Context, tenantID uuid.UUID, status string) (*models.Tenant, error) {
	to := models.TenantStatus(strings.ToLower(strings.TrimSpace(status)))
	if !to.Valid() {
		return nil, ErrInvalidStatus
	}

	var (
		tenant *models.Tenant
		from   models.TenantStatus
	)
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		tenant, err = tx.Tenant.GetByIDForUpdate(ctx, tenantID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTenantNotFound
		}
		if err != nil {
			return fmt.Errorf("lock tenant: %w", err)
		}

		from = tenant.Status
		if !CanTransition(from, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
		}
		if from == to {
			return nil
		}
		tenant.Status = to
		if err := tx.Tenant.Save(ctx, tenant); err != nil {
			return fmt.Errorf("save tenant: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if from != to {
		s.metrics.TenantStatusChanges.WithLabelValues(string(from), string(to)).Inc()
		log.Infof("tenant %s status changed: %s -> %s", tenantID, from, to)
	}
	return tenant, nil
}

// ListModules reports every known module. Modules never toggled are disabled.
func (s *Service) ListModules(ctx context.Context, tenantID uuid.UUID) ([]ModuleState, error) {
	rows, err := s.repos.Module.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}

	byKey := make(map[models.ModuleKey]models.TenantModule, len(rows))
	for _, row := range rows {
		byKey[row.Module] = row
	}

	all := models.AllModules()
	states := make([]ModuleState, 0, len(all))
	for _, key := range all {
		state := ModuleState{Module: key}
		if row, ok := byKey[key]; ok {
			state.IsEnabled = row.IsEnabled
			state.EnabledAt = row.EnabledAt
			state.EnabledBy = row.EnabledBy
		}
		states = append(states, state)
	}
	return states, nil
}

// ToggleModule sets a module on or off. Repeating the call updates the
// same row.
func (s *Service) ToggleModule(ctx context.Context, tenantID, userID uuid.UUID, module string, enabled bool) (*models.TenantModule, error) {
	key, ok := models.ParseModule(module)
	if !ok {
		return nil, ErrUnknownModule
	}

	now := s.now().UTC()
	row := &models.TenantModule{
		TenantID:  tenantID,
		Module:    key,
		IsEnabled: enabled,
		EnabledAt: &now,
	}
	if userID != uuid.Nil {
		row.EnabledBy = &userID
	}
	if err := s.repos.Module.Upsert(ctx, row); err != nil {
		return nil, fmt.Errorf("toggle module: %w", err)
	}

	s.metrics.ModuleToggles.WithLabelValues(string(key), strconv.FormatBool(enabled)).Inc()
	return row, nil
}

func (s *Service) ListOutlets(ctx context.Context, tenantID uuid.UUID) ([]models.Outlet, error) {
	outlets, err := s.repos.Outlet.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list outlets: %w", err)
	}
	if outlets == nil {
		outlets = []models.Outlet{}
	}
	return outlets, nil
}

// CreateOutlet opens a new outlet within the tenant's plan limit. The
// count and insert run under the tenant row lock.
func (s *Service) CreateOutlet(ctx context.Context, tenantID uuid.UUID, in OutletInput) (*models.Outlet, error) {
	outlet := &models.Outlet{
		TenantID: tenantID,
		Name:     strings.TrimSpace(in.Name),
		Address:  strings.TrimSpace(in.Address),
		IsActive: true,
	}
	if err := outlet.Validate(); err != nil {
		return nil, err
	}

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		tenant, err := tx.Tenant.GetByIDForUpdate(ctx, tenantID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTenantNotFound
		}
		if err != nil {
			return fmt.Errorf("lock tenant: %w", err)
		}
		if !entitlements.CanOperate(tenant.Status) {
			return ErrTenantInactive
		}

		count, err := tx.Outlet.CountByTenant(ctx, tenantID)
		if err != nil {
			return fmt.Errorf("count outlets: %w", err)
		}
		if !entitlements.CanAddOutlet(tenant, count) {
			return ErrOutletLimitReached
		}
		if err := tx.Outlet.Create(ctx, outlet); err != nil {
			return fmt.Errorf("create outlet: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outlet, nil
}
