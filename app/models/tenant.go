package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TenantStatus string

const (
	TenantStatusTrial     TenantStatus = "trial"
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusExpired   TenantStatus = "expired"
)

func (s TenantStatus) Valid() bool {
	switch s {
	case TenantStatusTrial, TenantStatusActive, TenantStatusSuspended, TenantStatusExpired:
		return true
	default:
		return false
	}
}

// Tenant is a customer business account. Tenants are never hard-deleted.
type Tenant struct {
	ID             uuid.UUID    `gorm:"type:char(36);primaryKey" json:"id"`
	BusinessName   string       `gorm:"type:varchar(200);not null" json:"businessName" validate:"required,min=2,max=200"`
	Phone          string       `gorm:"type:varchar(50)" json:"phone" validate:"max=50"`
	Address        string       `gorm:"type:text" json:"address" validate:"max=500"`
	Status         TenantStatus `gorm:"type:varchar(20);not null;index" json:"status" validate:"required,oneof=trial active suspended expired"`
	SubscriptionID *uuid.UUID   `gorm:"type:char(36)" json:"subscriptionId"`
	MaxOutlets     int          `gorm:"not null" json:"maxOutlets" validate:"gte=0"`
	TrialEndsAt    *time.Time   `json:"trialEndsAt"`
	CreatedAt      time.Time    `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TenantStatusTrial
	}
	return nil
}

func (t *Tenant) Validate() error {
	v := validator.New()

	return v.Struct(t)
}

// NewTrialTenant builds a tenant in trial that ends trialDays from now.
func NewTrialTenant(businessName string, trialDays int) *Tenant {
	ends := time.Now().UTC().AddDate(0, 0, trialDays)
	return &Tenant{
		BusinessName: businessName,
		Status:       TenantStatusTrial,
		MaxOutlets:   1,
		TrialEndsAt:  &ends,
	}
}
