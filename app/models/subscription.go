package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// SubscriptionPeriod is the length of one billing window.
const SubscriptionPeriod = 30 * 24 * time.Hour

// Subscription enrolls a tenant in a plan. At most one row per tenant is active.
type Subscription struct {
	ID        uuid.UUID          `gorm:"type:char(36);primaryKey" json:"id"`
	TenantID  uuid.UUID          `gorm:"type:char(36);not null;index:idx_subscriptions_tenant_status,priority:1" json:"tenantId"`
	PlanID    uuid.UUID          `gorm:"type:char(36);not null;index" json:"planId"`
	Status    SubscriptionStatus `gorm:"type:varchar(20);not null;index:idx_subscriptions_tenant_status,priority:2" json:"status"`
	StartDate time.Time          `gorm:"not null" json:"startDate"`
	EndDate   time.Time          `gorm:"not null" json:"endDate"`
	AutoRenew bool               `gorm:"not null" json:"autoRenew"`
	CreatedAt time.Time          `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time          `gorm:"autoUpdateTime" json:"updatedAt"`

	Plan *SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// NewActiveSubscription starts a subscription window at now.
func NewActiveSubscription(tenantID, planID uuid.UUID, now time.Time) *Subscription {
	return &Subscription{
		TenantID:  tenantID,
		PlanID:    planID,
		Status:    SubscriptionStatusActive,
		StartDate: now,
		EndDate:   now.Add(SubscriptionPeriod),
		AutoRenew: true,
	}
}
