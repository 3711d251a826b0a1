package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BillingStatus string

const (
	BillingStatusPending BillingStatus = "pending"
	BillingStatusPaid    BillingStatus = "paid"
	BillingStatusFailed  BillingStatus = "failed"
)

// BillingHistory is an append-only ledger row created once per subscribe.
// Only the payment status update mutates it afterwards.
type BillingHistory struct {
	ID             uuid.UUID     `gorm:"type:char(36);primaryKey" json:"id"`
	TenantID       uuid.UUID     `gorm:"type:char(36);not null;index:idx_billing_history_tenant_created,priority:1" json:"tenantId"`
	SubscriptionID uuid.UUID     `gorm:"type:char(36);not null;index" json:"subscriptionId"`
	Amount         string        `gorm:"type:decimal(14,2);not null" json:"amount"`
	Currency       string        `gorm:"type:varchar(3);not null" json:"currency"`
	PaymentMethod  string        `gorm:"type:varchar(50)" json:"paymentMethod"`
	Status         BillingStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	PaidAt         *time.Time    `json:"paidAt"`
	CreatedAt      time.Time     `gorm:"autoCreateTime;index:idx_billing_history_tenant_created,priority:2" json:"createdAt"`
	UpdatedAt      time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (BillingHistory) TableName() string {
	return "billing_history"
}

func (b *BillingHistory) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b *BillingHistory) BeforeSave(tx *gorm.DB) error {
	b.Amount = NormalizeAmount(b.Amount)
	return nil
}

func (b *BillingHistory) AfterFind(tx *gorm.DB) error {
	b.Amount = NormalizeAmount(b.Amount)
	return nil
}

// NewPendingCharge creates the ledger row for a freshly activated subscription.
func NewPendingCharge(sub *Subscription, plan *SubscriptionPlan) *BillingHistory {
	return &BillingHistory{
		TenantID:       sub.TenantID,
		SubscriptionID: sub.ID,
		Amount:         NormalizeAmount(plan.Price),
		Currency:       plan.Currency,
		Status:         BillingStatusPending,
	}
}
