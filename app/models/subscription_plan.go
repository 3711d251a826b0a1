package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PlanIntervalMonthly = "monthly"
	PlanIntervalYearly  = "yearly"

	DefaultCurrency = "IDR"
)

// SubscriptionPlan is a catalog entry. Once a subscription references it,
// only IsActive may change.
type SubscriptionPlan struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Price      string    `gorm:"type:decimal(14,2);not null" json:"price" validate:"required,numeric"`
	Currency   string    `gorm:"type:varchar(3);not null" json:"currency" validate:"required,len=3,uppercase"`
	Interval   string    `gorm:"type:varchar(10);not null" json:"interval" validate:"required,oneof=monthly yearly"`
	MaxOutlets int       `gorm:"not null" json:"maxOutlets" validate:"gte=1"`
	MaxUsers   int       `gorm:"not null" json:"maxUsers" validate:"gte=1"`
	IsActive   bool      `gorm:"not null;index" json:"isActive"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (p *SubscriptionPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *SubscriptionPlan) BeforeSave(tx *gorm.DB) error {
	p.Price = NormalizeAmount(p.Price)
	return nil
}

func (p *SubscriptionPlan) AfterFind(tx *gorm.DB) error {
	p.Price = NormalizeAmount(p.Price)
	return nil
}

func (p *SubscriptionPlan) Validate() error {
	v := validator.New()

	return v.Struct(p)
}
