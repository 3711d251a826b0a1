package controllers

import (
	"github.com/ManuelReschke/PosCloud/internal/pkg/auth"
	"github.com/ManuelReschke/PosCloud/internal/pkg/billing"
	"github.com/ManuelReschke/PosCloud/internal/pkg/tenant"
)

// Controllers bundles the services the HTTP handlers call into.
type Controllers struct {
	Auth    *auth.Service
	Billing *billing.Service
	Tenants *tenant.Service

	StripeWebhookSecret string
}
