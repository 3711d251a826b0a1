package billing

import (
	"strings"

	"github.com/ManuelReschke/PosCloud/app/models"
)

const activePlansCacheKey = "plans:active"

func normalizePaymentStatus(status string) (models.BillingStatus, bool) {
	switch models.BillingStatus(strings.ToLower(strings.TrimSpace(status))) {
	case models.BillingStatusPaid:
		return models.BillingStatusPaid, true
	case models.BillingStatusFailed:
		return models.BillingStatusFailed, true
	default:
		return "", false
	}
}

func normalizeCurrency(currency string) string {
	c := strings.ToUpper(strings.TrimSpace(currency))
	if c == "" {
		return models.DefaultCurrency
	}
	return c
}

func normalizeInterval(interval string) string {
	i := strings.ToLower(strings.TrimSpace(interval))
	switch i {
	case "month", models.PlanIntervalMonthly:
		return models.PlanIntervalMonthly
	case "year", "annual", models.PlanIntervalYearly:
		return models.PlanIntervalYearly
	default:
		return i
	}
}

func normalizePaymentMethod(method string) string {
	return strings.ToLower(strings.TrimSpace(method))
}
