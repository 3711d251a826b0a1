package models

import (
	"github.com/shopspring/decimal"
)

// moneyScale matches the decimal(14,2) money columns.
const moneyScale = 2

// NormalizeAmount renders a decimal amount with exactly two fraction digits
// so "500000", "500000.0" and "500000.00" read the same on every driver.
// Input that is not a decimal is returned unchanged for validation to reject.
func NormalizeAmount(amount string) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return amount
	}
	return d.StringFixed(moneyScale)
}
