package models

import "github.com/shopspring/decimal"

func init() {
	// Storefront clients expect numeric prices, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// RoundMoney rounds an amount to kuruş precision.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
