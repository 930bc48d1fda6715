package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingEntry overrides the delivery fee for a city, or for one district
// of a city when District is set.
type PricingEntry struct {
	ID           string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	City         string           `json:"city" gorm:"type:varchar(100);not null" validate:"required"`
	District     string           `json:"district,omitempty" gorm:"type:varchar(100)"`
	CityKey      string           `json:"-" gorm:"type:varchar(100);uniqueIndex:idx_pricing_location"`
	DistrictKey  string           `json:"-" gorm:"type:varchar(100);uniqueIndex:idx_pricing_location"`
	BasePrice    decimal.Decimal  `json:"basePrice" gorm:"type:decimal(12,2)" validate:"gte=0"`
	ExpressPrice *decimal.Decimal `json:"expressPrice,omitempty" gorm:"type:decimal(12,2)"`
	IsActive     bool             `json:"isActive"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// IsDistrictScoped reports whether the entry applies to a single district.
func (p PricingEntry) IsDistrictScoped() bool {
	return p.District != ""
}

// ShippingSource names the rule a shipping quote was resolved from.
type ShippingSource string

const (
	ShippingFromDistrict ShippingSource = "district"
	ShippingFromCity     ShippingSource = "city"
	ShippingFromDefault  ShippingSource = "default"
	ShippingFromNone     ShippingSource = "none"
)

// ShippingQuote is the resolved delivery fee for a location.
type ShippingQuote struct {
	Amount  decimal.Decimal `json:"amount"`
	Source  ShippingSource  `json:"source"`
	EntryID string          `json:"entryId,omitempty"`
}
