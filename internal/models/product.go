package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a wreath or arrangement listed in the catalog.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string          `json:"name" gorm:"type:varchar(200);not null" validate:"required,min=2,max=200"`
	Slug        string          `json:"slug" gorm:"type:varchar(220);index"`
	Description string          `json:"description" gorm:"type:text" validate:"omitempty,max=5000"`
	Features    string          `json:"features" gorm:"type:text" validate:"omitempty,max=5000"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null" validate:"gt=0"`
	Category    []string        `json:"category" gorm:"type:text;serializer:json"`
	InStock     bool            `json:"inStock"`
	Images      []string        `json:"images" gorm:"type:text;serializer:json" validate:"omitempty,dive,required"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// HasCategory reports whether the product is labelled with category.
func (p Product) HasCategory(category string) bool {
	for _, c := range p.Category {
		if c == category {
			return true
		}
	}
	return false
}
