package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SiteSettingsID is the primary key of the singleton settings row.
const SiteSettingsID = "site"

// SiteSettings is the storefront-wide configuration document.
type SiteSettings struct {
	ID          string       `json:"-" gorm:"primaryKey;type:varchar(16)"`
	Contact     Contact      `json:"contact" gorm:"type:text;serializer:json"`
	SocialMedia SocialMedia  `json:"socialMedia" gorm:"type:text;serializer:json"`
	SEO         SEO          `json:"seo" gorm:"type:text;serializer:json"`
	Theme       Theme        `json:"theme" gorm:"type:text;serializer:json"`
	Business    BusinessRule `json:"business" gorm:"type:text;serializer:json"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type Contact struct {
	Phone    string `json:"phone"`
	WhatsApp string `json:"whatsapp"`
	Email    string `json:"email" validate:"omitempty,email"`
	Address  string `json:"address"`
}

type SocialMedia struct {
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

type SEO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

type Theme struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
}

// BusinessRule groups the settings that change checkout behaviour.
type BusinessRule struct {
	DefaultShippingCost decimal.Decimal    `json:"defaultShippingCost" validate:"gte=0"`
	MinOrderAmount      decimal.Decimal    `json:"minOrderAmount" validate:"gte=0"`
	BankTransfer        BankTransferInfo   `json:"bankTransfer"`
	BlockedOrderDates   []BlockedDateRange `json:"blockedOrderDates" validate:"omitempty,dive"`
	OrderWhatsApp       string             `json:"orderWhatsApp"`
}

type BankTransferInfo struct {
	BankName      string `json:"bankName"`
	AccountHolder string `json:"accountHolder"`
	IBAN          string `json:"iban"`
	Branch        string `json:"branch,omitempty"`
}

// BlockedDateRange is an inclusive YYYY-MM-DD range during which same-day
// orders are refused.
type BlockedDateRange struct {
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Message   string `json:"message,omitempty"`
}

// DefaultSiteSettings is served until an admin saves the first settings form.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		ID: SiteSettingsID,
		SEO: SEO{
			Title:       "Çelenk Siparişi",
			Description: "Aynı gün çelenk teslimatı",
		},
		Theme: Theme{PrimaryColor: "#1f4d3a", SecondaryColor: "#c9a227"},
		Business: BusinessRule{
			DefaultShippingCost: decimal.Zero,
			MinOrderAmount:      decimal.Zero,
			BlockedOrderDates:   []BlockedDateRange{},
		},
	}
}
