package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentStatus string
type PaymentMethod string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusPreparing  OrderStatus = "preparing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"

	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodWhatsApp     PaymentMethod = "whatsapp"
)

// Valid reports whether s is part of the known status vocabulary.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing, OrderStatusPreparing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodBankTransfer, PaymentMethodWhatsApp:
		return true
	}
	return false
}

// Sender is the person placing and paying for the order.
type Sender struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

// Recipient is the person (or venue) receiving the wreath.
type Recipient struct {
	Name             string `json:"name" validate:"required"`
	Phone            string `json:"phone" validate:"required"`
	City             string `json:"city" validate:"required"`
	District         string `json:"district" validate:"required"`
	Address          string `json:"address" validate:"required"`
	DeliveryDate     string `json:"deliveryDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DeliveryTime     string `json:"deliveryTime,omitempty"`
	DeliveryLocation string `json:"deliveryLocation,omitempty"`
	WreathText       string `json:"wreathText,omitempty" validate:"omitempty,max=500"`
}

const (
	InvoiceIndividual = "individual"
	InvoiceCorporate  = "corporate"
)

// Invoice holds optional billing details.
type Invoice struct {
	Type           string `json:"type" validate:"required,oneof=individual corporate"`
	FullName       string `json:"fullName,omitempty"`
	IdentityNumber string `json:"identityNumber,omitempty"`
	CompanyName    string `json:"companyName,omitempty" validate:"required_if=Type corporate"`
	TaxOffice      string `json:"taxOffice,omitempty" validate:"required_if=Type corporate"`
	TaxNumber      string `json:"taxNumber,omitempty" validate:"required_if=Type corporate"`
	Address        string `json:"address,omitempty"`
}

// OrderItem is a cart line frozen at submission time.
type OrderItem struct {
	ProductID   string          `json:"productId" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"gt=0"`
	Quantity    int             `json:"quantity" validate:"gte=1"`
	VariantID   string          `json:"variantId,omitempty"`
	VariantName string          `json:"variantName,omitempty"`
	Image       string          `json:"image,omitempty"`
}

// LineTotal is price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a checkout submission together with its lifecycle state.
type Order struct {
	ID               string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber      string          `json:"orderNumber" gorm:"uniqueIndex;type:varchar(32)"`
	Sender           Sender          `json:"sender" gorm:"type:text;serializer:json"`
	Recipient        Recipient       `json:"recipient" gorm:"type:text;serializer:json"`
	Invoice          *Invoice        `json:"invoice,omitempty" gorm:"type:text;serializer:json"`
	Items            []OrderItem     `json:"items" gorm:"type:text;serializer:json"`
	Subtotal         decimal.Decimal `json:"subtotal" gorm:"type:decimal(12,2)"`
	ShippingCost     decimal.Decimal `json:"shippingCost" gorm:"type:decimal(12,2)"`
	Total            decimal.Decimal `json:"total" gorm:"type:decimal(12,2)"`
	Express          bool            `json:"express"`
	PaymentMethod    PaymentMethod   `json:"paymentMethod" gorm:"type:varchar(20)"`
	Status           OrderStatus     `json:"status" gorm:"type:varchar(20);index;default:'pending'"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus" gorm:"type:varchar(20);index;default:'pending'"`
	PaymentReference string          `json:"paymentReference,omitempty" gorm:"type:varchar(100)"`
	AdminNote        string          `json:"adminNote,omitempty" gorm:"type:text"`
	CreatedAt        time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// OrderFilter narrows the admin order list.
type OrderFilter struct {
	Status        OrderStatus
	PaymentStatus PaymentStatus
	Query         string
	Limit         int
	Offset        int
}
