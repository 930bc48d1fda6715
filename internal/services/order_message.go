package services

import (
	"fmt"
	"strings"

	"celenk/internal/models"
)

var paymentMethodLabels = map[models.PaymentMethod]string{
	models.PaymentMethodCreditCard:   "Kredi Kartı",
	models.PaymentMethodBankTransfer: "Havale / EFT",
	models.PaymentMethodWhatsApp:     "WhatsApp ile Sipariş",
}

// PaymentMethodLabel is the customer-facing name of a payment method.
func PaymentMethodLabel(m models.PaymentMethod) string {
	if label, ok := paymentMethodLabels[m]; ok {
		return label
	}
	return string(m)
}

// itemLines renders one "2 x Name (Variant) - 500.00 TL" line per item.
func itemLines(order *models.Order) []string {
	lines := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		name := item.Name
		if item.VariantName != "" {
			name += " (" + item.VariantName + ")"
		}
		lines = append(lines, fmt.Sprintf("%d x %s - %s TL", item.Quantity, name, item.LineTotal().StringFixed(2)))
	}
	return lines
}

// OrderSummaryMessage is the text pre-filled into the WhatsApp link handed
// back after checkout. Bank transfer orders also carry the account details.
func OrderSummaryMessage(order *models.Order, bank models.BankTransferInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Merhaba, %s numaralı siparişimi oluşturdum.\n\n", order.OrderNumber)

	b.WriteString("Ürünler:\n")
	for _, line := range itemLines(order) {
		b.WriteString("- " + line + "\n")
	}
	fmt.Fprintf(&b, "\nAra toplam: %s TL\n", order.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "Teslimat: %s TL\n", order.ShippingCost.StringFixed(2))
	fmt.Fprintf(&b, "Toplam: %s TL\n\n", order.Total.StringFixed(2))

	r := order.Recipient
	fmt.Fprintf(&b, "Alıcı: %s (%s)\n", r.Name, r.Phone)
	fmt.Fprintf(&b, "Adres: %s, %s / %s\n", r.Address, r.District, r.City)
	if r.DeliveryDate != "" {
		when := r.DeliveryDate
		if r.DeliveryTime != "" {
			when += " " + r.DeliveryTime
		}
		fmt.Fprintf(&b, "Teslimat zamanı: %s\n", when)
	}
	if r.WreathText != "" {
		fmt.Fprintf(&b, "Kuşak yazısı: %s\n", r.WreathText)
	}
	fmt.Fprintf(&b, "Ödeme: %s\n", PaymentMethodLabel(order.PaymentMethod))

	if order.PaymentMethod == models.PaymentMethodBankTransfer && bank.IBAN != "" {
		b.WriteString("\nHavale bilgileri:\n")
		if bank.BankName != "" {
			fmt.Fprintf(&b, "Banka: %s\n", bank.BankName)
		}
		if bank.AccountHolder != "" {
			fmt.Fprintf(&b, "Alıcı: %s\n", bank.AccountHolder)
		}
		fmt.Fprintf(&b, "IBAN: %s\n", bank.IBAN)
		fmt.Fprintf(&b, "Açıklama: %s\n", order.OrderNumber)
	}
	return strings.TrimRight(b.String(), "\n")
}
