package services

import (
	"context"
	"io"
	"strings"

	"celenk/internal/models"

	"github.com/tealeg/xlsx"
)

var exportHeaders = []string{
	"Sipariş No", "Tarih", "Durum", "Ödeme Durumu", "Ödeme Yöntemi",
	"Gönderen", "Gönderen Telefon", "Gönderen E-posta",
	"Alıcı", "Alıcı Telefon", "İl", "İlçe", "Adres",
	"Teslim Tarihi", "Teslim Saati", "Kuşak Yazısı", "Ürünler",
	"Ara Toplam", "Teslimat", "Toplam", "Not",
}

// WriteOrdersXLSX writes the orders matching filter as a spreadsheet.
func (s *OrderService) WriteOrdersXLSX(ctx context.Context, filter models.OrderFilter, w io.Writer) error {
	filter.Limit = 0
	filter.Offset = 0
	orders, _, err := s.ListOrders(ctx, filter)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Siparisler")
	if err != nil {
		return err
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetValue(h)
	}

	for i := range orders {
		o := &orders[i]
		row := sheet.AddRow()
		row.AddCell().SetValue(o.OrderNumber)
		row.AddCell().SetValue(o.CreatedAt.In(s.cfg.Location).Format("2006-01-02 15:04"))
		row.AddCell().SetValue(string(o.Status))
		row.AddCell().SetValue(string(o.PaymentStatus))
		row.AddCell().SetValue(PaymentMethodLabel(o.PaymentMethod))
		row.AddCell().SetValue(o.Sender.Name)
		row.AddCell().SetValue(o.Sender.Phone)
		row.AddCell().SetValue(o.Sender.Email)
		row.AddCell().SetValue(o.Recipient.Name)
		row.AddCell().SetValue(o.Recipient.Phone)
		row.AddCell().SetValue(o.Recipient.City)
		row.AddCell().SetValue(o.Recipient.District)
		row.AddCell().SetValue(o.Recipient.Address)
		row.AddCell().SetValue(o.Recipient.DeliveryDate)
		row.AddCell().SetValue(o.Recipient.DeliveryTime)
		row.AddCell().SetValue(o.Recipient.WreathText)
		row.AddCell().SetValue(strings.Join(itemLines(o), "\n"))
		row.AddCell().SetFloat(o.Subtotal.InexactFloat64())
		row.AddCell().SetFloat(o.ShippingCost.InexactFloat64())
		row.AddCell().SetFloat(o.Total.InexactFloat64())
		row.AddCell().SetValue(o.AdminNote)
	}

	return file.Write(w)
}
