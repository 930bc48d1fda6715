package services_test

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"celenk/internal/models"
	"celenk/internal/repositories"
	"celenk/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func newOrderService(t *testing.T, repo repositories.OrderRepository, shipping services.ShippingResolver, settings services.SettingsProvider, notifier services.Notifier) *services.OrderService {
	t.Helper()
	return services.NewOrderService(repo, shipping, settings, notifier, services.OrderServiceConfig{
		StoreWhatsApp: "0532 111 22 33",
		Now:           func() time.Time { return fixedNow },
	}, nil)
}

func validRequest(method models.PaymentMethod) services.CreateOrderRequest {
	return services.CreateOrderRequest{
		Sender: models.Sender{Name: "Ayşe Yılmaz", Phone: "05321112233", Email: "ayse@example.com"},
		Recipient: models.Recipient{
			Name:       "Mehmet Demir",
			Phone:      "05334445566",
			City:       "İstanbul",
			District:   "Kadıköy",
			Address:    "Moda Cad. No:1",
			WreathText: "Mutluluklar dileriz",
		},
		Items: []models.OrderItem{
			{ProductID: "p1", Name: "Açılış Çelengi", Price: dec("250"), Quantity: 2},
		},
		PaymentMethod: method,
	}
}

func TestOrderService_CreateOrderTotals(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	notifier := &recordingNotifier{}
	shipping := stubShipping{quote: models.ShippingQuote{Amount: dec("25"), Source: models.ShippingFromDistrict}}
	svc := newOrderService(t, repo, shipping, newStubSettings(), notifier)

	result, err := svc.CreateOrder(context.Background(), validRequest(models.PaymentMethodCreditCard))
	require.NoError(t, err)

	order := result.Order
	assert.Equal(t, "500.00", order.Subtotal.StringFixed(2))
	assert.Equal(t, "25.00", order.ShippingCost.StringFixed(2))
	assert.Equal(t, "525.00", order.Total.StringFixed(2))
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "CLK"))
	assert.Empty(t, result.WhatsAppURL, "card orders continue with the payment page")
	assert.Equal(t, 1, notifier.count())

	stored, err := repo.GetByOrderNumber(context.Background(), order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.ID, stored.ID)
}

func TestOrderService_CreateOrderSurvivesEmailFailure(t *testing.T) {
	for _, method := range []models.PaymentMethod{models.PaymentMethodBankTransfer, models.PaymentMethodWhatsApp} {
		t.Run(string(method), func(t *testing.T) {
			repo := repositories.NewMockOrderRepository()
			email := &failingEmail{}
			notifications := services.NewNotificationService(nil, email, services.NotificationConfig{
				AdminTemplateID:    "tpl_admin",
				CustomerTemplateID: "tpl_customer",
				AdminEmail:         "admin@example.com",
			}, nil)
			svc := newOrderService(t, repo, stubShipping{quote: models.ShippingQuote{Amount: dec("0")}}, newStubSettings(), notifications)

			result, err := svc.CreateOrder(context.Background(), validRequest(method))
			require.NoError(t, err)
			notifications.Wait()

			assert.Equal(t, 2, email.calls)
			stored, err := repo.GetByID(context.Background(), result.Order.ID)
			require.NoError(t, err)
			assert.Equal(t, models.OrderStatusPending, stored.Status)
			assert.Equal(t, models.PaymentStatusPending, stored.PaymentStatus)
			assert.True(t, strings.HasPrefix(result.WhatsAppURL, "https://wa.me/905321112233?text="))
		})
	}
}

func TestOrderService_BankTransferLinkCarriesIBAN(t *testing.T) {
	settings := newStubSettings()
	settings.settings.Business.BankTransfer = models.BankTransferInfo{
		BankName:      "Ziraat Bankası",
		AccountHolder: "Çelenk Ltd",
		IBAN:          "TR00 0001 0000 0000 0000 0000 01",
	}
	svc := newOrderService(t, repositories.NewMockOrderRepository(), stubShipping{}, settings, nil)

	result, err := svc.CreateOrder(context.Background(), validRequest(models.PaymentMethodBankTransfer))
	require.NoError(t, err)

	parsed, err := url.Parse(result.WhatsAppURL)
	require.NoError(t, err)
	text := parsed.Query().Get("text")
	assert.Contains(t, text, result.Order.OrderNumber)
	assert.Contains(t, text, "IBAN: TR00 0001 0000 0000 0000 0000 01")
	assert.Contains(t, text, "2 x Açılış Çelengi - 500.00 TL")
	assert.NotContains(t, result.WhatsAppURL, "+")
}

func TestOrderService_CreateOrderValidation(t *testing.T) {
	svc := newOrderService(t, repositories.NewMockOrderRepository(), stubShipping{}, newStubSettings(), nil)
	ctx := context.Background()

	req := validRequest(models.PaymentMethodWhatsApp)
	req.Recipient.City = ""
	req.Items[0].Quantity = 0
	_, err := svc.CreateOrder(ctx, req)
	require.ErrorIs(t, err, services.ErrValidation)
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "recipient.city")
	assert.Contains(t, verr.Fields, "items[0].quantity")

	req = validRequest(models.PaymentMethodWhatsApp)
	req.Items = nil
	_, err = svc.CreateOrder(ctx, req)
	assert.ErrorIs(t, err, services.ErrValidation)

	req = validRequest("cash")
	_, err = svc.CreateOrder(ctx, req)
	assert.ErrorIs(t, err, services.ErrValidation)

	req = validRequest(models.PaymentMethodWhatsApp)
	req.Invoice = &models.Invoice{Type: models.InvoiceCorporate, CompanyName: "Acme"}
	_, err = svc.CreateOrder(ctx, req)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "invoice.taxOffice")
	assert.Contains(t, verr.Fields, "invoice.taxNumber")
}

func TestOrderService_BlockedDates(t *testing.T) {
	settings := newStubSettings()
	settings.settings.Business.BlockedOrderDates = []models.BlockedDateRange{
		{StartDate: "2026-10-15", EndDate: "2026-10-17", Message: "Kapalıyız"},
	}
	repo := repositories.NewMockOrderRepository()
	svc := newOrderService(t, repo, stubShipping{}, settings, nil)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, validRequest(models.PaymentMethodWhatsApp))
	assert.ErrorIs(t, err, services.ErrOrderDateBlocked)
	assert.EqualError(t, err, "Kapalıyız")

	req := validRequest(models.PaymentMethodWhatsApp)
	req.Recipient.DeliveryDate = "2026-10-18"
	_, err = svc.CreateOrder(ctx, req)
	assert.NoError(t, err)

	orders, total, err := repo.GetAll(ctx, models.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.EqualValues(t, 1, total)
}

func TestOrderService_MinimumOrderAmount(t *testing.T) {
	settings := newStubSettings()
	settings.settings.Business.MinOrderAmount = dec("1000")
	svc := newOrderService(t, repositories.NewMockOrderRepository(), stubShipping{}, settings, nil)

	_, err := svc.CreateOrder(context.Background(), validRequest(models.PaymentMethodWhatsApp))
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestOrderService_UpdateStatusIsIdempotent(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	notifier := &recordingNotifier{}
	svc := newOrderService(t, repo, stubShipping{}, newStubSettings(), notifier)
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, validRequest(models.PaymentMethodWhatsApp))
	require.NoError(t, err)
	require.Equal(t, 1, notifier.count())

	shipped := models.OrderStatusShipped
	for i := 0; i < 2; i++ {
		order, err := svc.UpdateOrder(ctx, created.Order.ID, services.OrderUpdate{Status: &shipped})
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusShipped, order.Status)
	}
	assert.Equal(t, 1, notifier.count(), "status updates dispatch no notifications")

	// Any transition between known values is accepted.
	pending := models.OrderStatusPending
	order, err := svc.UpdateOrder(ctx, created.Order.ID, services.OrderUpdate{Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	bogus := models.OrderStatus("lost")
	_, err = svc.UpdateOrder(ctx, created.Order.ID, services.OrderUpdate{Status: &bogus})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.UpdateOrder(ctx, "missing", services.OrderUpdate{Status: &shipped})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestOrderService_DeletePaidOrderNeedsForce(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	svc := newOrderService(t, repo, stubShipping{}, newStubSettings(), nil)
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, validRequest(models.PaymentMethodCreditCard))
	require.NoError(t, err)
	_, err = svc.ApplyPaymentResult(ctx, created.Order.OrderNumber, true, "paytr")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteOrder(ctx, created.Order.ID, false), services.ErrPaidOrderDelete)
	require.NoError(t, svc.DeleteOrder(ctx, created.Order.ID, true))
	_, err = repo.GetByID(ctx, created.Order.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestOrderService_ApplyPaymentResult(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	svc := newOrderService(t, repo, stubShipping{}, newStubSettings(), nil)
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, validRequest(models.PaymentMethodCreditCard))
	require.NoError(t, err)

	order, err := svc.ApplyPaymentResult(ctx, created.Order.OrderNumber, false, "")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	order, err = svc.ApplyPaymentResult(ctx, created.Order.OrderNumber, true, "paytr:card")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	assert.Equal(t, "paytr:card", order.PaymentReference)

	tracking, err := svc.TrackOrder(ctx, created.Order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, tracking.PaymentStatus)
	assert.Equal(t, "500.00", tracking.Total.StringFixed(2))
}

func TestOrderService_CardOrdersNeedSenderEmail(t *testing.T) {
	svc := newOrderService(t, repositories.NewMockOrderRepository(), stubShipping{}, newStubSettings(), nil)
	ctx := context.Background()

	req := validRequest(models.PaymentMethodCreditCard)
	req.Sender.Email = " "
	_, err := svc.CreateOrder(ctx, req)
	require.ErrorIs(t, err, services.ErrValidation)
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "sender.email")

	req = validRequest(models.PaymentMethodWhatsApp)
	req.Sender.Email = ""
	_, err = svc.CreateOrder(ctx, req)
	assert.NoError(t, err)
}
