package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"celenk/internal/models"
	"celenk/internal/repositories"
	"celenk/internal/services"
	"celenk/pkg/paytr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	token    string
	err      error
	validSig bool
	last     paytr.TokenRequest
}

func (g *fakeGateway) GetToken(_ context.Context, req paytr.TokenRequest) (string, error) {
	g.last = req
	return g.token, g.err
}

func (g *fakeGateway) IframeURL(token string) string {
	return "https://www.paytr.com/odeme/guvenli/" + token
}

func (g *fakeGateway) VerifyCallback(_ paytr.Callback) bool {
	return g.validSig
}

func newPaymentFixture(t *testing.T, gateway services.PaymentGateway) (*services.PaymentService, *services.OrderService, *models.Order) {
	t.Helper()
	repo := repositories.NewMockOrderRepository()
	settings := newStubSettings()
	shipping := stubShipping{quote: models.ShippingQuote{Amount: dec("25")}}
	orders := newOrderService(t, repo, shipping, settings, nil)
	created, err := orders.CreateOrder(context.Background(), validRequest(models.PaymentMethodCreditCard))
	require.NoError(t, err)
	return services.NewPaymentService(gateway, orders, settings, nil), orders, created.Order
}

func TestPaymentService_StartCardPayment(t *testing.T) {
	gateway := &fakeGateway{token: "tok123"}
	svc, _, order := newPaymentFixture(t, gateway)

	session, err := svc.StartCardPayment(context.Background(), order.ID, "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, "tok123", session.Token)
	assert.Equal(t, "https://www.paytr.com/odeme/guvenli/tok123", session.IframeURL)

	assert.Equal(t, order.OrderNumber, gateway.last.MerchantOID)
	assert.Equal(t, "525.00", gateway.last.Amount.StringFixed(2))
	require.Len(t, gateway.last.Basket, 2)
	assert.Equal(t, "Teslimat", gateway.last.Basket[1].Name)
}

func TestPaymentService_GatewayFailureFallsBackToWhatsApp(t *testing.T) {
	gateway := &fakeGateway{err: errors.New("timeout")}
	svc, orders, order := newPaymentFixture(t, gateway)

	_, err := svc.StartCardPayment(context.Background(), order.ID, "203.0.113.9")
	require.ErrorIs(t, err, services.ErrPaymentGateway)
	var gerr *services.GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.True(t, strings.HasPrefix(gerr.WhatsAppURL, "https://wa.me/"))

	stored, err := orders.GetOrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, stored.PaymentStatus)
}

func TestPaymentService_NoGatewayConfigured(t *testing.T) {
	svc, _, order := newPaymentFixture(t, nil)

	_, err := svc.StartCardPayment(context.Background(), order.ID, "203.0.113.9")
	assert.ErrorIs(t, err, services.ErrPaymentGateway)
	assert.ErrorIs(t, err, services.ErrPaymentUnavailable)
}

func TestPaymentService_HandleCallback(t *testing.T) {
	gateway := &fakeGateway{validSig: true}
	svc, orders, order := newPaymentFixture(t, gateway)
	ctx := context.Background()

	err := svc.HandleCallback(ctx, paytr.Callback{MerchantOID: order.OrderNumber, Status: paytr.StatusSuccess, TotalAmount: "52500", PaymentType: "card"})
	require.NoError(t, err)

	stored, err := orders.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, models.OrderStatusConfirmed, stored.Status)
	assert.Equal(t, "paytr:card", stored.PaymentReference)

	_, err = svc.StartCardPayment(ctx, order.ID, "203.0.113.9")
	assert.ErrorIs(t, err, services.ErrOrderAlreadyPaid)

	assert.NoError(t, svc.HandleCallback(ctx, paytr.Callback{MerchantOID: "CLKUNKNOWN", Status: paytr.StatusSuccess}))

	gateway.validSig = false
	assert.ErrorIs(t, svc.HandleCallback(ctx, paytr.Callback{MerchantOID: order.OrderNumber}), services.ErrInvalidPaymentHash)
}

func TestPaymentService_RefusesNonCardOrders(t *testing.T) {
	gateway := &fakeGateway{token: "tok123"}
	repo := repositories.NewMockOrderRepository()
	settings := newStubSettings()
	orders := newOrderService(t, repo, stubShipping{}, settings, nil)
	svc := services.NewPaymentService(gateway, orders, settings, nil)

	for _, method := range []models.PaymentMethod{models.PaymentMethodBankTransfer, models.PaymentMethodWhatsApp} {
		created, err := orders.CreateOrder(context.Background(), validRequest(method))
		require.NoError(t, err)

		_, err = svc.StartCardPayment(context.Background(), created.Order.ID, "203.0.113.9")
		require.ErrorIs(t, err, services.ErrValidation, method)
		var verr *services.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "orderId")
	}
	assert.Empty(t, gateway.last.MerchantOID)
}
