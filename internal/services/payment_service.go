package services

import (
	"context"
	"fmt"

	"celenk/internal/logging"
	"celenk/internal/models"
	"celenk/pkg/paytr"

	"go.uber.org/zap"
)

// PaymentGateway is the subset of the PayTR client used here.
type PaymentGateway interface {
	GetToken(ctx context.Context, req paytr.TokenRequest) (string, error)
	IframeURL(token string) string
	VerifyCallback(cb paytr.Callback) bool
}

// PaymentSession is handed to the storefront to embed the payment page.
type PaymentSession struct {
	OrderNumber string `json:"orderNumber"`
	Token       string `json:"token"`
	IframeURL   string `json:"iframeUrl"`
}

// PaymentService starts card payments and applies gateway callbacks.
type PaymentService struct {
	gateway  PaymentGateway
	orders   *OrderService
	settings SettingsProvider
	logger   *zap.Logger
}

// NewPaymentService creates a PaymentService. A nil gateway disables card payments.
func NewPaymentService(gateway PaymentGateway, orders *OrderService, settings SettingsProvider, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		gateway:  gateway,
		orders:   orders,
		settings: settings,
		logger:   logging.OrNop(logger),
	}
}

// StartCardPayment requests a hosted-payment token for a pending order. On
// failure the order stays pending and a *GatewayError with a WhatsApp
// fallback link is returned.
func (s *PaymentService) StartCardPayment(ctx context.Context, orderID, userIP string) (*PaymentSession, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != models.PaymentMethodCreditCard {
		return nil, fieldError("orderId", "order was not placed for card payment")
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, ErrOrderAlreadyPaid
	}

	if s.gateway == nil {
		return nil, s.fallback(ctx, order, ErrPaymentUnavailable)
	}

	token, err := s.gateway.GetToken(ctx, tokenRequest(order, userIP))
	if err != nil {
		s.logger.Warn("payment token request failed",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
		return nil, s.fallback(ctx, order, err)
	}

	s.logger.Info("card payment started", zap.String("order_number", order.OrderNumber))
	return &PaymentSession{
		OrderNumber: order.OrderNumber,
		Token:       token,
		IframeURL:   s.gateway.IframeURL(token),
	}, nil
}

func (s *PaymentService) fallback(ctx context.Context, order *models.Order, cause error) error {
	gerr := &GatewayError{Cause: cause}
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		s.logger.Warn("settings unavailable for payment fallback", zap.Error(err))
		defaults := models.DefaultSiteSettings()
		settings = &defaults
	}
	gerr.WhatsAppURL = s.orders.WhatsAppLink(order, settings)
	return gerr
}

func tokenRequest(order *models.Order, userIP string) paytr.TokenRequest {
	basket := make([]paytr.BasketItem, 0, len(order.Items)+1)
	for _, item := range order.Items {
		basket = append(basket, paytr.BasketItem{Name: item.Name, Price: item.Price, Quantity: item.Quantity})
	}
	if order.ShippingCost.IsPositive() {
		basket = append(basket, paytr.BasketItem{Name: "Teslimat", Price: order.ShippingCost, Quantity: 1})
	}
	r := order.Recipient
	return paytr.TokenRequest{
		MerchantOID: order.OrderNumber,
		Email:       order.Sender.Email,
		UserIP:      userIP,
		Amount:      order.Total,
		UserName:    order.Sender.Name,
		UserAddress: fmt.Sprintf("%s, %s / %s", r.Address, r.District, r.City),
		UserPhone:   order.Sender.Phone,
		Basket:      basket,
	}
}

// HandleCallback verifies and applies a gateway notification. Callbacks for
// unknown orders are logged and acknowledged.
func (s *PaymentService) HandleCallback(ctx context.Context, cb paytr.Callback) error {
	if s.gateway == nil {
		return ErrPaymentUnavailable
	}
	if !s.gateway.VerifyCallback(cb) {
		s.logger.Warn("payment callback with invalid hash", zap.String("merchant_oid", cb.MerchantOID))
		return ErrInvalidPaymentHash
	}

	success := cb.Status == paytr.StatusSuccess
	reference := "paytr"
	if cb.PaymentType != "" {
		reference += ":" + cb.PaymentType
	}
	order, err := s.orders.ApplyPaymentResult(ctx, cb.MerchantOID, success, reference)
	if IsNotFound(err) {
		s.logger.Warn("payment callback for unknown order", zap.String("merchant_oid", cb.MerchantOID))
		return nil
	}
	if err != nil {
		return err
	}

	fields := []zap.Field{
		zap.String("order_number", order.OrderNumber),
		zap.String("payment_status", string(order.PaymentStatus)),
		zap.String("total_amount", cb.TotalAmount),
	}
	if !success {
		fields = append(fields, zap.String("reason", cb.FailedReasonMsg))
	}
	s.logger.Info("payment callback applied", fields...)
	return nil
}
