package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"celenk/internal/logging"
	"celenk/internal/models"
	"celenk/internal/repositories"
	"celenk/pkg/whatsapp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateOrderRequest is the checkout form submitted by the storefront.
type CreateOrderRequest struct {
	Sender        models.Sender        `json:"sender"`
	Recipient     models.Recipient     `json:"recipient"`
	Invoice       *models.Invoice      `json:"invoice,omitempty"`
	Items         []models.OrderItem   `json:"items" validate:"required,min=1,dive"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod" validate:"required,oneof=credit_card bank_transfer whatsapp"`
	Express       bool                 `json:"express"`
}

// CreateOrderResult is returned after a successful checkout.
type CreateOrderResult struct {
	Order       *models.Order `json:"order"`
	WhatsAppURL string        `json:"whatsappUrl,omitempty"`
}

// OrderUpdate carries the admin-editable fields; nil fields are left alone.
type OrderUpdate struct {
	Status        *models.OrderStatus   `json:"status,omitempty"`
	PaymentStatus *models.PaymentStatus `json:"paymentStatus,omitempty"`
	AdminNote     *string               `json:"adminNote,omitempty"`
}

// OrderTracking is the public view of an order used by the confirmation page.
type OrderTracking struct {
	OrderNumber   string               `json:"orderNumber"`
	Status        models.OrderStatus   `json:"status"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	DeliveryDate  string               `json:"deliveryDate,omitempty"`
	Total         decimal.Decimal      `json:"total"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// OrderServiceConfig holds the non-repository inputs of OrderService.
type OrderServiceConfig struct {
	// StoreWhatsApp overrides the number taken from the site settings.
	StoreWhatsApp string
	Location      *time.Location
	Now           func() time.Time
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	shipping  ShippingResolver
	settings  SettingsProvider
	notifier  Notifier
	validate  *validator.Validate
	cfg       OrderServiceConfig
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService. notifier may be nil.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	shipping ShippingResolver,
	settings SettingsProvider,
	notifier Notifier,
	cfg OrderServiceConfig,
	logger *zap.Logger,
) *OrderService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &OrderService{
		orderRepo: orderRepo,
		shipping:  shipping,
		settings:  settings,
		notifier:  notifier,
		validate:  NewValidator(),
		cfg:       cfg,
		logger:    logging.OrNop(logger),
	}
}

// NewOrderNumber returns a sortable, collision-resistant order number that
// only uses characters the payment gateway accepts.
func NewOrderNumber() string {
	return "CLK" + ulid.Make().String()
}

// CreateOrder validates a checkout submission, prices it and stores it as
// pending/pending.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if err := validateStruct(s.validate, &req); err != nil {
		return nil, err
	}
	if req.PaymentMethod == models.PaymentMethodCreditCard && strings.TrimSpace(req.Sender.Email) == "" {
		return nil, fieldError("sender.email", "failed on the 'required' tag")
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	now := s.cfg.Now().In(s.cfg.Location)
	if err := CheckOrderDate(settings.Business.BlockedOrderDates, req.Recipient.DeliveryDate, now); err != nil {
		s.logger.Info("order refused on blocked date",
			zap.String("delivery_date", req.Recipient.DeliveryDate), zap.Error(err))
		return nil, err
	}

	quote, err := s.shipping.ResolveShipping(ctx, req.Recipient.City, req.Recipient.District, req.Express)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, item := range req.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	subtotal = models.RoundMoney(subtotal)

	if minAmount := settings.Business.MinOrderAmount; minAmount.IsPositive() && subtotal.LessThan(minAmount) {
		return nil, fieldError("items", "order amount is below the minimum of "+minAmount.StringFixed(2))
	}

	order := &models.Order{
		ID:            uuid.New().String(),
		OrderNumber:   NewOrderNumber(),
		Sender:        req.Sender,
		Recipient:     req.Recipient,
		Invoice:       req.Invoice,
		Items:         req.Items,
		Subtotal:      subtotal,
		ShippingCost:  quote.Amount,
		Total:         models.RoundMoney(subtotal.Add(quote.Amount)),
		Express:       req.Express,
		PaymentMethod: req.PaymentMethod,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}
	s.logger.Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("payment_method", string(order.PaymentMethod)),
		zap.String("total", order.Total.StringFixed(2)),
		zap.String("shipping_source", string(quote.Source)))

	if s.notifier != nil {
		s.notifier.OrderPlaced(ctx, order)
	}

	result := &CreateOrderResult{Order: order}
	if order.PaymentMethod != models.PaymentMethodCreditCard {
		result.WhatsAppURL = s.WhatsAppLink(order, settings)
	}
	return result, nil
}

// WhatsAppLink builds the wa.me link carrying the order summary.
func (s *OrderService) WhatsAppLink(order *models.Order, settings *models.SiteSettings) string {
	phone := s.cfg.StoreWhatsApp
	if phone == "" {
		phone = settings.Business.OrderWhatsApp
	}
	if phone == "" {
		phone = settings.Contact.WhatsApp
	}
	return whatsapp.Link(phone, OrderSummaryMessage(order, settings.Business.BankTransfer))
}

// ListOrders returns a page of orders and the total count.
func (s *OrderService) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, fieldError("status", "unknown order status")
	}
	if filter.PaymentStatus != "" && !filter.PaymentStatus.Valid() {
		return nil, 0, fieldError("paymentStatus", "unknown payment status")
	}
	return s.orderRepo.GetAll(ctx, filter)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// TrackOrder returns the public status view of an order.
func (s *OrderService) TrackOrder(ctx context.Context, orderNumber string) (*OrderTracking, error) {
	order, err := s.orderRepo.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return &OrderTracking{
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		PaymentMethod: order.PaymentMethod,
		DeliveryDate:  order.Recipient.DeliveryDate,
		Total:         order.Total,
		CreatedAt:     order.CreatedAt,
	}, nil
}

// UpdateOrder overwrites status, payment status and admin note. Any
// transition between known values is allowed.
func (s *OrderService) UpdateOrder(ctx context.Context, id string, update OrderUpdate) (*models.Order, error) {
	if update.Status != nil && !update.Status.Valid() {
		return nil, fieldError("status", "unknown order status")
	}
	if update.PaymentStatus != nil && !update.PaymentStatus.Valid() {
		return nil, fieldError("paymentStatus", "unknown payment status")
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Status != nil {
		order.Status = *update.Status
	}
	if update.PaymentStatus != nil {
		order.PaymentStatus = *update.PaymentStatus
	}
	if update.AdminNote != nil {
		order.AdminNote = *update.AdminNote
	}
	order.UpdatedAt = s.cfg.Now()

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Info("order updated",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", string(order.Status)),
		zap.String("payment_status", string(order.PaymentStatus)))
	return order, nil
}

// DeleteOrder removes an order. Paid orders need force.
func (s *OrderService) DeleteOrder(ctx context.Context, id string, force bool) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order.PaymentStatus == models.PaymentStatusPaid && !force {
		return ErrPaidOrderDelete
	}
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("order deleted", zap.String("order_number", order.OrderNumber), zap.Bool("forced", force))
	return nil
}

// ApplyPaymentResult records the gateway outcome for an order number. A
// successful payment also confirms an order that is still pending.
func (s *OrderService) ApplyPaymentResult(ctx context.Context, orderNumber string, success bool, reference string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if success {
		order.PaymentStatus = models.PaymentStatusPaid
		if order.Status == models.OrderStatusPending {
			order.Status = models.OrderStatusConfirmed
		}
	} else if order.PaymentStatus != models.PaymentStatusPaid {
		order.PaymentStatus = models.PaymentStatusFailed
	}
	if reference != "" {
		order.PaymentReference = reference
	}
	order.UpdatedAt = s.cfg.Now()

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repositories.ErrNotFound)
}
