package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"celenk/internal/logging"
	"celenk/internal/models"

	"go.uber.org/zap"
)

// EventOrderPlaced is the type of the queued event emitted after checkout.
const EventOrderPlaced = "order.placed"

// Notifier is told about newly placed orders. It never fails the caller.
type Notifier interface {
	OrderPlaced(ctx context.Context, order *models.Order)
}

// EventPublisher puts an encoded event on the notification queue.
type EventPublisher interface {
	Publish(ctx context.Context, body []byte) error
}

// EmailSender delivers a templated email.
type EmailSender interface {
	Send(ctx context.Context, templateID string, params map[string]string) error
}

// OrderEvent is the queued notification payload.
type OrderEvent struct {
	Type  string       `json:"type"`
	Order models.Order `json:"order"`
}

// NotificationConfig names the templates and the admin inbox.
type NotificationConfig struct {
	AdminTemplateID    string
	CustomerTemplateID string
	AdminEmail         string
	DeliveryTimeout    time.Duration
}

// NotificationService dispatches order emails, through the queue when one is
// configured and in a background goroutine otherwise.
type NotificationService struct {
	publisher EventPublisher
	email     EmailSender
	cfg       NotificationConfig
	logger    *zap.Logger
	wg        sync.WaitGroup
}

// NewNotificationService creates a NotificationService. publisher and email may be nil.
func NewNotificationService(publisher EventPublisher, email EmailSender, cfg NotificationConfig, logger *zap.Logger) *NotificationService {
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = 30 * time.Second
	}
	return &NotificationService{
		publisher: publisher,
		email:     email,
		cfg:       cfg,
		logger:    logging.OrNop(logger),
	}
}

// OrderPlaced queues or schedules the order emails and returns immediately.
func (s *NotificationService) OrderPlaced(ctx context.Context, order *models.Order) {
	if order == nil {
		return
	}
	if s.publisher != nil {
		body, err := json.Marshal(OrderEvent{Type: EventOrderPlaced, Order: *order})
		if err == nil {
			err = s.publisher.Publish(ctx, body)
		}
		if err == nil {
			s.logger.Info("order notification queued", zap.String("order_number", order.OrderNumber))
			return
		}
		s.logger.Warn("order notification publish failed, delivering in-process",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
	}

	snapshot := *order
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		dctx, cancel := context.WithTimeout(context.Background(), s.cfg.DeliveryTimeout)
		defer cancel()
		_ = s.Deliver(dctx, &snapshot)
	}()
}

// HandleQueuedEvent is the queue consumer callback.
func (s *NotificationService) HandleQueuedEvent(body []byte) error {
	var event OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decode order event: %w", err)
	}
	if event.Type != EventOrderPlaced {
		s.logger.Warn("ignoring unknown notification event", zap.String("type", event.Type))
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.DeliveryTimeout)
	defer cancel()
	return s.Deliver(ctx, &event.Order)
}

// Deliver sends the admin email and, when the sender left an address, the
// customer confirmation. Failures are logged together with the email body.
func (s *NotificationService) Deliver(ctx context.Context, order *models.Order) error {
	params := orderEmailParams(order)
	var errs []error

	adminParams := cloneParams(params)
	adminParams["to_email"] = s.cfg.AdminEmail
	if err := s.send(ctx, s.cfg.AdminTemplateID, adminParams); err != nil {
		errs = append(errs, fmt.Errorf("admin email: %w", err))
	}

	if order.Sender.Email != "" && s.cfg.CustomerTemplateID != "" {
		customerParams := cloneParams(params)
		customerParams["to_email"] = order.Sender.Email
		if err := s.send(ctx, s.cfg.CustomerTemplateID, customerParams); err != nil {
			errs = append(errs, fmt.Errorf("customer email: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	s.logger.Info("order notifications sent", zap.String("order_number", order.OrderNumber))
	return nil
}

func (s *NotificationService) send(ctx context.Context, templateID string, params map[string]string) error {
	if s.email == nil || templateID == "" {
		s.logger.Info("email delivery not configured, logging email",
			zap.String("to", params["to_email"]), zap.String("body", params["message"]))
		return nil
	}
	if err := s.email.Send(ctx, templateID, params); err != nil {
		s.logger.Error("email delivery failed",
			zap.String("to", params["to_email"]),
			zap.String("order_number", params["order_number"]),
			zap.String("body", params["message"]),
			zap.Error(err))
		return err
	}
	return nil
}

// Wait blocks until in-process deliveries started so far have finished.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

func orderEmailParams(order *models.Order) map[string]string {
	r := order.Recipient
	return map[string]string{
		"order_number":      order.OrderNumber,
		"sender_name":       order.Sender.Name,
		"sender_phone":      order.Sender.Phone,
		"sender_email":      order.Sender.Email,
		"recipient_name":    r.Name,
		"recipient_phone":   r.Phone,
		"delivery_address":  fmt.Sprintf("%s, %s / %s", r.Address, r.District, r.City),
		"delivery_date":     r.DeliveryDate,
		"delivery_time":     r.DeliveryTime,
		"delivery_location": r.DeliveryLocation,
		"wreath_text":       r.WreathText,
		"items":             strings.Join(itemLines(order), "\n"),
		"subtotal":          order.Subtotal.StringFixed(2),
		"shipping_cost":     order.ShippingCost.StringFixed(2),
		"total":             order.Total.StringFixed(2),
		"payment_method":    PaymentMethodLabel(order.PaymentMethod),
		"message":           OrderSummaryMessage(order, models.BankTransferInfo{}),
	}
}

func cloneParams(params map[string]string) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
