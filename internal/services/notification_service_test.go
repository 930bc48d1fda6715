package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"celenk/internal/models"
	"celenk/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu     sync.Mutex
	bodies [][]byte
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.bodies = append(p.bodies, body)
	return nil
}

type captureEmail struct {
	mu    sync.Mutex
	sent  []map[string]string
	tmpls []string
}

func (c *captureEmail) Send(_ context.Context, templateID string, params map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tmpls = append(c.tmpls, templateID)
	c.sent = append(c.sent, params)
	return nil
}

var notificationConfig = services.NotificationConfig{
	AdminTemplateID:    "tpl_admin",
	CustomerTemplateID: "tpl_customer",
	AdminEmail:         "admin@example.com",
}

func sampleOrder() *models.Order {
	return &models.Order{
		ID:            "o1",
		OrderNumber:   "CLK01TEST",
		Sender:        models.Sender{Name: "Ayşe", Phone: "05321112233", Email: "ayse@example.com"},
		Recipient:     models.Recipient{Name: "Mehmet", Phone: "05334445566", City: "İstanbul", District: "Kadıköy", Address: "Moda"},
		Items:         []models.OrderItem{{ProductID: "p1", Name: "Çelenk", Price: dec("250"), Quantity: 2}},
		Subtotal:      dec("500"),
		ShippingCost:  dec("25"),
		Total:         dec("525"),
		PaymentMethod: models.PaymentMethodBankTransfer,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
	}
}

func TestNotificationService_PublishesToQueue(t *testing.T) {
	publisher := &capturePublisher{}
	email := &captureEmail{}
	svc := services.NewNotificationService(publisher, email, notificationConfig, nil)

	svc.OrderPlaced(context.Background(), sampleOrder())
	svc.Wait()

	require.Len(t, publisher.bodies, 1)
	assert.Empty(t, email.sent, "queued events are delivered by the consumer")

	var event services.OrderEvent
	require.NoError(t, json.Unmarshal(publisher.bodies[0], &event))
	assert.Equal(t, services.EventOrderPlaced, event.Type)
	assert.Equal(t, "CLK01TEST", event.Order.OrderNumber)

	require.NoError(t, svc.HandleQueuedEvent(publisher.bodies[0]))
	require.Len(t, email.sent, 2)
	assert.Equal(t, []string{"tpl_admin", "tpl_customer"}, email.tmpls)
	assert.Equal(t, "admin@example.com", email.sent[0]["to_email"])
	assert.Equal(t, "ayse@example.com", email.sent[1]["to_email"])
	assert.Equal(t, "525.00", email.sent[0]["total"])
}

func TestNotificationService_FallsBackWhenPublishFails(t *testing.T) {
	publisher := &capturePublisher{err: errors.New("channel closed")}
	email := &captureEmail{}
	svc := services.NewNotificationService(publisher, email, notificationConfig, nil)

	svc.OrderPlaced(context.Background(), sampleOrder())
	svc.Wait()

	assert.Len(t, email.sent, 2)
}

func TestNotificationService_SkipsCustomerWithoutEmail(t *testing.T) {
	email := &captureEmail{}
	svc := services.NewNotificationService(nil, email, notificationConfig, nil)

	order := sampleOrder()
	order.Sender.Email = ""
	require.NoError(t, svc.Deliver(context.Background(), order))
	assert.Equal(t, []string{"tpl_admin"}, email.tmpls)
}

func TestNotificationService_UnconfiguredEmailOnlyLogs(t *testing.T) {
	svc := services.NewNotificationService(nil, nil, services.NotificationConfig{}, nil)
	assert.NoError(t, svc.Deliver(context.Background(), sampleOrder()))
	assert.Error(t, svc.HandleQueuedEvent([]byte("not json")))
}
