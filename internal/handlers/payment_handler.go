package handlers

import (
	"errors"

	"celenk/internal/logging"
	"celenk/internal/services"
	"celenk/pkg/paytr"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PaymentHandler handles card payment initiation and gateway callbacks.
type PaymentHandler struct {
	service *services.PaymentService
	logger  *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{service: service, logger: logging.OrNop(logger)}
}

// RegisterRoutes registers /payments/paytr and its callback.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	paymentRoutes := router.Group("/payments")
	paymentRoutes.Post("/paytr", h.HandleStartPayTR)
	paymentRoutes.Post("/paytr/callback", h.HandlePayTRCallback)
}

type startPaymentRequest struct {
	OrderID string `json:"orderId"`
}

// HandleStartPayTR returns the hosted payment page for an order. When the
// gateway is unavailable the body carries a WhatsApp fallback link.
func (h *PaymentHandler) HandleStartPayTR(c *fiber.Ctx) error {
	var req startPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if req.OrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  fiber.Map{"orderId": "failed on the 'required' tag"},
		})
	}

	session, err := h.service.StartCardPayment(c.UserContext(), req.OrderID, c.IP())
	if err != nil {
		var gerr *services.GatewayError
		if errors.As(err, &gerr) {
			h.logger.Warn("card payment unavailable", zap.String("order_id", req.OrderID), zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"message":     "Card payment is unavailable, please continue on WhatsApp",
				"error":       err.Error(),
				"fallback":    "whatsapp",
				"whatsappUrl": gerr.WhatsAppURL,
			})
		}
		return respondError(c, h.logger, "Could not start payment", err)
	}
	return c.JSON(session)
}

// HandlePayTRCallback applies the form-encoded gateway notification and
// answers with the plain "OK" the gateway expects.
func (h *PaymentHandler) HandlePayTRCallback(c *fiber.Ctx) error {
	cb := paytr.Callback{
		MerchantOID:     c.FormValue("merchant_oid"),
		Status:          c.FormValue("status"),
		TotalAmount:     c.FormValue("total_amount"),
		Hash:            c.FormValue("hash"),
		FailedReasonMsg: c.FormValue("failed_reason_msg"),
		PaymentType:     c.FormValue("payment_type"),
	}

	err := h.service.HandleCallback(c.UserContext(), cb)
	switch {
	case err == nil:
		return c.SendString("OK")
	case errors.Is(err, services.ErrInvalidPaymentHash):
		return c.Status(fiber.StatusBadRequest).SendString("PAYTR notification failed: bad hash")
	case errors.Is(err, services.ErrPaymentUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).SendString("payment gateway not configured")
	}
	h.logger.Error("payment callback failed", zap.String("merchant_oid", cb.MerchantOID), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).SendString("callback could not be processed")
}
