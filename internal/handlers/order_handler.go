package handlers

import (
	"bytes"
	"fmt"
	"time"

	"celenk/internal/logging"
	"celenk/internal/models"
	"celenk/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
	logger  *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{service: service, logger: logging.OrNop(logger)}
}

// RegisterRoutes registers the order routes. Checkout and tracking are
// public, everything else goes through requireAdmin.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, requireAdmin fiber.Handler) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/track/:orderNumber", h.HandleTrackOrder)
	orderRoutes.Get("/export", requireAdmin, h.HandleExportOrders)
	orderRoutes.Get("/", requireAdmin, h.HandleGetOrders)
	orderRoutes.Get("/:id", requireAdmin, h.HandleGetOrderByID)
	orderRoutes.Put("/:id", requireAdmin, h.HandleUpdateOrder)
	orderRoutes.Delete("/:id", requireAdmin, h.HandleDeleteOrder)
}

// HandleCreateOrder accepts a checkout submission.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	result, err := h.service.CreateOrder(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, "Could not create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleTrackOrder returns the public status of an order.
func (h *OrderHandler) HandleTrackOrder(c *fiber.Ctx) error {
	tracking, err := h.service.TrackOrder(c.UserContext(), c.Params("orderNumber"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve order", err)
	}
	return c.JSON(tracking)
}

func orderFilter(c *fiber.Ctx) models.OrderFilter {
	return models.OrderFilter{
		Status:        models.OrderStatus(c.Query("status")),
		PaymentStatus: models.PaymentStatus(c.Query("paymentStatus")),
		Query:         c.Query("q"),
		Limit:         c.QueryInt("limit", 0),
		Offset:        c.QueryInt("offset", 0),
	}
}

// HandleGetOrders lists orders for the admin panel.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, total, err := h.service.ListOrders(c.UserContext(), orderFilter(c))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve orders", err)
	}
	return c.JSON(fiber.Map{
		"orders": orders,
		"total":  total,
	})
}

// HandleGetOrderByID retrieves a single order.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// HandleUpdateOrder changes status, payment status or the admin note.
func (h *OrderHandler) HandleUpdateOrder(c *fiber.Ctx) error {
	var update services.OrderUpdate
	if err := c.BodyParser(&update); err != nil {
		return badBody(c, err)
	}

	order, err := h.service.UpdateOrder(c.UserContext(), c.Params("id"), update)
	if err != nil {
		return respondError(c, h.logger, "Could not update order", err)
	}
	return c.JSON(order)
}

// HandleDeleteOrder removes an order; paid orders need ?force=true.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	if err := h.service.DeleteOrder(c.UserContext(), c.Params("id"), c.QueryBool("force")); err != nil {
		return respondError(c, h.logger, "Could not delete order", err)
	}
	return c.JSON(fiber.Map{"message": "Order deleted successfully"})
}

// HandleExportOrders downloads the filtered orders as an xlsx file.
func (h *OrderHandler) HandleExportOrders(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.WriteOrdersXLSX(c.UserContext(), orderFilter(c), &buf); err != nil {
		return respondError(c, h.logger, "Could not export orders", err)
	}

	filename := fmt.Sprintf("siparisler-%s.xlsx", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(buf.Bytes())
}
