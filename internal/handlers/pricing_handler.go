package handlers

import (
	"celenk/internal/logging"
	"celenk/internal/models"
	"celenk/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PricingHandler handles HTTP requests for delivery pricing.
type PricingHandler struct {
	service *services.PricingService
	logger  *zap.Logger
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(service *services.PricingService, logger *zap.Logger) *PricingHandler {
	return &PricingHandler{service: service, logger: logging.OrNop(logger)}
}

// RegisterRoutes registers the pricing routes. Writes go through requireAdmin.
func (h *PricingHandler) RegisterRoutes(router fiber.Router, requireAdmin fiber.Handler) {
	pricingRoutes := router.Group("/pricing")
	pricingRoutes.Get("/", h.HandleGetEntries)
	pricingRoutes.Get("/quote", h.HandleQuote)
	pricingRoutes.Get("/:id", requireAdmin, h.HandleGetEntry)
	pricingRoutes.Post("/", requireAdmin, h.HandleCreateEntry)
	pricingRoutes.Put("/:id", requireAdmin, h.HandleUpdateEntry)
	pricingRoutes.Delete("/:id", requireAdmin, h.HandleDeleteEntry)
}

// HandleGetEntries lists pricing entries, optionally for one ?city=.
func (h *PricingHandler) HandleGetEntries(c *fiber.Ctx) error {
	entries, err := h.service.ListEntries(c.UserContext(), c.Query("city"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve pricing", err)
	}
	return c.JSON(entries)
}

// HandleQuote resolves the delivery fee for ?city=&district=&express=.
func (h *PricingHandler) HandleQuote(c *fiber.Ctx) error {
	quote, err := h.service.ResolveShipping(c.UserContext(), c.Query("city"), c.Query("district"), c.QueryBool("express"))
	if err != nil {
		return respondError(c, h.logger, "Could not resolve shipping", err)
	}
	return c.JSON(quote)
}

// HandleGetEntry retrieves one entry.
func (h *PricingHandler) HandleGetEntry(c *fiber.Ctx) error {
	entry, err := h.service.GetEntry(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve pricing entry", err)
	}
	return c.JSON(entry)
}

// HandleCreateEntry adds a pricing entry.
func (h *PricingHandler) HandleCreateEntry(c *fiber.Ctx) error {
	var entry models.PricingEntry
	if err := c.BodyParser(&entry); err != nil {
		return badBody(c, err)
	}
	entry.ID = ""
	if err := h.service.CreateEntry(c.UserContext(), &entry); err != nil {
		return respondError(c, h.logger, "Could not create pricing entry", err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// HandleUpdateEntry overwrites a pricing entry.
func (h *PricingHandler) HandleUpdateEntry(c *fiber.Ctx) error {
	var entry models.PricingEntry
	if err := c.BodyParser(&entry); err != nil {
		return badBody(c, err)
	}
	entry.ID = c.Params("id")
	if err := h.service.UpdateEntry(c.UserContext(), &entry); err != nil {
		return respondError(c, h.logger, "Could not update pricing entry", err)
	}
	updated, err := h.service.GetEntry(c.UserContext(), entry.ID)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve pricing entry", err)
	}
	return c.JSON(updated)
}

// HandleDeleteEntry removes a pricing entry.
func (h *PricingHandler) HandleDeleteEntry(c *fiber.Ctx) error {
	if err := h.service.DeleteEntry(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.logger, "Could not delete pricing entry", err)
	}
	return c.JSON(fiber.Map{"message": "Pricing entry deleted successfully"})
}
