package handlers

import (
	"celenk/internal/logging"
	"celenk/internal/models"
	"celenk/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SettingsHandler serves the site settings document.
type SettingsHandler struct {
	service *services.SettingsService
	logger  *zap.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(service *services.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{service: service, logger: logging.OrNop(logger)}
}

// RegisterRoutes registers /settings.
func (h *SettingsHandler) RegisterRoutes(router fiber.Router, requireAdmin fiber.Handler) {
	router.Get("/settings", h.HandleGetSettings)
	router.Put("/settings", requireAdmin, h.HandleUpdateSettings)
}

// HandleGetSettings returns the settings, or the defaults.
func (h *SettingsHandler) HandleGetSettings(c *fiber.Ctx) error {
	settings, err := h.service.GetSettings(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve settings", err)
	}
	return c.JSON(settings)
}

// HandleUpdateSettings replaces the settings wholesale.
func (h *SettingsHandler) HandleUpdateSettings(c *fiber.Ctx) error {
	var settings models.SiteSettings
	if err := c.BodyParser(&settings); err != nil {
		return badBody(c, err)
	}
	if err := h.service.UpdateSettings(c.UserContext(), &settings); err != nil {
		return respondError(c, h.logger, "Could not update settings", err)
	}
	return c.JSON(settings)
}
