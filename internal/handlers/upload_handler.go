package handlers

import (
	"celenk/internal/logging"
	"celenk/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UploadHandler accepts admin image uploads.
type UploadHandler struct {
	service *services.UploadService
	logger  *zap.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(service *services.UploadService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{service: service, logger: logging.OrNop(logger)}
}

// RegisterRoutes registers /upload/image.
func (h *UploadHandler) RegisterRoutes(router fiber.Router, requireAdmin fiber.Handler) {
	router.Post("/upload/image", requireAdmin, h.HandleUploadImage)
}

// HandleUploadImage stores the multipart "file" field and returns its URL.
func (h *UploadHandler) HandleUploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Image file is required",
			"error":   err.Error(),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, h.logger, "Could not read upload", err)
	}
	defer file.Close()

	url, err := h.service.UploadImage(c.UserContext(), file, fileHeader.Size)
	if err != nil {
		return respondError(c, h.logger, "Could not upload image", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}
