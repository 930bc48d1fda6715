package handlers

import (
	"celenk/internal/logging"
	"celenk/internal/models"
	"celenk/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service *services.ProductService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{service: service, logger: logging.OrNop(logger)}
}

// RegisterRoutes registers the product routes. Writes go through requireAdmin.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, requireAdmin fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", requireAdmin, h.HandleCreateProduct)
	productRoutes.Put("/:id", requireAdmin, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", requireAdmin, h.HandleDeleteProduct)
}

// HandleGetProducts lists the catalog, optionally by ?category= and ?inStock=.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	filter := services.ProductFilter{Category: c.Query("category")}
	if raw := c.Query("inStock"); raw != "" {
		inStock := c.QueryBool("inStock")
		filter.InStock = &inStock
	}

	products, err := h.service.GetAllProducts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleCreateProduct adds a product to the catalog.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badBody(c, err)
	}
	if err := h.service.CreateProduct(c.UserContext(), &product); err != nil {
		return respondError(c, h.logger, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct overwrites a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badBody(c, err)
	}
	product.ID = c.Params("id")

	updated, err := h.service.UpdateProduct(c.UserContext(), &product)
	if err != nil {
		return respondError(c, h.logger, "Could not update product", err)
	}
	return c.JSON(updated)
}

// HandleDeleteProduct removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.logger, "Could not delete product", err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}
