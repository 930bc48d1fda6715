package services

import (
	"context"
	"time"

	"celenk/internal/logging"
	"celenk/internal/models"
	"celenk/internal/repositories"
	"celenk/internal/textutil"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductFilter narrows the public catalog listing.
type ProductFilter struct {
	Category string
	InStock  *bool
}

// ProductService handles business logic related to products.
type ProductService struct {
	productRepo repositories.ProductRepository
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		validate:    NewValidator(),
		logger:      logging.OrNop(logger),
	}
}

// GetAllProducts retrieves the catalog, optionally filtered.
func (s *ProductService) GetAllProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if filter.Category == "" && filter.InStock == nil {
		return products, nil
	}

	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if filter.Category != "" && !p.HasCategory(filter.Category) {
			continue
		}
		if filter.InStock != nil && p.InStock != *filter.InStock {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// CreateProduct validates and stores a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.prepare(product); err != nil {
		return err
	}
	product.ID = uuid.New().String()
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.productRepo.Create(ctx, product); err != nil {
		return err
	}
	s.logger.Info("product created", zap.String("product_id", product.ID), zap.String("name", product.Name))
	return nil
}

// UpdateProduct overwrites the editable fields of an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := s.prepare(product); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, product.ID)
}

// DeleteProduct removes a product.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.String("product_id", id))
	return nil
}

func (s *ProductService) prepare(product *models.Product) error {
	if err := validateStruct(s.validate, product); err != nil {
		return err
	}
	if product.Category == nil {
		product.Category = []string{}
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	product.Slug = textutil.Slugify(product.Name)
	return nil
}
