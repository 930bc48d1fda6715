package repositories

import (
	"context"

	"celenk/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll(ctx context.Context, filter models.OrderFilter) ([]models.Order, int64, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	// Update overwrites the mutable lifecycle fields: status, payment status,
	// payment reference and admin note.
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id string) error
}
