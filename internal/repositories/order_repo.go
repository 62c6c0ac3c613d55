package repositories

import (
	"gudang/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// never physically removed; MarkDeleted flips the soft-delete flag.
type OrderRepository interface {
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	MarkDeleted(id string) error
}
