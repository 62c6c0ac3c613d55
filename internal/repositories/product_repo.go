package repositories

import (
	"gudang/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	// GetByIDForUpdate behaves like GetByID but locks the row for the
	// duration of the surrounding transaction on backends that support it.
	GetByIDForUpdate(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
}
