package services

import (
	"errors"
	"fmt"

	"gudang/internal/models"
	"gudang/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
	tx   repositories.TxManager
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, tx repositories.TxManager) *ProductService {
	return &ProductService{
		repo: repo,
		tx:   tx,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// CreateProduct persists a new product. Input validation happens at the
// handler layer; the repository assigns the identifier.
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}

// AdjustStock applies a signed delta to a product's stock inside one
// transaction. The adjustment is rejected if the product does not exist or
// if the new stock would be negative; stock is left unchanged in both cases.
func (s *ProductService) AdjustStock(id string, delta int) (*models.Product, error) {
	var updated *models.Product

	err := s.tx.RunInTx(func(tx repositories.Tx) error {
		product, err := tx.Products.GetByIDForUpdate(id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrProductNotFound, id)
			}
			return err
		}

		newStock := product.Stock + delta
		if newStock < 0 {
			return fmt.Errorf("%w: product %s (stock %d, delta %d)", ErrStockNegative, id, product.Stock, delta)
		}

		product.Stock = newStock
		if err := tx.Products.Update(product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
