package repositories

import (
	"fmt"
	"sync"

	"gudang/internal/models"
)

// MemoryProductRepository is an in-memory implementation of
// ProductRepository. It keeps products in insertion order so GetAll is
// deterministic.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]models.Product
	ids      []string
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all products in insertion order.
func (r *MemoryProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.ids))
	for _, id := range r.ids {
		productList = append(productList, r.products[id])
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	return &product, nil
}

// GetByIDForUpdate is equivalent to GetByID; the MemoryTxManager serializes
// transactions with a single lock, so no row locking is needed.
func (r *MemoryProductRepository) GetByIDForUpdate(id string) (*models.Product, error) {
	return r.GetByID(id)
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = models.NewID()
	}
	if _, exists := r.products[product.ID]; !exists {
		r.ids = append(r.ids, product.ID)
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MemoryProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrNotFound)
	}
	r.products[product.ID] = *product
	return nil
}

func (r *MemoryProductRepository) snapshot() map[string]models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := make(map[string]models.Product, len(r.products))
	for id, p := range r.products {
		snap[id] = p
	}
	return snap
}

func (r *MemoryProductRepository) restore(snap map[string]models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = snap
	ids := make([]string, 0, len(snap))
	for _, id := range r.ids {
		if _, ok := snap[id]; ok {
			ids = append(ids, id)
		}
	}
	r.ids = ids
}
