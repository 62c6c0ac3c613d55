package repositories

import (
	"fmt"
	"sync"
	"time"

	"gudang/internal/models"
)

// MemoryOrderRepository is an in-memory implementation of OrderRepository.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]models.Order
	ids    []string
}

// NewMemoryOrderRepository creates a new instance of MemoryOrderRepository.
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// GetAll returns all orders in insertion order.
func (r *MemoryOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.ids))
	for _, id := range r.ids {
		orderList = append(orderList, copyOrder(r.orders[id]))
	}
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MemoryOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	order = copyOrder(order)
	return &order, nil
}

// Create adds a new order.
func (r *MemoryOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = models.NewID()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if _, exists := r.orders[order.ID]; !exists {
		r.ids = append(r.ids, order.ID)
	}
	r.orders[order.ID] = copyOrder(*order)
	return nil
}

// MarkDeleted sets the soft-delete flag on an order.
func (r *MemoryOrderRepository) MarkDeleted(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	order.IsDeleted = true
	r.orders[id] = order
	return nil
}

func (r *MemoryOrderRepository) snapshot() map[string]models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := make(map[string]models.Order, len(r.orders))
	for id, o := range r.orders {
		snap[id] = copyOrder(o)
	}
	return snap
}

func (r *MemoryOrderRepository) restore(snap map[string]models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders = snap
	ids := make([]string, 0, len(snap))
	for _, id := range r.ids {
		if _, ok := snap[id]; ok {
			ids = append(ids, id)
		}
	}
	r.ids = ids
}

// copyOrder clones the line-item slice so stored orders never alias
// caller-held slices.
func copyOrder(o models.Order) models.Order {
	items := make([]models.OrderItem, len(o.Products))
	copy(items, o.Products)
	o.Products = items
	return o
}
