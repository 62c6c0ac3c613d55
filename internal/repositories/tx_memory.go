package repositories

import "sync"

// MemoryTxManager implements TxManager over the in-memory repositories. It
// serializes transactions with a single mutex and restores a pre-transaction
// snapshot when fn fails, giving the same all-or-nothing guarantee as a
// database transaction.
type MemoryTxManager struct {
	mu       sync.Mutex
	products *MemoryProductRepository
	orders   *MemoryOrderRepository
}

// NewMemoryTxManager creates a new instance of MemoryTxManager.
func NewMemoryTxManager(products *MemoryProductRepository, orders *MemoryOrderRepository) *MemoryTxManager {
	return &MemoryTxManager{
		products: products,
		orders:   orders,
	}
}

// RunInTx snapshots both repositories, runs fn, and rolls the state back if
// fn returns an error.
func (m *MemoryTxManager) RunInTx(fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	productSnap := m.products.snapshot()
	orderSnap := m.orders.snapshot()

	if err := fn(Tx{Products: m.products, Orders: m.orders}); err != nil {
		m.products.restore(productSnap)
		m.orders.restore(orderSnap)
		return err
	}
	return nil
}
