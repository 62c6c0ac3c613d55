package repositories

import "gorm.io/gorm"

// Tx bundles the repositories bound to one database transaction.
type Tx struct {
	Products ProductRepository
	Orders   OrderRepository
}

// TxManager runs a function inside a single atomic transaction. The
// transaction commits when fn returns nil and rolls back when it returns
// an error, so a failure part-way through leaves no visible writes.
type TxManager interface {
	RunInTx(fn func(tx Tx) error) error
}

// GORMTxManager implements TxManager on top of GORM's transaction support.
type GORMTxManager struct {
	db *gorm.DB
}

// NewGORMTxManager creates a new instance of GORMTxManager.
func NewGORMTxManager(db *gorm.DB) *GORMTxManager {
	return &GORMTxManager{db: db}
}

// RunInTx opens a transaction and hands fn repositories bound to it. GORM
// commits on a nil return and rolls back on error or panic, which
// guarantees exactly one of commit/abort on every exit path.
func (m *GORMTxManager) RunInTx(fn func(tx Tx) error) error {
	return m.db.Transaction(func(txDB *gorm.DB) error {
		return fn(Tx{
			Products: NewGORMProductRepository(txDB),
			Orders:   NewGORMOrderRepository(txDB),
		})
	})
}
