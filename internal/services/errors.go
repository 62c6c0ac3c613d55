package services

import "errors"

// Domain errors raised intentionally by the product and order workflows.
// Handlers map these onto HTTP status codes; anything else is treated as an
// internal error.
var (
	// ErrProductNotFound is raised when a stock adjustment or read targets a
	// product that does not exist (a missing resource).
	ErrProductNotFound = errors.New("product not found")

	// ErrOrderProductNotFound is raised when an order line item references an
	// unknown product. Unlike ErrProductNotFound this is a defect in the
	// order payload, so it maps to 400 rather than 404.
	ErrOrderProductNotFound = errors.New("product not found")

	// ErrInsufficientStock is raised when a line item requests more units
	// than the product has in stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrStockNegative is raised when a stock adjustment would drive the
	// stock counter below zero.
	ErrStockNegative = errors.New("stock cannot be negative")

	// ErrOrderNotFound is raised when a reversal or read targets an order
	// that does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderAlreadyReverted is raised when a reversal targets an order
	// whose stock has already been restored. Allowing a second reversal
	// would double-restore stock.
	ErrOrderAlreadyReverted = errors.New("order already reverted")
)
