package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gudang/internal/models"
	"gudang/internal/repositories"
)

// placeholderCustomerID stands in for a real customer identity until
// authentication exists.
const placeholderCustomerID = "fake-customer-id"

// EventPublisher publishes order lifecycle events to a message broker.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// OrderService orchestrates order creation and reversal across product
// stock and order records, inside a single transaction per request.
type OrderService struct {
	orderRepo repositories.OrderRepository
	tx        repositories.TxManager
	events    EventPublisher // may be nil; publishing is then skipped
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, tx repositories.TxManager, events EventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		tx:        tx,
		events:    events,
	}
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
		}
		return nil, err
	}
	return order, nil
}

// CreateOrder atomically checks and decrements stock for every line item,
// in the order supplied by the caller, and persists the resulting order.
// If any line item references an unknown product or exceeds its stock, the
// whole transaction rolls back: no stock change and no order survive.
func (s *OrderService) CreateOrder(items []models.OrderItem) (*models.Order, error) {
	var order *models.Order

	err := s.tx.RunInTx(func(tx repositories.Tx) error {
		var totalAmount float64

		for _, item := range items {
			product, err := tx.Products.GetByIDForUpdate(item.ProductID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return fmt.Errorf("%w: %s", ErrOrderProductNotFound, item.ProductID)
				}
				return err
			}

			if product.Stock < item.Quantity {
				return fmt.Errorf("%w: product %s (requested %d, available %d)",
					ErrInsufficientStock, product.ID, item.Quantity, product.Stock)
			}

			product.Stock -= item.Quantity
			if err := tx.Products.Update(product); err != nil {
				return err
			}
			// Price at the time of order, not at read time later.
			totalAmount += product.Price * float64(item.Quantity)
		}

		order = &models.Order{
			ID:          models.NewID(),
			CustomerID:  placeholderCustomerID,
			Products:    items,
			TotalAmount: totalAmount,
			CreatedAt:   time.Now(),
		}
		return tx.Orders.Create(order)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent("order.created", order)
	return order, nil
}

// RevertOrder restores the stock an order consumed and marks the order
// soft-deleted, all inside one transaction. Products that no longer exist
// are skipped: they may have been removed since the order was placed, and
// that is not an error. An order can only be reverted once.
func (s *OrderService) RevertOrder(id string) error {
	var reverted *models.Order

	err := s.tx.RunInTx(func(tx repositories.Tx) error {
		order, err := tx.Orders.GetByID(id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
			}
			return err
		}
		if order.IsDeleted {
			return fmt.Errorf("%w: %s", ErrOrderAlreadyReverted, id)
		}

		for _, item := range order.Products {
			product, err := tx.Products.GetByIDForUpdate(item.ProductID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					continue
				}
				return err
			}
			product.Stock += item.Quantity
			if err := tx.Products.Update(product); err != nil {
				return err
			}
		}

		reverted = order
		return tx.Orders.MarkDeleted(order.ID)
	})
	if err != nil {
		return err
	}

	s.publishEvent("order.reverted", reverted)
	return nil
}

// publishEvent publishes an order lifecycle event after the transaction has
// committed. Publishing failures are logged, never surfaced: the order state
// is already durable.
func (s *OrderService) publishEvent(eventType string, order *models.Order) {
	if s.events == nil {
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"orderId":     order.ID,
		"customerId":  order.CustomerID,
		"totalAmount": order.TotalAmount,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for order %s: %v", eventType, order.ID, err)
		return
	}

	if err := s.events.Publish(eventType, body); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", eventType, order.ID, err)
	}
}
