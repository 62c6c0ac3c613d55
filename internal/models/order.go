package models

import "time"

// OrderItem is a single line of an order. ProductID is a weak reference:
// the product may be deleted independently of the order history, so no
// foreign key constraint is declared.
type OrderItem struct {
	ID        uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID   string `json:"-" gorm:"index;type:varchar(24)"`
	ProductID string `json:"productId" gorm:"type:varchar(24)"`
	Quantity  int    `json:"quantity"`
}

// Order represents a customer order. Reverting an order sets IsDeleted
// rather than removing the row, so order history is never lost.
type Order struct {
	ID          string      `json:"id" gorm:"primaryKey;type:varchar(24)"`
	CustomerID  string      `json:"customerId"`
	Products    []OrderItem `json:"products" gorm:"foreignKey:OrderID"`
	TotalAmount float64     `json:"totalAmount"`
	IsDeleted   bool        `json:"isDeleted"`
	CreatedAt   time.Time   `json:"createdAt"`
}
