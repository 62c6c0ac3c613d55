package models

import "time"

// Product represents a single item in the inventory.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(24)"`
	Name        string    `json:"name" validate:"required,max=50"`
	Description string    `json:"description"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Stock       int       `json:"stock" validate:"gte=0"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
