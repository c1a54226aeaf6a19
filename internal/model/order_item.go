package model

import (
	"time"
)

// OrderItem is a denormalized snapshot of a catalog item at order time.
// Later catalog edits or deletions never alter historical orders.
type OrderItem struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OrderID     uint      `json:"order_id" gorm:"index;not null"`
	Name        string    `json:"name" gorm:"type:varchar(150);not null"`
	Description string    `json:"description" gorm:"type:text"`
	ImageURL    string    `json:"image_url" gorm:"type:varchar(500)"`
	Price       float64   `json:"price" gorm:"not null"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	Subtotal    float64   `json:"subtotal" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`

	Order Order `json:"-" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}
