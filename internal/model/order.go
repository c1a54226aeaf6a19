package model

import (
	"time"
)

// OrderStatus is the lifecycle state of an order. The happy path is
// linear: pending → confirmed → preparing → arriving → completed.
// Cancelled and rejected are terminal branches reachable from any
// non-terminal state.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusArriving  OrderStatus = "arriving"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRejected  OrderStatus = "rejected"
)

// Bag types for order packaging.
const (
	BagTypeNormal   = "normal"
	BagTypeDiscrete = "discrete"
)

// Order belongs to one user and one product. The monetary fields are a
// snapshot frozen at creation time; only Status and timestamps mutate
// after insert.
type Order struct {
	ID              uint        `json:"id" gorm:"primaryKey"`
	OrderNumber     string      `json:"order_number" gorm:"type:varchar(40);uniqueIndex;not null"`
	UserID          uint        `json:"user_id" gorm:"index;not null"`
	ProductID       uint        `json:"product_id" gorm:"index;not null"`
	Status          OrderStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	DeliveryAddress string      `json:"delivery_address" gorm:"type:varchar(500);not null"`
	AptSuite        string      `json:"apt_suite" gorm:"type:varchar(100)"`
	ScheduledAt     *time.Time  `json:"scheduled_at,omitempty"`
	BagType         string      `json:"bag_type" gorm:"type:varchar(20);default:'normal'"`
	Request         string      `json:"request" gorm:"type:text"`
	Subtotal        float64     `json:"subtotal" gorm:"not null"`
	Taxes           float64     `json:"taxes" gorm:"not null"`
	DeliveryFee     float64     `json:"delivery_fee" gorm:"not null"`
	Total           float64     `json:"total" gorm:"not null"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	// Relations
	User    User        `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Product Product     `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Items   []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// ValidBagType reports whether the given bag type is supported.
func ValidBagType(bagType string) bool {
	return bagType == BagTypeNormal || bagType == BagTypeDiscrete
}
