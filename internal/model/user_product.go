package model

import (
	"time"
)

// UserProduct associates a user with a product. The pair defines both
// which storefronts the user may authenticate against and, for scoped
// admins, which catalogs they may administer.
type UserProduct struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_user_product;not null"`
	ProductID uint      `json:"product_id" gorm:"uniqueIndex:idx_user_product;not null"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User    User    `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}
