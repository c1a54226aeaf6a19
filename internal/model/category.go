package model

import (
	"time"
)

// Category is a top-level catalog grouping owned by exactly one product.
// Names are unique within the owning product, never globally.
type Category struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ProductID    uint      `json:"product_id" gorm:"uniqueIndex:idx_category_product_name;not null"`
	Name         string    `json:"name" gorm:"type:varchar(100);uniqueIndex:idx_category_product_name;not null"`
	DisplayOrder int       `json:"display_order" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Product Product `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// SubCategory is a second-level grouping under a category. Names are
// unique per (product, parent category) pair.
type SubCategory struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ProductID    uint      `json:"product_id" gorm:"uniqueIndex:idx_subcategory_scope;not null"`
	CategoryID   uint      `json:"category_id" gorm:"uniqueIndex:idx_subcategory_scope;not null"`
	Name         string    `json:"name" gorm:"type:varchar(100);uniqueIndex:idx_subcategory_scope;not null"`
	DisplayOrder int       `json:"display_order" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Product  Product  `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Category Category `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}
