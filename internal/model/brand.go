package model

import (
	"time"
)

// Brand is a catalog brand owned by one product.
type Brand struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"uniqueIndex:idx_brand_product_name;not null"`
	Name      string    `json:"name" gorm:"type:varchar(100);uniqueIndex:idx_brand_product_name;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product Product `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// Personality is a secondary brand-like label owned by one product.
type Personality struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"uniqueIndex:idx_personality_product_name;not null"`
	Name      string    `json:"name" gorm:"type:varchar(100);uniqueIndex:idx_personality_product_name;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product Product `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}
