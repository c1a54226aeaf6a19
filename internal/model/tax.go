package model

import (
	"time"
)

// Tax types. Percentage taxes are computed against the cart subtotal,
// fixed taxes are added as-is. Every tax row is applied independently,
// so the order of application never changes the total.
const (
	TaxTypePercentage = "percentage"
	TaxTypeFixed      = "fixed"
)

// Tax is a per-product tax rule applied during checkout.
type Tax struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"uniqueIndex:idx_tax_product_name;not null"`
	Name      string    `json:"name" gorm:"type:varchar(100);uniqueIndex:idx_tax_product_name;not null"`
	Type      string    `json:"type" gorm:"type:varchar(20);not null"`
	Value     float64   `json:"value" gorm:"not null"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product Product `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// ValidTaxType reports whether the given tax type is supported.
func ValidTaxType(taxType string) bool {
	return taxType == TaxTypePercentage || taxType == TaxTypeFixed
}
