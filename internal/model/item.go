package model

import (
	"time"
)

// Item is a sellable catalog entry owned by one product. Weight is
// unique within the owning product. Category and sub-category tags are
// many-to-many through junction tables.
type Item struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ProductID     uint      `json:"product_id" gorm:"uniqueIndex:idx_item_product_weight;not null"`
	Name          string    `json:"name" gorm:"type:varchar(150);not null"`
	Description   string    `json:"description" gorm:"type:text"`
	ImageURL      string    `json:"image_url" gorm:"type:varchar(500)"`
	Weight        float64   `json:"weight" gorm:"uniqueIndex:idx_item_product_weight;not null"`
	Price         float64   `json:"price" gorm:"not null"`
	Stock         int       `json:"stock" gorm:"default:0"`
	BrandID       *uint     `json:"brand_id,omitempty" gorm:"index"`
	PersonalityID *uint     `json:"personality_id,omitempty" gorm:"index"`
	Active        bool      `json:"active" gorm:"default:true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Product       Product       `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Brand         *Brand        `json:"brand,omitempty" gorm:"foreignKey:BrandID;constraint:OnDelete:SET NULL"`
	Personality   *Personality  `json:"personality,omitempty" gorm:"foreignKey:PersonalityID;constraint:OnDelete:SET NULL"`
	Categories    []Category    `json:"categories,omitempty" gorm:"many2many:item_categories;constraint:OnDelete:CASCADE"`
	SubCategories []SubCategory `json:"sub_categories,omitempty" gorm:"many2many:item_sub_categories;constraint:OnDelete:CASCADE"`
}
