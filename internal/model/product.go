package model

import (
	"strings"
	"time"
)

// Product represents a storefront tenant. Each product owns its own
// catalog, taxes and orders, and is bound to exactly one HTTP domain.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	Domain      string    `json:"domain" gorm:"type:varchar(255);uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NormalizeDomain canonicalizes a domain string for storage and lookup.
// Matching is case-insensitive and ignores surrounding whitespace.
func NormalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

// NormalizeName canonicalizes a product name for uniqueness checks.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
