package model

import (
	"time"

	"github.com/google/uuid"
)

// Product represents an item in the storefront catalogue. Prices are stored
// in paise (currency minor units) everywhere in the system.
type Product struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	PricePaise int64     `json:"pricePaise" db:"price_paise"`
	Image      string    `json:"image" db:"image"`
	Category   string    `json:"category" db:"category"`
	Stock      int       `json:"stock" db:"stock"`
	Featured   bool      `json:"featured" db:"featured"`
	Published  bool      `json:"published" db:"published"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// ProductRequest represents the payload for creating or updating a product.
type ProductRequest struct {
	Name       string `json:"name"`
	PricePaise int64  `json:"pricePaise"`
	Image      string `json:"image"`
	Category   string `json:"category"`
	Stock      int    `json:"stock"`
	Featured   bool   `json:"featured"`
	Published  bool   `json:"published"`
}

// ProductFilter narrows catalogue queries.
type ProductFilter struct {
	Category      string
	FeaturedOnly  bool
	PublishedOnly bool
	Limit         int
	Offset        int
}
