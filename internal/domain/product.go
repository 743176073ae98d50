package domain

import (
	"time"

	"github.com/google/uuid"
)

type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

// Inventory keeps the persisted in-stock flag for compatibility with the
// listing contract. Call SetQuantity; never write the fields independently.
type Inventory struct {
	Quantity int  `gorm:"default:0" json:"quantity"`
	InStock  bool `gorm:"default:false" json:"inStock"`
}

type Product struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string        `gorm:"size:100;not null" json:"name"`
	Description     string        `gorm:"size:1000;not null" json:"description"`
	Price           float64       `gorm:"type:decimal(12,2);not null" json:"price"`
	DiscountPercent float64       `gorm:"type:decimal(5,2);default:0" json:"discountPercent"`
	CategoryID      uuid.UUID     `gorm:"type:uuid;index;not null" json:"-"`
	Category        *Category     `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Images          []ImageRef    `gorm:"type:jsonb;serializer:json" json:"images"`
	Inventory       Inventory     `gorm:"embedded;embeddedPrefix:inventory_" json:"inventory"`
	Featured        bool          `gorm:"default:false" json:"featured"`
	Status          ProductStatus `gorm:"type:varchar(10);default:'active';index" json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// SetQuantity is the single write path for stock so the in-stock flag can
// never drift from the count.
func (p *Product) SetQuantity(qty int) {
	if qty < 0 {
		qty = 0
	}
	p.Inventory.Quantity = qty
	p.Inventory.InStock = qty > 0
}

// SalePrice is the authoritative unit price orders are totalled from.
func (p *Product) SalePrice() float64 {
	if p.DiscountPercent <= 0 {
		return p.Price
	}
	return p.Price * (1 - p.DiscountPercent/100)
}
