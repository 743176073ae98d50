package domain

import (
	"time"

	"github.com/google/uuid"
)

// ShippingData is a denormalized contact/address snapshot captured per order.
// Records are immutable once written and never deduplicated across orders.
type ShippingData struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:140;not null" json:"name"`
	Email     string    `gorm:"size:140" json:"email"`
	Phone     string    `gorm:"size:50;not null" json:"phone"`
	Address   string    `gorm:"size:255;not null" json:"address"`
	City      string    `gorm:"size:100;not null" json:"city"`
	ZipCode   string    `gorm:"size:20" json:"zipCode"`
	Country   string    `gorm:"size:80;not null" json:"country"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ShippingData) TableName() string { return "shipping_data" }
