package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImageRef points at a stored image object. PublicID identifies the remote
// object so a replacement can delete its predecessor.
type ImageRef struct {
	URL      string `json:"url"`
	Alt      string `json:"alt"`
	PublicID string `json:"publicId"`
}

type Category struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:50;not null" json:"name"`
	Description  string    `gorm:"size:500" json:"description"`
	Image        *ImageRef `gorm:"type:jsonb;serializer:json" json:"image"`
	IsActive     bool      `gorm:"default:true;index" json:"isActive"`
	Featured     bool      `gorm:"default:false" json:"featured"`
	DisplayOrder int       `gorm:"default:0" json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
