package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ProductFilter struct {
	Page     int
	PageSize int
	Category string
	Featured *bool
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
}

type OrderFilter struct {
	Page   int
	Limit  int
	Status string
	Search string
}

type CategoryRepo interface {
	Save(ctx context.Context, c *Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	// NameTaken matches case-insensitively, skipping excludeID when non-nil.
	NameTaken(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	ListActive(ctx context.Context) ([]Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProductRepo interface {
	Save(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	List(ctx context.Context, f ProductFilter) ([]Product, int64, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]Product, error)
	NewArrivals(ctx context.Context, limit int) ([]Product, error)
	NameTaken(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	CountActive(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
	// AdjustQuantity applies an atomic stock delta, recomputing the in-stock
	// flag in the same statement. Negative deltas fail on insufficient stock.
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type OrderRepo interface {
	// Place persists the shipping record, decrements stock per line item and
	// inserts the order in a single transaction. The order number is assigned
	// from an atomic sequence before insert.
	Place(ctx context.Context, o *Order, ship *ShippingData) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByNumber(ctx context.Context, orderNumber string) (*Order, error)
	List(ctx context.Context, f OrderFilter) ([]Order, int64, error)
	Save(ctx context.Context, o *Order) error
	// SaveWithRestock saves the order and returns its line quantities to
	// inventory in the same transaction. Used by cancellation.
	SaveWithRestock(ctx context.Context, o *Order) error
}

type ShippingRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ShippingData, error)
}

type UserRepo interface {
	Create(ctx context.Context, u *User) error
	Save(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindActiveByEmail(ctx context.Context, email string) (*User, error)
	ListActive(ctx context.Context, page, limit int) ([]User, int64, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// StatsRepo answers the read-only dashboard queries. No writes, idempotent.
type StatsRepo interface {
	SalesStats(ctx context.Context) (*SalesStats, error)
	GraphStats(ctx context.Context, now time.Time) (*GraphStats, error)
}

// ImageStore abstracts the object storage the catalog images live in.
type ImageStore interface {
	Save(ctx context.Context, filename string, data []byte, alt string) (ImageRef, error)
	Delete(ctx context.Context, publicID string) error
}
