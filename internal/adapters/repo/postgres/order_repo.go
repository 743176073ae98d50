package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/boscoapparel/shop/internal/domain"
)

// Counter backs the order-number sequence. A single guarded row per name
// replaces the old count-the-collection scheme, which raced under
// concurrent checkouts.
type Counter struct {
	Name  string `gorm:"primaryKey;size:40"`
	Value int64  `gorm:"not null"`
}

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

func nextOrderNumber(tx *gorm.DB) (string, error) {
	var value int64
	err := tx.Raw(`INSERT INTO counters (name, value) VALUES ('orders', 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value`).Scan(&value).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("eb%03d", value), nil
}

// Place materializes a checkout: shipping record, guarded stock decrements
// and the order row all commit or roll back together.
func (r *OrderRepo) Place(ctx context.Context, o *domain.Order, ship *domain.ShippingData) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ship.ID == uuid.Nil {
			ship.ID = uuid.New()
		}
		if err := tx.Create(ship).Error; err != nil {
			return err
		}
		for _, it := range o.Items {
			if err := adjustQuantity(tx, it.ProductID, -it.Qty); err != nil {
				return err
			}
		}
		num, err := nextOrderNumber(tx)
		if err != nil {
			return err
		}
		o.OrderNumber = num
		o.ShippingDataID = ship.ID
		if o.ID == uuid.Nil {
			o.ID = uuid.New()
		}
		for i := range o.Items {
			if o.Items[i].ID == uuid.Nil {
				o.Items[i].ID = uuid.New()
			}
			o.Items[i].OrderID = o.ID
		}
		return tx.Create(o).Error
	})
}

func (r *OrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").Preload("ShippingData").
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) FindByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).
		Preload("Items.Product").Preload("ShippingData").
		First(&o, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Order{})

	if f.Status != "" && f.Status != "All" {
		q = q.Where("orders.status = ?", f.Status)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		q = q.Joins("LEFT JOIN shipping_data ON shipping_data.id = orders.shipping_data_id").
			Where(`orders.order_number ILIKE ? OR orders.payment_type ILIKE ? OR orders.payment_status ILIKE ?
				OR shipping_data.name ILIKE ? OR shipping_data.email ILIKE ? OR shipping_data.phone ILIKE ?`,
				like, like, like, like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 10
	}
	var list []domain.Order
	if err := q.Order("orders.created_at desc").
		Offset((f.Page - 1) * f.Limit).Limit(f.Limit).
		Preload("ShippingData").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *OrderRepo) Save(ctx context.Context, o *domain.Order) error {
	o.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Omit("Items", "ShippingData").Save(o).Error
}

// SaveWithRestock commits a cancellation together with the inventory it
// returns, so a crash can never lose the restock.
func (r *OrderRepo) SaveWithRestock(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range o.Items {
			if err := adjustQuantity(tx, it.ProductID, it.Qty); err != nil {
				return err
			}
		}
		return tx.Omit("Items", "ShippingData").Save(o).Error
	})
}

type ShippingRepo struct{ db *gorm.DB }

func NewShippingRepo(db *gorm.DB) *ShippingRepo { return &ShippingRepo{db: db} }

func (r *ShippingRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.ShippingData, error) {
	var s domain.ShippingData
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
