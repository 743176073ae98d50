package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/boscoapparel/shop/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Save(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// sortColumns whitelists the free-text sort strings the storefront sends.
var sortColumns = map[string]string{
	"createdAt":  "created_at asc",
	"-createdAt": "created_at desc",
	"price":      "price asc",
	"-price":     "price desc",
	"name":       "name asc",
	"-name":      "name desc",
}

func (r *ProductRepo) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Product{}).Where("status = ?", domain.ProductActive)

	if f.Category != "" {
		var cat domain.Category
		err := r.db.WithContext(ctx).First(&cat, "LOWER(name) = ?", strings.ToLower(f.Category)).Error
		if err == nil {
			q = q.Where("category_id = ?", cat.ID)
		} else if errors.Is(err, gorm.ErrRecordNotFound) {
			// unknown category name matches nothing
			q = q.Where("1 = 0")
		} else {
			return nil, 0, err
		}
	}
	if f.Featured != nil {
		q = q.Where("featured = ?", *f.Featured)
	}
	if f.Search != "" {
		like := "%" + strings.TrimSpace(f.Search) + "%"
		q = q.Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", like, like)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := sortColumns[strings.TrimSpace(f.Sort)]
	if !ok {
		order = "created_at desc"
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 10
	}
	var list []domain.Product
	if err := q.Order(order).
		Offset((f.Page - 1) * f.PageSize).Limit(f.PageSize).
		Preload("Category").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *ProductRepo) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.Product, error) {
	var list []domain.Product
	if err := r.db.WithContext(ctx).
		Where("category_id = ? AND status = ?", categoryID, domain.ProductActive).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) NewArrivals(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 6
	}
	var list []domain.Product
	if err := r.db.WithContext(ctx).
		Order("created_at desc").Limit(limit).
		Preload("Category").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) NameTaken(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ProductRepo) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("status = ?", domain.ProductActive).Count(&count).Error
	return count, err
}

func (r *ProductRepo) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// AdjustQuantity changes stock with a single guarded statement so two
// concurrent orders can never both take the last unit. The in-stock flag is
// recomputed in the same write.
func (r *ProductRepo) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	return adjustQuantity(r.db.WithContext(ctx), id, delta)
}

func adjustQuantity(tx *gorm.DB, id uuid.UUID, delta int) error {
	q := tx.Model(&domain.Product{}).Where("id = ?", id)
	if delta < 0 {
		q = q.Where("inventory_quantity >= ?", -delta)
	}
	res := q.Updates(map[string]any{
		"inventory_quantity": gorm.Expr("inventory_quantity + ?", delta),
		"inventory_in_stock": gorm.Expr("inventory_quantity + ? > 0", delta),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var p domain.Product
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProductMissing{ProductID: id.String()}
			}
			return err
		}
		return domain.ErrInsufficientStock{ProductName: p.Name}
	}
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Product{}, "id = ?", id).Error
}
