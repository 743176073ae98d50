package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/boscoapparel/shop/internal/domain"
)

type fakeProductRepo struct {
	products map[uuid.UUID]*domain.Product
}

func newFakeProductRepo(ps ...*domain.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[uuid.UUID]*domain.Product{}}
	for _, p := range ps {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Save(_ context.Context, p *domain.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	p, okp := r.products[id]
	if !okp {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) List(_ context.Context, _ domain.ProductFilter) ([]domain.Product, int64, error) {
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) ListByCategory(_ context.Context, categoryID uuid.UUID) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.products {
		if p.CategoryID == categoryID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) NewArrivals(_ context.Context, limit int) ([]domain.Product, error) {
	out, _, _ := r.List(context.Background(), domain.ProductFilter{})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeProductRepo) NameTaken(_ context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	for _, p := range r.products {
		if excludeID != nil && p.ID == *excludeID {
			continue
		}
		if strings.EqualFold(p.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProductRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.Status == domain.ProductActive {
			n++
		}
	}
	return n, nil
}

func (r *fakeProductRepo) CountByCategory(_ context.Context, categoryID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *fakeProductRepo) AdjustQuantity(_ context.Context, id uuid.UUID, delta int) error {
	p, okp := r.products[id]
	if !okp {
		return domain.ErrProductMissing{ProductID: id.String()}
	}
	next := p.Inventory.Quantity + delta
	if next < 0 {
		return domain.ErrInsufficientStock{ProductName: p.Name}
	}
	p.SetQuantity(next)
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) quantity(id uuid.UUID) int {
	return r.products[id].Inventory.Quantity
}

// fakeOrderRepo mimics the transactional repo: Place decrements stock through
// the product repo and assigns sequential order numbers.
type fakeOrderRepo struct {
	products *fakeProductRepo
	orders   map[uuid.UUID]*domain.Order
	shipping map[uuid.UUID]*domain.ShippingData
	seq      int
}

func newFakeOrderRepo(products *fakeProductRepo) *fakeOrderRepo {
	return &fakeOrderRepo{
		products: products,
		orders:   map[uuid.UUID]*domain.Order{},
		shipping: map[uuid.UUID]*domain.ShippingData{},
	}
}

func (r *fakeOrderRepo) Place(ctx context.Context, o *domain.Order, ship *domain.ShippingData) error {
	for _, it := range o.Items {
		if err := r.products.AdjustQuantity(ctx, it.ProductID, -it.Qty); err != nil {
			return err
		}
	}
	r.seq++
	o.OrderNumber = fmt.Sprintf("eb%03d", r.seq)
	o.ShippingDataID = ship.ID
	r.shipping[ship.ID] = ship
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	o, oko := r.orders[id]
	if !oko {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) FindByNumber(_ context.Context, orderNumber string) (*domain.Order, error) {
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeOrderRepo) List(_ context.Context, _ domain.OrderFilter) ([]domain.Order, int64, error) {
	out := make([]domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) Save(_ context.Context, o *domain.Order) error {
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) SaveWithRestock(ctx context.Context, o *domain.Order) error {
	for _, it := range o.Items {
		if err := r.products.AdjustQuantity(ctx, it.ProductID, it.Qty); err != nil {
			return err
		}
	}
	return r.Save(ctx, o)
}

func (r *fakeOrderRepo) FindShipping(_ context.Context, id uuid.UUID) (*domain.ShippingData, error) {
	s, oks := r.shipping[id]
	if !oks {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

type fakeShippingRepo struct{ orders *fakeOrderRepo }

func (r *fakeShippingRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.ShippingData, error) {
	return r.orders.FindShipping(ctx, id)
}

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*domain.Category
}

func newFakeCategoryRepo(cs ...*domain.Category) *fakeCategoryRepo {
	r := &fakeCategoryRepo{categories: map[uuid.UUID]*domain.Category{}}
	for _, c := range cs {
		r.categories[c.ID] = c
	}
	return r
}

func (r *fakeCategoryRepo) Save(_ context.Context, c *domain.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Category, error) {
	c, okc := r.categories[id]
	if !okc {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) NameTaken(_ context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	for _, c := range r.categories {
		if excludeID != nil && c.ID == *excludeID {
			continue
		}
		if strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCategoryRepo) ListActive(_ context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range r.categories {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Save(_ context.Context, u *domain.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, oku := r.users[id]
	if !oku {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindActiveByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.IsActive && strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) ListActive(_ context.Context, _, _ int) ([]domain.User, int64, error) {
	var out []domain.User
	for _, u := range r.users {
		if u.IsActive {
			out = append(out, *u)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	u, oku := r.users[id]
	if !oku {
		return domain.ErrNotFound
	}
	u.IsActive = false
	return nil
}

type fakeImageStore struct {
	saved   []string
	deleted []string
	failAll bool
}

func (s *fakeImageStore) Save(_ context.Context, filename string, _ []byte, alt string) (domain.ImageRef, error) {
	if s.failAll {
		return domain.ImageRef{}, fmt.Errorf("store unavailable")
	}
	s.saved = append(s.saved, filename)
	return domain.ImageRef{URL: "/uploads/" + filename, Alt: alt, PublicID: filename}, nil
}

func (s *fakeImageStore) Delete(_ context.Context, publicID string) error {
	if s.failAll {
		return fmt.Errorf("store unavailable")
	}
	s.deleted = append(s.deleted, publicID)
	return nil
}
