package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/boscoapparel/shop/internal/domain"
)

type ProductUC struct {
	Products   domain.ProductRepo
	Categories domain.CategoryRepo
	Images     domain.ImageStore
}

type ProductInput struct {
	Name            string
	Description     *string
	Price           *float64
	DiscountPercent *float64
	CategoryID      *uuid.UUID
	Status          *domain.ProductStatus
	Featured        *bool
	Quantity        *int
	Files           []Upload
	ImagesToDelete  []string
}

func (uc *ProductUC) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	if f.PageSize == 0 {
		f.PageSize = 10
	}
	return uc.Products.List(ctx, f)
}

func (uc *ProductUC) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return uc.Products.FindByID(ctx, id)
}

func (uc *ProductUC) NewArrivals(ctx context.Context, limit int) ([]domain.Product, error) {
	return uc.Products.NewArrivals(ctx, limit)
}

func (uc *ProductUC) CountActive(ctx context.Context) (int64, error) {
	return uc.Products.CountActive(ctx)
}

func (uc *ProductUC) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ValidationError("Product name is required")
	}
	if in.Description == nil || strings.TrimSpace(*in.Description) == "" {
		return nil, domain.ValidationError("Product description is required")
	}
	if in.Price == nil || *in.Price < 0 {
		return nil, domain.ValidationError("Product price is required")
	}
	if in.CategoryID == nil {
		return nil, domain.ValidationError("Product category is required")
	}
	if _, err := uc.Categories.FindByID(ctx, *in.CategoryID); err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ValidationError("Category not found")
		}
		return nil, err
	}
	taken, err := uc.Products.NameTaken(ctx, name, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrDuplicateName
	}

	p := &domain.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(*in.Description),
		Price:       *in.Price,
		CategoryID:  *in.CategoryID,
		Status:      domain.ProductActive,
		Images:      []domain.ImageRef{},
	}
	if in.DiscountPercent != nil {
		p.DiscountPercent = *in.DiscountPercent
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	qty := 0
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	p.SetQuantity(qty)
	p.Images = append(p.Images, uc.storeUploads(ctx, in.Files, name)...)

	if err := uc.Products.Save(ctx, p); err != nil {
		return nil, err
	}
	return uc.Products.FindByID(ctx, p.ID)
}

func (uc *ProductUC) Update(ctx context.Context, id uuid.UUID, in ProductInput) (*domain.Product, error) {
	p, err := uc.Products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.CategoryID != nil {
		if _, err := uc.Categories.FindByID(ctx, *in.CategoryID); err != nil {
			if err == domain.ErrNotFound {
				return nil, domain.ValidationError("Category not found")
			}
			return nil, err
		}
		p.CategoryID = *in.CategoryID
		p.Category = nil
	}
	if name := strings.TrimSpace(in.Name); name != "" && name != p.Name {
		taken, err := uc.Products.NameTaken(ctx, name, &id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrDuplicateName
		}
		p.Name = name
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.DiscountPercent != nil {
		p.DiscountPercent = *in.DiscountPercent
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.Quantity != nil {
		p.SetQuantity(*in.Quantity)
	}

	if len(in.ImagesToDelete) > 0 {
		drop := map[string]bool{}
		for _, publicID := range in.ImagesToDelete {
			drop[publicID] = true
			if err := uc.Images.Delete(ctx, publicID); err != nil {
				log.Warn().Err(err).Str("public_id", publicID).Msg("delete product image")
			}
		}
		kept := p.Images[:0]
		for _, img := range p.Images {
			if !drop[img.PublicID] {
				kept = append(kept, img)
			}
		}
		p.Images = kept
	}
	p.Images = append(p.Images, uc.storeUploads(ctx, in.Files, p.Name)...)

	if err := uc.Products.Save(ctx, p); err != nil {
		return nil, err
	}
	return uc.Products.FindByID(ctx, id)
}

func (uc *ProductUC) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := uc.Products.FindByID(ctx, id); err != nil {
		return err
	}
	return uc.Products.Delete(ctx, id)
}

// UpdateInventory overwrites the stock count; the in-stock flag follows.
func (uc *ProductUC) UpdateInventory(ctx context.Context, id uuid.UUID, quantity int) (*domain.Product, error) {
	p, err := uc.Products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.SetQuantity(quantity)
	if err := uc.Products.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// storeUploads saves what it can; a bad file is logged and skipped, the rest
// of the batch still lands.
func (uc *ProductUC) storeUploads(ctx context.Context, files []Upload, alt string) []domain.ImageRef {
	refs := make([]domain.ImageRef, 0, len(files))
	for _, f := range files {
		if len(f.Data) == 0 {
			continue
		}
		ref, err := uc.Images.Save(ctx, f.Filename, f.Data, alt)
		if err != nil {
			log.Warn().Err(err).Str("file", f.Filename).Msg("store product image")
			continue
		}
		refs = append(refs, ref)
	}
	return refs
}
