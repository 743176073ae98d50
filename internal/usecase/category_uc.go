package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/boscoapparel/shop/internal/domain"
)

// Upload is a decoded multipart file ready for the image store.
type Upload struct {
	Filename string
	Data     []byte
}

type CategoryUC struct {
	Categories domain.CategoryRepo
	Products   domain.ProductRepo
	Images     domain.ImageStore
}

type CategoryInput struct {
	Name         string
	Description  *string
	IsActive     *bool
	Featured     *bool
	DisplayOrder *int
	Image        *Upload
	RemoveImage  bool
}

func (uc *CategoryUC) List(ctx context.Context) ([]domain.Category, error) {
	return uc.Categories.ListActive(ctx)
}

func (uc *CategoryUC) Get(ctx context.Context, id uuid.UUID) (*domain.Category, []domain.Product, error) {
	c, err := uc.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	products, err := uc.Products.ListByCategory(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return c, products, nil
}

func (uc *CategoryUC) Create(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ValidationError("Category name is required")
	}
	taken, err := uc.Categories.NameTaken(ctx, name, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrDuplicateName
	}

	c := &domain.Category{
		ID:           uuid.New(),
		Name:         name,
		IsActive:     true,
		Featured:     false,
		DisplayOrder: 0,
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.Featured != nil {
		c.Featured = *in.Featured
	}
	if in.DisplayOrder != nil {
		c.DisplayOrder = *in.DisplayOrder
	}
	if in.Image != nil {
		ref, err := uc.Images.Save(ctx, in.Image.Filename, in.Image.Data, name)
		if err != nil {
			return nil, domain.ValidationError("Error uploading image")
		}
		c.Image = &ref
	}
	if err := uc.Categories.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *CategoryUC) Update(ctx context.Context, id uuid.UUID, in CategoryInput) (*domain.Category, error) {
	c, err := uc.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" && name != c.Name {
		taken, err := uc.Categories.NameTaken(ctx, name, &id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrDuplicateName
		}
		c.Name = name
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.Featured != nil {
		c.Featured = *in.Featured
	}
	if in.DisplayOrder != nil {
		c.DisplayOrder = *in.DisplayOrder
	}

	if in.RemoveImage && c.Image != nil {
		uc.dropImage(ctx, c.Image.PublicID)
		c.Image = nil
	}
	if in.Image != nil {
		ref, err := uc.Images.Save(ctx, in.Image.Filename, in.Image.Data, c.Name)
		if err != nil {
			return nil, domain.ValidationError("Error uploading new image")
		}
		if c.Image != nil {
			uc.dropImage(ctx, c.Image.PublicID)
		}
		c.Image = &ref
	}

	if err := uc.Categories.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *CategoryUC) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := uc.Categories.FindByID(ctx, id)
	if err != nil {
		return err
	}
	count, err := uc.Products.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrCategoryInUse{Count: count}
	}
	if err := uc.Categories.Delete(ctx, id); err != nil {
		return err
	}
	if c.Image != nil {
		uc.dropImage(ctx, c.Image.PublicID)
	}
	return nil
}

// dropImage is best-effort: losing a stale stored object must never fail the
// primary write.
func (uc *CategoryUC) dropImage(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}
	if err := uc.Images.Delete(ctx, publicID); err != nil {
		log.Warn().Err(err).Str("public_id", publicID).Msg("delete category image")
	}
}
