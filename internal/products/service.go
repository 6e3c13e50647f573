package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/storefrontlabs/storefront-api/pkg/db"
	"github.com/storefrontlabs/storefront-api/pkg/db/models"
	pkgerrors "github.com/storefrontlabs/storefront-api/pkg/errors"
	"github.com/storefrontlabs/storefront-api/pkg/pagination"
)

// Service exposes catalog operations.
type Service interface {
	List(ctx context.Context, filters ListFilters, page pagination.Params) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Replace(ctx context.Context, id uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	Patch(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Info(ctx context.Context) (*CatalogInfoDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, page pagination.Params) (*ListResult, error) {
	rows, count, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return &ListResult{Products: toDTOs(rows), Count: count}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := ToDTO(row)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	row := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Image:       input.Image,
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert product")
	}
	dto := ToDTO(created)
	return &dto, nil
}

func (s *service) Replace(ctx context.Context, id uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	row.Name = strings.TrimSpace(input.Name)
	row.Description = input.Description
	row.Price = input.Price
	row.Stock = input.Stock
	row.Image = input.Image

	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	dto := ToDTO(updated)
	return &dto, nil
}

func (s *service) Patch(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty").
				WithDetails(map[string]any{"field": "name"})
		}
		row.Name = trimmed
	}
	if input.Description != nil {
		row.Description = *input.Description
	}
	if input.Price != nil {
		if !input.Price.IsPositive() {
			return nil, errPriceNotPositive()
		}
		row.Price = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, errStockNegative()
		}
		row.Stock = *input.Stock
	}
	if input.Image != nil {
		row.Image = input.Image
	}

	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	dto := ToDTO(updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) Info(ctx context.Context) (*CatalogInfoDTO, error) {
	info, err := s.repo.Info(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate catalog info")
	}
	return &CatalogInfoDTO{
		Products: toDTOs(info.Products),
		Count:    info.Count,
		MaxPrice: info.MaxPrice,
	}, nil
}

func validateCreateInput(input CreateProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required").
			WithDetails(map[string]any{"field": "name"})
	}
	if !input.Price.IsPositive() {
		return errPriceNotPositive()
	}
	if input.Stock < 0 {
		return errStockNegative()
	}
	return nil
}

func errPriceNotPositive() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero").
		WithDetails(map[string]any{"field": "price"})
}

func errStockNegative() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative").
		WithDetails(map[string]any{"field": "stock"})
}
