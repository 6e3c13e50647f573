package product

import (
	"github.com/shopspring/decimal"

	"github.com/storefrontlabs/storefront-api/pkg/db/models"
)

// ProductDTO is the catalog representation returned to clients. Derived
// fields are recomputed on every read.
type ProductDTO struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Image       *string         `json:"image,omitempty"`
	InStock     bool            `json:"in_stock"`
}

// CatalogInfoDTO is the aggregate payload for the catalog info endpoint.
// MaxPrice serializes as null when the catalog is empty.
type CatalogInfoDTO struct {
	Products []ProductDTO     `json:"products"`
	Count    int64            `json:"count"`
	MaxPrice *decimal.Decimal `json:"max_price"`
}

// ListResult pairs one page of products with the total match count.
type ListResult struct {
	Products []ProductDTO
	Count    int64
}

// CreateProductInput holds the validated payload to create or replace a product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Image       *string
}

// UpdateProductInput holds optional mutation values for a partial update.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	Image       *string
}

// ToDTO maps the persistence model to its API shape.
func ToDTO(product *models.Product) ProductDTO {
	return ProductDTO{
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		Image:       product.Image,
		InStock:     product.InStock(),
	}
}

func toDTOs(rows []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, ToDTO(&rows[i]))
	}
	return dtos
}
