package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-api/pkg/db/models"
)

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Description: "catalog fixture",
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
