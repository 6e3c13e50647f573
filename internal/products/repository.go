package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-api/pkg/db/models"
	"github.com/storefrontlabs/storefront-api/pkg/pagination"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads a product regardless of stock level.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update persists the full product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product by ID. Order items referencing it cascade away.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns one page of in-stock products matching the filters, plus the
// total count of matches. The stock gate applies only here, never on detail
// reads.
func (r *Repository) List(ctx context.Context, filters ListFilters, page pagination.Params) ([]models.Product, int64, error) {
	qb := applyFilters(r.db.WithContext(ctx).Model(&models.Product{}), filters).
		Where("stock > 0")

	var count int64
	if err := qb.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if filters.Ordering != nil {
		direction := "ASC"
		if filters.Ordering.Desc {
			direction = "DESC"
		}
		qb = qb.Order(filters.Ordering.Column + " " + direction)
	}
	qb = qb.Order("id ASC")

	var rows []models.Product
	if err := qb.Limit(page.Limit).Offset(page.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, count, nil
}

// CatalogInfo aggregates the full catalog in one read.
type CatalogInfo struct {
	Products []models.Product
	Count    int64
	MaxPrice *decimal.Decimal
}

// Info loads every product alongside the count and the maximum price. The max
// is nil for an empty catalog rather than zero.
func (r *Repository) Info(ctx context.Context) (*CatalogInfo, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	info := &CatalogInfo{
		Products: rows,
		Count:    int64(len(rows)),
	}
	for i := range rows {
		if info.MaxPrice == nil || rows[i].Price.GreaterThan(*info.MaxPrice) {
			price := rows[i].Price
			info.MaxPrice = &price
		}
	}
	return info, nil
}

func applyFilters(qb *gorm.DB, filters ListFilters) *gorm.DB {
	if filters.Name != nil {
		qb = qb.Where("LOWER(name) = ?", strings.ToLower(*filters.Name))
	}
	if filters.NameContains != nil {
		qb = qb.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(*filters.NameContains)+"%")
	}
	if filters.Price != nil {
		qb = qb.Where("price = ?", *filters.Price)
	}
	if filters.PriceLT != nil {
		qb = qb.Where("price < ?", *filters.PriceLT)
	}
	if filters.PriceGT != nil {
		qb = qb.Where("price > ?", *filters.PriceGT)
	}
	// Range bounds are both inclusive.
	if filters.PriceMin != nil && filters.PriceMax != nil {
		qb = qb.Where("price >= ? AND price <= ?", *filters.PriceMin, *filters.PriceMax)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		lowered := strings.ToLower(search)
		qb = qb.Where("(LOWER(name) = ? OR LOWER(description) LIKE ?)", lowered, "%"+lowered+"%")
	}
	return qb
}
