package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-api/pkg/db/models"
	"github.com/storefrontlabs/storefront-api/pkg/pagination"
)

// Scope narrows every query to the rows the caller may see. Staff callers see
// all orders; everyone else only their own. The narrowing happens in the SQL
// WHERE clause, before pagination.
type Scope struct {
	UserID uuid.UUID
	Staff  bool
}

// Repository wraps order persistence.
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

// List returns one page of orders visible to the scope, with items and their
// products preloaded, plus the total match count.
func (r *Repository) List(ctx context.Context, scope Scope, filters ListFilters, page pagination.Params) ([]models.Order, int64, error) {
	qb := r.scoped(ctx, scope).Model(&models.Order{})
	qb = applyFilters(qb, filters)

	var count int64
	if err := qb.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := qb.
		Preload("Items.Product").
		Order("created_at ASC").
		Order("id ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, count, nil
}

// FindByID loads one order visible to the scope. A row owned by someone else
// surfaces as gorm.ErrRecordNotFound, indistinguishable from a missing one.
func (r *Repository) FindByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.scoped(ctx, scope).
		Preload("Items.Product").
		First(&order, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Create inserts the order row together with its line items.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus persists a status change without touching the items.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

// ReplaceItems swaps every line item of the order for the provided set.
func (r *Repository) ReplaceItems(ctx context.Context, orderID uuid.UUID, items []models.OrderItem) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

// Delete removes an order visible to the scope. Items cascade away.
func (r *Repository) Delete(ctx context.Context, scope Scope, id uuid.UUID) error {
	qb := r.db.WithContext(ctx).Where("id = ?", id)
	if !scope.Staff {
		qb = qb.Where("user_id = ?", scope.UserID)
	}
	result := qb.Delete(&models.Order{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) scoped(ctx context.Context, scope Scope) *gorm.DB {
	qb := r.db.WithContext(ctx)
	if !scope.Staff {
		qb = qb.Where("user_id = ?", scope.UserID)
	}
	return qb
}

func applyFilters(qb *gorm.DB, filters ListFilters) *gorm.DB {
	if filters.Status != nil {
		qb = qb.Where("status = ?", filters.Status.String())
	}
	if filters.CreatedOn != nil {
		day := *filters.CreatedOn
		qb = qb.Where("created_at >= ? AND created_at < ?", day, day.Add(24*time.Hour))
	}
	if filters.CreatedBefore != nil {
		qb = qb.Where("created_at < ?", *filters.CreatedBefore)
	}
	if filters.CreatedAfter != nil {
		qb = qb.Where("created_at >= ?", *filters.CreatedAfter)
	}
	return qb
}
