package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-api/pkg/db"
	"github.com/storefrontlabs/storefront-api/pkg/db/models"
	"github.com/storefrontlabs/storefront-api/pkg/enums"
	pkgerrors "github.com/storefrontlabs/storefront-api/pkg/errors"
	"github.com/storefrontlabs/storefront-api/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Actor identifies the authenticated caller on every order operation.
type Actor struct {
	UserID  uuid.UUID
	IsStaff bool
}

func (a Actor) scope() Scope {
	return Scope{UserID: a.UserID, Staff: a.IsStaff}
}

// Service exposes order operations. Every read and write is scoped to the
// acting user unless they are staff.
type Service interface {
	List(ctx context.Context, actor Actor, filters ListFilters, page pagination.Params) (*ListResult, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*OrderDTO, error)
	Create(ctx context.Context, actor Actor, input CreateOrderInput) (*OrderDTO, error)
	Replace(ctx context.Context, actor Actor, id uuid.UUID, input ReplaceOrderInput) (*OrderDTO, error)
	Patch(ctx context.Context, actor Actor, id uuid.UUID, input PatchOrderInput) (*OrderDTO, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type service struct {
	repo     *Repository
	products productFinder
	tx       txRunner
}

// NewService builds an order service with the required dependencies.
func NewService(repo *Repository, products productFinder, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, products: products, tx: tx}, nil
}

func (s *service) List(ctx context.Context, actor Actor, filters ListFilters, page pagination.Params) (*ListResult, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	rows, count, err := s.repo.List(ctx, actor.scope(), filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return &ListResult{Orders: toDTOs(rows), Count: count}, nil
}

func (s *service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*OrderDTO, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	order, err := s.repo.FindByID(ctx, actor.scope(), id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, errOrderNotFound()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	dto := ToDTO(order)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, actor Actor, input CreateOrderInput) (*OrderDTO, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	ownerID := actor.UserID
	if input.UserID != nil && *input.UserID != actor.UserID {
		if !actor.IsStaff {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot create orders for another user")
		}
		ownerID = *input.UserID
	}

	status := enums.OrderStatusPending
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, errInvalidStatus()
		}
		status = *input.Status
	}

	items, err := s.buildItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:     uuid.New(),
		UserID: ownerID,
		Status: status,
		Items:  items,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).Create(ctx, order)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert order")
	}

	return s.reload(ctx, actor, order.ID)
}

func (s *service) Replace(ctx context.Context, actor Actor, id uuid.UUID, input ReplaceOrderInput) (*OrderDTO, error) {
	if !input.Status.IsValid() {
		return nil, errInvalidStatus()
	}

	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}

	items, err := s.buildItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].OrderID = id
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateStatus(ctx, id, input.Status.String()); err != nil {
			return err
		}
		return repo.ReplaceItems(ctx, id, items)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace order")
	}

	return s.reload(ctx, actor, id)
}

func (s *service) Patch(ctx context.Context, actor Actor, id uuid.UUID, input PatchOrderInput) (*OrderDTO, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}

	if input.Status != nil && !input.Status.IsValid() {
		return nil, errInvalidStatus()
	}

	var items []models.OrderItem
	if input.Items != nil {
		built, err := s.buildItems(ctx, *input.Items)
		if err != nil {
			return nil, err
		}
		for i := range built {
			built[i].OrderID = id
		}
		items = built
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if input.Status != nil {
			if err := repo.UpdateStatus(ctx, id, input.Status.String()); err != nil {
				return err
			}
		}
		if input.Items != nil {
			return repo.ReplaceItems(ctx, id, items)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "patch order")
	}

	return s.reload(ctx, actor, id)
}

func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if actor.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	if err := s.repo.Delete(ctx, actor.scope(), id); err != nil {
		if db.IsNotFound(err) {
			return errOrderNotFound()
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

// buildItems validates every requested line and resolves its product.
func (s *service) buildItems(ctx context.Context, inputs []ItemInput) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	for _, input := range inputs {
		if input.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required").
				WithDetails(map[string]any{"field": "items.product"})
		}
		if input.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
				WithDetails(map[string]any{"field": "items.quantity"})
		}
		if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
			if db.IsNotFound(err) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product").
					WithDetails(map[string]any{"field": "items.product", "product": input.ProductID})
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product for order item")
		}
		items = append(items, models.OrderItem{
			ProductID: input.ProductID,
			Quantity:  input.Quantity,
		})
	}
	return items, nil
}

func errOrderNotFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func errInvalidStatus() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
		WithDetails(map[string]any{"field": "status"})
}

func (s *service) reload(ctx context.Context, actor Actor, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, actor.scope(), id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	dto := ToDTO(order)
	return &dto, nil
}
