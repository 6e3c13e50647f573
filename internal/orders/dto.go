package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefrontlabs/storefront-api/pkg/db/models"
	"github.com/storefrontlabs/storefront-api/pkg/enums"
)

// OrderItemDTO is the nested line-item shape. Prices and subtotals are
// recomputed from the current product row on every read.
type OrderItemDTO struct {
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `json:"product_price"`
	Quantity     int             `json:"quantity"`
	ItemSubtotal decimal.Decimal `json:"item_subtotal"`
}

// OrderDTO is the public representation of an order.
type OrderDTO struct {
	ID         uuid.UUID         `json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	User       uuid.UUID         `json:"user"`
	Status     enums.OrderStatus `json:"status"`
	Items      []OrderItemDTO    `json:"items"`
	TotalPrice decimal.Decimal   `json:"total_price"`
}

// ListResult pairs one page of orders with the total match count.
type ListResult struct {
	Orders []OrderDTO
	Count  int64
}

// ItemInput is one requested line item.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateOrderInput carries the validated payload to create an order. UserID
// is honored only for staff callers; everyone else gets their own identity.
type CreateOrderInput struct {
	UserID *uuid.UUID
	Status *enums.OrderStatus
	Items  []ItemInput
}

// ReplaceOrderInput is the full-update payload: status and items are both
// replaced wholesale.
type ReplaceOrderInput struct {
	Status enums.OrderStatus
	Items  []ItemInput
}

// PatchOrderInput applies only the provided fields.
type PatchOrderInput struct {
	Status *enums.OrderStatus
	Items  *[]ItemInput
}

// ToDTO maps the persistence model, with items and products preloaded, to
// its API shape.
func ToDTO(order *models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		dto := OrderItemDTO{
			Quantity:     item.Quantity,
			ItemSubtotal: item.Subtotal(),
		}
		if item.Product != nil {
			dto.ProductName = item.Product.Name
			dto.ProductPrice = item.Product.Price.Round(2)
		}
		items = append(items, dto)
	}

	return OrderDTO{
		ID:         order.ID,
		CreatedAt:  order.CreatedAt,
		User:       order.UserID,
		Status:     order.Status,
		Items:      items,
		TotalPrice: order.TotalPrice(),
	}
}

func toDTOs(rows []models.Order) []OrderDTO {
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, ToDTO(&rows[i]))
	}
	return dtos
}
