package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefrontlabs/storefront-api/pkg/enums"
)

// Order groups line items purchased by a single user. The identifier is a
// random UUID assigned at creation so order numbers cannot be enumerated.
type Order struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	User      *User             `gorm:"foreignKey:UserID"`
	Status    enums.OrderStatus `gorm:"column:status;type:text;not null;default:'Pending'"`
	Items     []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime;<-:create"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// TotalPrice sums the item subtotals from the currently loaded products.
// It is always recomputed, never cached on the row.
func (o *Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}
