package orderitem

import (
	"time"

	"github.com/dineeasy/order-svc/internal/service/models/currency"
)

// OrderItem represents a line item within an order. Name and unit price are
// snapshots taken from the menu item at order time and stay fixed even when
// the menu is edited later.
type OrderItem struct {
	ID             int64             `json:"id"`
	OrderID        int64             `json:"orderId"`
	MenuItemID     int64             `json:"menuItemId"`
	Name           string            `json:"name"`
	Quantity       int               `json:"quantity"`
	UnitPriceCents int64             `json:"unitPriceCents"`
	PriceCurrency  currency.Currency `json:"priceCurrency"`
	Note           string            `json:"note,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// TotalCents returns the line total.
func (oi *OrderItem) TotalCents() int64 {
	return oi.UnitPriceCents * int64(oi.Quantity)
}
