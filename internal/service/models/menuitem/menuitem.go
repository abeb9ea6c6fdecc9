package menuitem

import (
	"time"

	"github.com/dineeasy/order-svc/internal/service/models/currency"
)

// MenuItem represents a menu entry customers can order.
type MenuItem struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	PriceCents    int64             `json:"priceCents"`
	PriceCurrency currency.Currency `json:"priceCurrency"`
	IsAvailable   bool              `json:"isAvailable"`
	PrepMinutes   int               `json:"prepMinutes"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}
