package order

import (
	"time"

	"github.com/dineeasy/order-svc/internal/service/models/currency"
	"github.com/dineeasy/order-svc/internal/service/models/orderitem"
)

// Order represents a customer's placed set of menu items with computed
// pricing and a lifecycle status.
type Order struct {
	ID               int64                 `json:"id"`
	OrderNumber      string                `json:"orderNumber"`
	CustomerID       int64                 `json:"customerId"`
	TableID          *int64                `json:"tableId,omitempty"`
	SubtotalCents    int64                 `json:"subtotalCents"`
	TaxCents         int64                 `json:"taxCents"`
	TotalCents       int64                 `json:"totalCents"`
	Currency         currency.Currency     `json:"currency"`
	Status           Status                `json:"status"`
	PaymentStatus    PaymentStatus         `json:"paymentStatus"`
	PaymentID        string                `json:"paymentId,omitempty"`
	Note             string                `json:"note,omitempty"`
	EstimatedReadyAt time.Time             `json:"estimatedReadyAt"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
	Items            []orderitem.OrderItem `json:"items"`
}
