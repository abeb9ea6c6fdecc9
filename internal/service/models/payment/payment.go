package payment

import (
	"time"

	"github.com/dineeasy/order-svc/internal/service/models/currency"
	"github.com/dineeasy/order-svc/internal/service/models/order"
)

// Transaction records a single payment attempt against an order. An order
// may accumulate several transactions when earlier attempts fail.
type Transaction struct {
	ID                int64               `json:"id"`
	OrderID           int64               `json:"orderId"`
	AmountCents       int64               `json:"amountCents"`
	Currency          currency.Currency   `json:"currency"`
	Status            order.PaymentStatus `json:"status"`
	ProviderPaymentID string              `json:"providerPaymentId,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}
