package ipaymentrepo

import (
	"context"

	"github.com/dineeasy/order-svc/internal/service/models/order"
	"github.com/dineeasy/order-svc/internal/service/models/payment"
)

// IPaymentRepository is an interface for payment transaction postgres repository.
type IPaymentRepository interface {
	Insert(ctx context.Context, txn payment.Transaction) (payment.Transaction, error)
	FindLatestByOrderID(ctx context.Context, orderID int64) (*payment.Transaction, error)
	UpdateStatus(ctx context.Context, id int64, status order.PaymentStatus, providerPaymentID string) error
}
