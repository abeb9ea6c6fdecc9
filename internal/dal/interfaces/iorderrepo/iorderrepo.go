package iorderrepo

import (
	"context"

	"github.com/dineeasy/order-svc/internal/service/models/order"
)

// IOrderRepository is an interface for order postgres repository.
type IOrderRepository interface {
	Insert(ctx context.Context, ord order.Order) (order.Order, error)
	FindByID(ctx context.Context, id int64) (*order.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error)
	// UpdateStatus applies the new status only when the stored status still
	// equals expected; it reports whether the compare-and-swap took effect.
	UpdateStatus(ctx context.Context, id int64, expected, next order.Status) (bool, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status order.PaymentStatus, providerRef string) error
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
}
