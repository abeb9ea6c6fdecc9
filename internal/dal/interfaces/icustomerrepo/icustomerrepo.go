package icustomerrepo

import (
	"context"

	"github.com/dineeasy/order-svc/internal/service/models/customer"
)

// ICustomerRepository is an interface for customer postgres repository.
type ICustomerRepository interface {
	FindByID(ctx context.Context, id int64) (*customer.Customer, error)
	TouchLastOrder(ctx context.Context, id int64) error
}
