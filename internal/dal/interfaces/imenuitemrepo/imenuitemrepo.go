package imenuitemrepo

import (
	"context"

	"github.com/dineeasy/order-svc/internal/service/models/menuitem"
)

// IMenuItemRepository is an interface for menu item postgres repository.
type IMenuItemRepository interface {
	QueryByIDs(ctx context.Context, ids []int64) ([]menuitem.MenuItem, error)
}
