package ordersvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/dineeasy/order-svc/internal/dal/interfaces/icustomerrepo"
	"github.com/dineeasy/order-svc/internal/dal/interfaces/imenuitemrepo"
	"github.com/dineeasy/order-svc/internal/dal/interfaces/iorderitemrepo"
	"github.com/dineeasy/order-svc/internal/dal/interfaces/iorderrepo"
	"github.com/dineeasy/order-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/dineeasy/order-svc/internal/dal/postgres"
	"github.com/dineeasy/order-svc/internal/dal/uow"
	"github.com/dineeasy/order-svc/internal/service/models/currency"
	"github.com/dineeasy/order-svc/internal/service/models/notification"
	"github.com/dineeasy/order-svc/internal/service/models/order"
	"github.com/dineeasy/order-svc/internal/service/models/orderitem"
)

var (
	// ErrOrderNotFound is returned when no order matches the given reference.
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidTransition is returned when the requested status change is
	// not an allowed lifecycle edge, or the order moved concurrently.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrMenuItemUnavailable is returned when an ordered menu item does not
	// exist or is currently unavailable.
	ErrMenuItemUnavailable = errors.New("menu item unavailable")

	// ErrCustomerNotFound is returned when the ordering customer does not exist.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrEmptyOrder is returned when an order is placed without items.
	ErrEmptyOrder = errors.New("order must contain at least one item")
)

// PlaceOrderItemModel is a single requested line in a new order.
type PlaceOrderItemModel struct {
	MenuItemID int64
	Quantity   int
	Note       string
}

// PlaceOrderModel carries everything needed to place a new order.
type PlaceOrderModel struct {
	CustomerID int64
	TableID    *int64
	Note       string
	Items      []PlaceOrderItemModel
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
}

// OrderService manages order placement and the order lifecycle.
type OrderService struct {
	pgClient      *postgres.Client
	orderRepo     iorderrepo.IOrderRepository
	orderItemRepo iorderitemrepo.IOrderItemRepository
	menuItemRepo  imenuitemrepo.IMenuItemRepository
	customerRepo  icustomerrepo.ICustomerRepository
	outboxRepo    ioutboxrepo.IOutboxRepository

	newUOW func() unitOfWork

	taxRateBps      int64
	basePrepMinutes int
	smsMaxRetries   int
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		taxRateBps:      viper.GetInt64("order.tax_rate_bps"),
		basePrepMinutes: viper.GetInt("order.base_prep_minutes"),
		smsMaxRetries:   viper.GetInt("notifications.max_retries"),
	}
	if s.taxRateBps == 0 {
		s.taxRateBps = 1000
	}
	if s.basePrepMinutes == 0 {
		s.basePrepMinutes = 5
	}
	if s.smsMaxRetries == 0 {
		s.smsMaxRetries = 3
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(s.pgClient)
		}
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// WithOrderRepository sets the order repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(repo iorderrepo.IOrderRepository) option {
	return func(s *OrderService) {
		s.orderRepo = repo
	}
}

// WithOrderItemRepository sets the order item repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderItemRepository(repo iorderitemrepo.IOrderItemRepository) option {
	return func(s *OrderService) {
		s.orderItemRepo = repo
	}
}

// WithMenuItemRepository sets the menu item repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithMenuItemRepository(repo imenuitemrepo.IMenuItemRepository) option {
	return func(s *OrderService) {
		s.menuItemRepo = repo
	}
}

// WithCustomerRepository sets the customer repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCustomerRepository(repo icustomerrepo.ICustomerRepository) option {
	return func(s *OrderService) {
		s.customerRepo = repo
	}
}

// WithOutboxRepository sets the notification outbox repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOutboxRepository(repo ioutboxrepo.IOutboxRepository) option {
	return func(s *OrderService) {
		s.outboxRepo = repo
	}
}

// WithUnitOfWorkFactory overrides how transactional units of work are built.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.newUOW = factory
	}
}

// PlaceOrder validates the requested items against the menu, snapshots their
// names and prices, computes totals and persists the order together with its
// items in one transaction. A confirmation SMS is queued best effort.
func (s *OrderService) PlaceOrder(ctx context.Context, model PlaceOrderModel) (*order.Order, error) {
	if len(model.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	cust, err := s.customerRepo.FindByID(ctx, model.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	if cust == nil {
		return nil, ErrCustomerNotFound
	}

	menuItemIDs := make([]int64, 0, len(model.Items))
	for _, item := range model.Items {
		menuItemIDs = append(menuItemIDs, item.MenuItemID)
	}

	menuItems, err := s.menuItemRepo.QueryByIDs(ctx, menuItemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}

	menuByID := make(map[int64]menuItemView, len(menuItems))
	for _, mi := range menuItems {
		menuByID[mi.ID] = menuItemView{
			name:        mi.Name,
			priceCents:  mi.PriceCents,
			isAvailable: mi.IsAvailable,
			prepMinutes: mi.PrepMinutes,
		}
	}

	now := time.Now()

	var subtotalCents int64
	prepMinutes := s.basePrepMinutes
	items := make([]orderitem.OrderItem, 0, len(model.Items))
	for _, item := range model.Items {
		mi, ok := menuByID[item.MenuItemID]
		if !ok || !mi.isAvailable {
			return nil, fmt.Errorf("%w: menu item %d", ErrMenuItemUnavailable, item.MenuItemID)
		}

		subtotalCents += mi.priceCents * int64(item.Quantity)
		prepMinutes += mi.prepMinutes * item.Quantity

		items = append(items, orderitem.OrderItem{
			MenuItemID:     item.MenuItemID,
			Name:           mi.name,
			Quantity:       item.Quantity,
			UnitPriceCents: mi.priceCents,
			PriceCurrency:  currency.CurrencyLKR,
			Note:           item.Note,
			CreatedAt:      now,
		})
	}

	taxCents := subtotalCents * s.taxRateBps / 10000

	ord := order.Order{
		OrderNumber:      fmt.Sprintf("ORD%d", now.UnixMilli()),
		CustomerID:       model.CustomerID,
		TableID:          model.TableID,
		SubtotalCents:    subtotalCents,
		TaxCents:         taxCents,
		TotalCents:       subtotalCents + taxCents,
		Currency:         currency.CurrencyLKR,
		Status:           order.StatusPending,
		PaymentStatus:    order.PaymentStatusPending,
		Note:             model.Note,
		EstimatedReadyAt: now.Add(time.Duration(prepMinutes) * time.Minute),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = work.Rollback(ctx)
	}()

	ord, err = work.OrderRepository().Insert(ctx, ord)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range items {
		items[i].OrderID = ord.ID
	}
	items, err = work.OrderItemRepository().BulkInsert(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order items: %w", err)
	}
	ord.Items = items

	if err := work.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if err := s.customerRepo.TouchLastOrder(ctx, cust.ID); err != nil {
		slog.Warn("failed to touch customer last order", "customerId", cust.ID, "error", err)
	}

	s.enqueueNotification(ctx, notification.Message{
		Kind:        notification.KindOrderPlaced,
		OrderID:     ord.ID,
		OrderNumber: ord.OrderNumber,
		OrderStatus: ord.Status.String(),
		Phone:       cust.Phone,
		Text:        notification.PlacedText(ord.OrderNumber, ord.TotalCents),
	})

	return &ord, nil
}

type menuItemView struct {
	name        string
	priceCents  int64
	isAvailable bool
	prepMinutes int
}

// GetOrders retrieves orders matching the filter, with their items attached.
func (s *OrderService) GetOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	orders, err := s.orderRepo.Query(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	orderIDs := make([]int64, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}

	items, err := s.orderItemRepo.QueryByOrderIDs(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}

	itemsByOrder := make(map[int64][]orderitem.OrderItem, len(orders))
	for _, item := range items {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}
	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
	}

	return orders, nil
}

// GetOrder retrieves a single order with its items.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*order.Order, error) {
	ord, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}

	items, err := s.orderItemRepo.QueryByOrderIDs(ctx, []int64{ord.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	ord.Items = items

	return ord, nil
}

// Transition moves the order to the target status. Requesting the status the
// order is already in is a no-op. The update is a compare-and-swap against
// the status the order was read with, so concurrent transitions cannot both
// win. Customer-facing statuses queue an SMS best effort.
func (s *OrderService) Transition(ctx context.Context, id int64, target order.Status) (*order.Order, error) {
	ord, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}

	if ord.Status == target {
		return ord, nil
	}

	if !ord.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, ord.Status, target)
	}

	applied, err := s.orderRepo.UpdateStatus(ctx, ord.ID, ord.Status, target)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if !applied {
		return nil, fmt.Errorf("%w: order %d changed concurrently", ErrInvalidTransition, ord.ID)
	}

	ord.Status = target
	ord.UpdatedAt = time.Now()

	if target.NotifiesCustomer() {
		s.enqueueStatusNotification(ctx, ord)
	}

	return ord, nil
}

func (s *OrderService) enqueueStatusNotification(ctx context.Context, ord *order.Order) {
	cust, err := s.customerRepo.FindByID(ctx, ord.CustomerID)
	if err != nil || cust == nil {
		slog.Warn("failed to load customer for notification", "orderId", ord.ID, "error", err)
		return
	}

	s.enqueueNotification(ctx, notification.Message{
		Kind:        notification.KindStatusChanged,
		OrderID:     ord.ID,
		OrderNumber: ord.OrderNumber,
		OrderStatus: ord.Status.String(),
		Phone:       cust.Phone,
		Text:        notification.StatusText(ord.OrderNumber, ord.Status.String()),
	})
}

// enqueueNotification writes the message to the outbox. Failures are logged
// and swallowed so notification trouble never fails the order operation.
func (s *OrderService) enqueueNotification(ctx context.Context, msg notification.Message) {
	msg.MessageID = uuid.NewString()
	msg.MaxRetries = s.smsMaxRetries
	msg.NextRetryAt = time.Now()

	if err := s.outboxRepo.Insert(ctx, msg); err != nil {
		slog.Error("failed to enqueue notification",
			"orderId", msg.OrderID, "kind", msg.Kind, "error", err)
	}
}
