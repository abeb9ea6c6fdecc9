package ordersvc

import (
	"context"
	"time"

	"github.com/dineeasy/order-svc/internal/dal/interfaces/iorderitemrepo"
	"github.com/dineeasy/order-svc/internal/dal/interfaces/iorderrepo"
	"github.com/dineeasy/order-svc/internal/service/models/customer"
	"github.com/dineeasy/order-svc/internal/service/models/menuitem"
	"github.com/dineeasy/order-svc/internal/service/models/notification"
	"github.com/dineeasy/order-svc/internal/service/models/order"
	"github.com/dineeasy/order-svc/internal/service/models/orderitem"
)

// mockOrderRepo implements iorderrepo.IOrderRepository for testing.
type mockOrderRepo struct {
	Orders map[int64]*order.Order

	InsertErr      error
	NextID         int64
	UpdateStatusOK bool
	UpdateErr      error

	UpdateStatusCalls int
	LastExpected      order.Status
	LastNext          order.Status
}

func (m *mockOrderRepo) Insert(_ context.Context, ord order.Order) (order.Order, error) {
	if m.InsertErr != nil {
		return order.Order{}, m.InsertErr
	}
	m.NextID++
	ord.ID = m.NextID

	return ord, nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id int64) (*order.Order, error) {
	ord, ok := m.Orders[id]
	if !ok {
		return nil, nil
	}
	cp := *ord

	return &cp, nil
}

func (m *mockOrderRepo) FindByOrderNumber(_ context.Context, number string) (*order.Order, error) {
	for _, ord := range m.Orders {
		if ord.OrderNumber == number {
			cp := *ord

			return &cp, nil
		}
	}

	return nil, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id int64, expected, next order.Status) (bool, error) {
	m.UpdateStatusCalls++
	m.LastExpected = expected
	m.LastNext = next
	if m.UpdateErr != nil {
		return false, m.UpdateErr
	}
	if m.UpdateStatusOK {
		if ord, ok := m.Orders[id]; ok {
			ord.Status = next
		}
	}

	return m.UpdateStatusOK, nil
}

func (m *mockOrderRepo) UpdatePaymentStatus(_ context.Context, id int64, status order.PaymentStatus, providerRef string) error {
	if ord, ok := m.Orders[id]; ok {
		ord.PaymentStatus = status
		if providerRef != "" {
			ord.PaymentID = providerRef
		}
	}

	return nil
}

func (m *mockOrderRepo) Query(_ context.Context, _ *order.QueryOrdersModel) ([]order.Order, error) {
	orders := make([]order.Order, 0, len(m.Orders))
	for _, ord := range m.Orders {
		orders = append(orders, *ord)
	}

	return orders, nil
}

// mockOrderItemRepo implements iorderitemrepo.IOrderItemRepository for testing.
type mockOrderItemRepo struct {
	Items     []orderitem.OrderItem
	InsertErr error
}

func (m *mockOrderItemRepo) BulkInsert(_ context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error) {
	if m.InsertErr != nil {
		return nil, m.InsertErr
	}
	for i := range items {
		items[i].ID = int64(len(m.Items) + i + 1)
	}
	m.Items = append(m.Items, items...)

	return items, nil
}

func (m *mockOrderItemRepo) QueryByOrderIDs(_ context.Context, orderIDs []int64) ([]orderitem.OrderItem, error) {
	wanted := make(map[int64]bool, len(orderIDs))
	for _, id := range orderIDs {
		wanted[id] = true
	}

	var items []orderitem.OrderItem
	for _, item := range m.Items {
		if wanted[item.OrderID] {
			items = append(items, item)
		}
	}

	return items, nil
}

// mockMenuItemRepo implements imenuitemrepo.IMenuItemRepository for testing.
type mockMenuItemRepo struct {
	MenuItems []menuitem.MenuItem
}

func (m *mockMenuItemRepo) QueryByIDs(_ context.Context, ids []int64) ([]menuitem.MenuItem, error) {
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var items []menuitem.MenuItem
	for _, item := range m.MenuItems {
		if wanted[item.ID] {
			items = append(items, item)
		}
	}

	return items, nil
}

// mockCustomerRepo implements icustomerrepo.ICustomerRepository for testing.
type mockCustomerRepo struct {
	Customers map[int64]*customer.Customer
	Touched   []int64
}

func (m *mockCustomerRepo) FindByID(_ context.Context, id int64) (*customer.Customer, error) {
	cust, ok := m.Customers[id]
	if !ok {
		return nil, nil
	}

	return cust, nil
}

func (m *mockCustomerRepo) TouchLastOrder(_ context.Context, id int64) error {
	m.Touched = append(m.Touched, id)

	return nil
}

// mockOutboxRepo implements ioutboxrepo.IOutboxRepository for testing.
type mockOutboxRepo struct {
	Inserted  []notification.Message
	InsertErr error
}

func (m *mockOutboxRepo) Insert(_ context.Context, msg notification.Message) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.Inserted = append(m.Inserted, msg)

	return nil
}

func (m *mockOutboxRepo) GetPendingMessages(_ context.Context, _ int) ([]notification.Message, error) {
	return m.Inserted, nil
}

func (m *mockOutboxRepo) Delete(_ context.Context, _ int64) error {
	return nil
}

func (m *mockOutboxRepo) UpdateRetry(_ context.Context, _ int64, _ int, _ string, _ time.Time) error {
	return nil
}

// mockUOW binds the mock repositories behind the unit of work interface.
type mockUOW struct {
	orderRepo     *mockOrderRepo
	orderItemRepo *mockOrderItemRepo

	Began      bool
	Committed  bool
	RolledBack bool
	BeginErr   error
}

func (m *mockUOW) Begin(_ context.Context) error {
	if m.BeginErr != nil {
		return m.BeginErr
	}
	m.Began = true

	return nil
}

func (m *mockUOW) Commit(_ context.Context) error {
	m.Committed = true

	return nil
}

func (m *mockUOW) Rollback(_ context.Context) error {
	if !m.Committed {
		m.RolledBack = true
	}

	return nil
}

func (m *mockUOW) OrderRepository() iorderrepo.IOrderRepository {
	return m.orderRepo
}

func (m *mockUOW) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return m.orderItemRepo
}
