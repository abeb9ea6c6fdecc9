package paymentsvc

import (
	"context"
	"time"

	"github.com/dineeasy/order-svc/internal/service/models/customer"
	"github.com/dineeasy/order-svc/internal/service/models/notification"
	"github.com/dineeasy/order-svc/internal/service/models/order"
	"github.com/dineeasy/order-svc/internal/service/models/payment"
)

// mockOrderRepo implements iorderrepo.IOrderRepository for testing.
type mockOrderRepo struct {
	Orders map[int64]*order.Order

	PaymentStatusUpdates []order.PaymentStatus
	LastProviderRef      string
}

func (m *mockOrderRepo) Insert(_ context.Context, ord order.Order) (order.Order, error) {
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

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id int64, _, next order.Status) (bool, error) {
	if ord, ok := m.Orders[id]; ok {
		ord.Status = next
	}

	return true, nil
}

func (m *mockOrderRepo) UpdatePaymentStatus(_ context.Context, id int64, status order.PaymentStatus, providerRef string) error {
	m.PaymentStatusUpdates = append(m.PaymentStatusUpdates, status)
	m.LastProviderRef = providerRef
	if ord, ok := m.Orders[id]; ok {
		ord.PaymentStatus = status
		if providerRef != "" {
			ord.PaymentID = providerRef
		}
	}

	return nil
}

func (m *mockOrderRepo) Query(_ context.Context, _ *order.QueryOrdersModel) ([]order.Order, error) {
	return nil, nil
}

// mockPaymentRepo implements ipaymentrepo.IPaymentRepository for testing.
type mockPaymentRepo struct {
	Transactions  []payment.Transaction
	StatusUpdates []order.PaymentStatus
}

func (m *mockPaymentRepo) Insert(_ context.Context, txn payment.Transaction) (payment.Transaction, error) {
	txn.ID = int64(len(m.Transactions) + 1)
	m.Transactions = append(m.Transactions, txn)

	return txn, nil
}

func (m *mockPaymentRepo) FindLatestByOrderID(_ context.Context, orderID int64) (*payment.Transaction, error) {
	for i := len(m.Transactions) - 1; i >= 0; i-- {
		if m.Transactions[i].OrderID == orderID {
			cp := m.Transactions[i]

			return &cp, nil
		}
	}

	return nil, nil
}

func (m *mockPaymentRepo) UpdateStatus(_ context.Context, id int64, status order.PaymentStatus, providerPaymentID string) error {
	m.StatusUpdates = append(m.StatusUpdates, status)
	for i := range m.Transactions {
		if m.Transactions[i].ID == id {
			m.Transactions[i].Status = status
			m.Transactions[i].ProviderPaymentID = providerPaymentID
		}
	}

	return nil
}

// mockCustomerRepo implements icustomerrepo.ICustomerRepository for testing.
type mockCustomerRepo struct {
	Customers map[int64]*customer.Customer
}

func (m *mockCustomerRepo) FindByID(_ context.Context, id int64) (*customer.Customer, error) {
	cust, ok := m.Customers[id]
	if !ok {
		return nil, nil
	}

	return cust, nil
}

func (m *mockCustomerRepo) TouchLastOrder(_ context.Context, _ int64) error {
	return nil
}

// mockOutboxRepo implements ioutboxrepo.IOutboxRepository for testing.
type mockOutboxRepo struct {
	Inserted []notification.Message
}

func (m *mockOutboxRepo) Insert(_ context.Context, msg notification.Message) error {
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

// mockLifecycle captures confirmation requests from the payment flow.
type mockLifecycle struct {
	Transitions []order.Status
	Err         error
}

func (m *mockLifecycle) Transition(_ context.Context, _ int64, target order.Status) (*order.Order, error) {
	m.Transitions = append(m.Transitions, target)

	return nil, m.Err
}
