package paymentsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dineeasy/order-svc/internal/payhere"
	"github.com/dineeasy/order-svc/internal/service/models/currency"
	"github.com/dineeasy/order-svc/internal/service/models/customer"
	"github.com/dineeasy/order-svc/internal/service/models/notification"
	"github.com/dineeasy/order-svc/internal/service/models/order"
)

const (
	testMerchantID = "1221149"
	testSecret     = "MySecret123"
)

type testEnv struct {
	svc          *PaymentService
	signer       *payhere.Signer
	orderRepo    *mockOrderRepo
	paymentRepo  *mockPaymentRepo
	customerRepo *mockCustomerRepo
	outboxRepo   *mockOutboxRepo
	lifecycle    *mockLifecycle
}

func newTestEnv() *testEnv {
	signer := payhere.NewSigner(testMerchantID, testSecret)
	orderRepo := &mockOrderRepo{Orders: map[int64]*order.Order{
		42: {
			ID:            42,
			OrderNumber:   "ORD1722500000000",
			CustomerID:    7,
			TotalCents:    319000,
			Currency:      currency.CurrencyLKR,
			Status:        order.StatusPending,
			PaymentStatus: order.PaymentStatusPending,
		},
	}}
	paymentRepo := &mockPaymentRepo{}
	customerRepo := &mockCustomerRepo{Customers: map[int64]*customer.Customer{
		7: {ID: 7, Name: "Nimal", Phone: "0771234567"},
	}}
	outboxRepo := &mockOutboxRepo{}
	lc := &mockLifecycle{}

	svc := MustNewPaymentService(
		WithOrderRepository(orderRepo),
		WithPaymentRepository(paymentRepo),
		WithCustomerRepository(customerRepo),
		WithOutboxRepository(outboxRepo),
		WithOrderLifecycle(lc),
		WithSigner(signer),
	)

	return &testEnv{
		svc:          svc,
		signer:       signer,
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		outboxRepo:   outboxRepo,
		lifecycle:    lc,
	}
}

// signedCallback builds a callback whose signature verifies against the
// test merchant credentials.
func (e *testEnv) signedCallback(orderRef, statusCode string) *payhere.Callback {
	cb := &payhere.Callback{
		MerchantID: testMerchantID,
		OrderRef:   orderRef,
		PaymentID:  "320032640",
		Amount:     "3190.00",
		Currency:   "LKR",
		StatusCode: statusCode,
	}
	cb.Signature = e.signer.CallbackSignature(cb)

	return cb
}

func TestInitiatePayment(t *testing.T) {
	env := newTestEnv()

	payload, err := env.svc.InitiatePayment(context.Background(), 7, 42)

	require.NoError(t, err)
	assert.Equal(t, testMerchantID, payload.MerchantID)
	assert.Equal(t, "42", payload.OrderRef)
	assert.Equal(t, "3190.00", payload.Amount)
	assert.Equal(t, "LKR", payload.Currency)
	assert.Equal(t, env.signer.CheckoutHash("42", 319000, "LKR"), payload.Hash)

	require.Len(t, env.paymentRepo.Transactions, 1)
	txn := env.paymentRepo.Transactions[0]
	assert.Equal(t, int64(42), txn.OrderID)
	assert.Equal(t, int64(319000), txn.AmountCents)
	assert.Equal(t, order.PaymentStatusPending, txn.Status)
}

func TestInitiatePayment_WrongCustomer(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.InitiatePayment(context.Background(), 99, 42)

	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Empty(t, env.paymentRepo.Transactions)
}

func TestInitiatePayment_UnknownOrder(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.InitiatePayment(context.Background(), 7, 404)

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestHandleCallback_Paid(t *testing.T) {
	env := newTestEnv()
	_, err := env.svc.InitiatePayment(context.Background(), 7, 42)
	require.NoError(t, err)

	result, err := env.svc.HandleCallback(context.Background(), env.signedCallback("42", "2"))

	require.NoError(t, err)
	assert.Equal(t, payhere.StatusPaid, result.Verdict)
	assert.Equal(t, int64(42), result.OrderID)

	assert.Equal(t, order.PaymentStatusCompleted, env.orderRepo.Orders[42].PaymentStatus)
	assert.Equal(t, "320032640", env.orderRepo.Orders[42].PaymentID)
	assert.Equal(t, []order.PaymentStatus{order.PaymentStatusCompleted}, env.paymentRepo.StatusUpdates)

	assert.Equal(t, []order.Status{order.StatusConfirmed}, env.lifecycle.Transitions)

	require.Len(t, env.outboxRepo.Inserted, 1)
	assert.Equal(t, notification.KindPaymentConfirmed, env.outboxRepo.Inserted[0].Kind)
}

func TestHandleCallback_PaidReplayIsIdempotent(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.HandleCallback(context.Background(), env.signedCallback("42", "2"))
	require.NoError(t, err)

	updatesAfterFirst := len(env.orderRepo.PaymentStatusUpdates)
	transitionsAfterFirst := len(env.lifecycle.Transitions)
	smsAfterFirst := len(env.outboxRepo.Inserted)

	result, err := env.svc.HandleCallback(context.Background(), env.signedCallback("42", "2"))

	require.NoError(t, err)
	assert.Equal(t, payhere.StatusPaid, result.Verdict)
	assert.Len(t, env.orderRepo.PaymentStatusUpdates, updatesAfterFirst)
	assert.Len(t, env.lifecycle.Transitions, transitionsAfterFirst)
	assert.Len(t, env.outboxRepo.Inserted, smsAfterFirst)
}

func TestHandleCallback_PaidOrderAlreadyConfirmed(t *testing.T) {
	env := newTestEnv()
	env.orderRepo.Orders[42].Status = order.StatusConfirmed

	_, err := env.svc.HandleCallback(context.Background(), env.signedCallback("42", "2"))

	require.NoError(t, err)
	assert.Empty(t, env.lifecycle.Transitions)
	assert.Equal(t, order.PaymentStatusCompleted, env.orderRepo.Orders[42].PaymentStatus)
}

func TestHandleCallback_ResolvesByOrderNumber(t *testing.T) {
	env := newTestEnv()

	result, err := env.svc.HandleCallback(context.Background(),
		env.signedCallback("ORD1722500000000", "2"))

	require.NoError(t, err)
	assert.Equal(t, int64(42), result.OrderID)
	assert.Equal(t, order.PaymentStatusCompleted, env.orderRepo.Orders[42].PaymentStatus)
}

func TestHandleCallback_Failed(t *testing.T) {
	env := newTestEnv()

	result, err := env.svc.HandleCallback(context.Background(), env.signedCallback("42", "-2"))

	require.NoError(t, err)
	assert.Equal(t, payhere.StatusFailed, result.Verdict)
	assert.Equal(t, order.PaymentStatusFailed, env.orderRepo.Orders[42].PaymentStatus)
	assert.Empty(t, env.lifecycle.Transitions)
	assert.Empty(t, env.outboxRepo.Inserted)
}

func TestHandleCallback_Cancelled(t *testing.T) {
	env := newTestEnv()

	result, err := env.svc.HandleCallback(context.Background(), env.signedCallback("42", "-1"))

	require.NoError(t, err)
	assert.Equal(t, payhere.StatusCancelled, result.Verdict)
	assert.Equal(t, order.PaymentStatusCancelled, env.orderRepo.Orders[42].PaymentStatus)
}

func TestHandleCallback_Chargedback(t *testing.T) {
	env := newTestEnv()

	result, err := env.svc.HandleCallback(context.Background(), env.signedCallback("42", "-3"))

	require.NoError(t, err)
	assert.Equal(t, payhere.StatusChargedback, result.Verdict)
	assert.Equal(t, order.PaymentStatusFailed, env.orderRepo.Orders[42].PaymentStatus)
}

func TestHandleCallback_PendingCodeHasNoSideEffects(t *testing.T) {
	env := newTestEnv()

	result, err := env.svc.HandleCallback(context.Background(), env.signedCallback("42", "0"))

	require.NoError(t, err)
	assert.Equal(t, payhere.StatusPending, result.Verdict)
	assert.Empty(t, env.orderRepo.PaymentStatusUpdates)
	assert.Empty(t, env.lifecycle.Transitions)
}

func TestHandleCallback_UnknownCodeHasNoSideEffects(t *testing.T) {
	env := newTestEnv()

	result, err := env.svc.HandleCallback(context.Background(), env.signedCallback("42", "7"))

	require.NoError(t, err)
	assert.Equal(t, payhere.StatusUnknown, result.Verdict)
	assert.Empty(t, env.orderRepo.PaymentStatusUpdates)
}

func TestHandleCallback_InvalidSignature(t *testing.T) {
	env := newTestEnv()

	cb := env.signedCallback("42", "2")
	cb.Amount = "1.00"

	_, err := env.svc.HandleCallback(context.Background(), cb)

	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Empty(t, env.orderRepo.PaymentStatusUpdates)
}

func TestHandleCallback_Malformed(t *testing.T) {
	env := newTestEnv()

	cb := env.signedCallback("42", "2")
	cb.StatusCode = ""

	_, err := env.svc.HandleCallback(context.Background(), cb)

	assert.ErrorIs(t, err, ErrMalformedCallback)
}

func TestHandleCallback_UnknownOrder(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.HandleCallback(context.Background(), env.signedCallback("404", "2"))

	assert.ErrorIs(t, err, ErrOrderNotFound)
}
