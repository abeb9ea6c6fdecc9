package paymentsvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/dineeasy/order-svc/internal/dal/interfaces/icustomerrepo"
	"github.com/dineeasy/order-svc/internal/dal/interfaces/iorderrepo"
	"github.com/dineeasy/order-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/dineeasy/order-svc/internal/dal/interfaces/ipaymentrepo"
	"github.com/dineeasy/order-svc/internal/payhere"
	"github.com/dineeasy/order-svc/internal/service/models/notification"
	"github.com/dineeasy/order-svc/internal/service/models/order"
	"github.com/dineeasy/order-svc/internal/service/models/payment"
)

var (
	// ErrOrderNotFound is returned when the callback or checkout request
	// references an order this service does not know.
	ErrOrderNotFound = errors.New("order not found")

	// ErrMalformedCallback is returned when a callback is missing required fields.
	ErrMalformedCallback = errors.New("malformed payment callback")

	// ErrInvalidSignature is returned when the callback signature does not verify.
	ErrInvalidSignature = errors.New("invalid payment signature")
)

// lifecycle is the slice of the order service the payment flow needs.
type lifecycle interface {
	Transition(ctx context.Context, id int64, target order.Status) (*order.Order, error)
}

// CheckoutPayload holds the signed fields the client posts to the PayHere
// checkout page.
type CheckoutPayload struct {
	CheckoutURL string `json:"checkoutUrl"`
	MerchantID  string `json:"merchantId"`
	OrderRef    string `json:"orderId"`
	ItemsLabel  string `json:"items"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Hash        string `json:"hash"`
	ReturnURL   string `json:"returnUrl"`
	CancelURL   string `json:"cancelUrl"`
	NotifyURL   string `json:"notifyUrl"`
}

// CallbackResult reports what a verified callback did.
type CallbackResult struct {
	Verdict payhere.ProviderStatus
	OrderID int64
}

// PaymentService initiates PayHere checkouts and processes callbacks.
type PaymentService struct {
	orderRepo    iorderrepo.IOrderRepository
	paymentRepo  ipaymentrepo.IPaymentRepository
	customerRepo icustomerrepo.ICustomerRepository
	outboxRepo   ioutboxrepo.IOutboxRepository
	orders       lifecycle
	signer       *payhere.Signer

	checkoutURL   string
	returnURL     string
	cancelURL     string
	notifyURL     string
	smsMaxRetries int
}

// option is a function that configures the PaymentService.
type option func(*PaymentService)

// MustNewPaymentService creates a new PaymentService.
func MustNewPaymentService(opts ...option) *PaymentService {
	s := &PaymentService{
		checkoutURL:   viper.GetString("payhere.checkout_url"),
		returnURL:     viper.GetString("payhere.return_url"),
		cancelURL:     viper.GetString("payhere.cancel_url"),
		notifyURL:     viper.GetString("payhere.notify_url"),
		smsMaxRetries: viper.GetInt("notifications.max_retries"),
	}
	if s.checkoutURL == "" {
		s.checkoutURL = "https://sandbox.payhere.lk/pay/checkout"
	}
	if s.smsMaxRetries == 0 {
		s.smsMaxRetries = 3
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithOrderRepository sets the order repository for the PaymentService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(repo iorderrepo.IOrderRepository) option {
	return func(s *PaymentService) {
		s.orderRepo = repo
	}
}

// WithPaymentRepository sets the payment transaction repository for the PaymentService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPaymentRepository(repo ipaymentrepo.IPaymentRepository) option {
	return func(s *PaymentService) {
		s.paymentRepo = repo
	}
}

// WithCustomerRepository sets the customer repository for the PaymentService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCustomerRepository(repo icustomerrepo.ICustomerRepository) option {
	return func(s *PaymentService) {
		s.customerRepo = repo
	}
}

// WithOutboxRepository sets the notification outbox repository for the PaymentService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOutboxRepository(repo ioutboxrepo.IOutboxRepository) option {
	return func(s *PaymentService) {
		s.outboxRepo = repo
	}
}

// WithOrderLifecycle sets the order lifecycle used to confirm paid orders.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderLifecycle(orders lifecycle) option {
	return func(s *PaymentService) {
		s.orders = orders
	}
}

// WithSigner sets the PayHere signer for the PaymentService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithSigner(signer *payhere.Signer) option {
	return func(s *PaymentService) {
		s.signer = signer
	}
}

// InitiatePayment records a pending transaction for the order and returns
// the signed checkout payload. The order must belong to the customer.
func (s *PaymentService) InitiatePayment(ctx context.Context, customerID, orderID int64) (*CheckoutPayload, error) {
	ord, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	// An order belonging to someone else is indistinguishable from a
	// missing one.
	if ord == nil || ord.CustomerID != customerID {
		return nil, ErrOrderNotFound
	}

	now := time.Now()
	_, err = s.paymentRepo.Insert(ctx, payment.Transaction{
		OrderID:     ord.ID,
		AmountCents: ord.TotalCents,
		Currency:    ord.Currency,
		Status:      order.PaymentStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert payment transaction: %w", err)
	}

	orderRef := strconv.FormatInt(ord.ID, 10)

	return &CheckoutPayload{
		CheckoutURL: s.checkoutURL,
		MerchantID:  s.signer.MerchantID(),
		OrderRef:    orderRef,
		ItemsLabel:  fmt.Sprintf("Order %s", ord.OrderNumber),
		Amount:      payhere.FormatAmount(ord.TotalCents),
		Currency:    ord.Currency.String(),
		Hash:        s.signer.CheckoutHash(orderRef, ord.TotalCents, ord.Currency.String()),
		ReturnURL:   s.returnURL,
		CancelURL:   s.cancelURL,
		NotifyURL:   s.notifyURL,
	}, nil
}

// HandleCallback verifies and applies a PayHere server-to-server callback.
// Callbacks are idempotent: replaying a callback for an order whose payment
// already completed changes nothing.
func (s *PaymentService) HandleCallback(ctx context.Context, cb *payhere.Callback) (*CallbackResult, error) {
	if !cb.Complete() {
		return nil, ErrMalformedCallback
	}
	if !s.signer.VerifyCallback(cb) {
		return nil, ErrInvalidSignature
	}

	ord, err := s.resolveOrder(ctx, cb.OrderRef)
	if err != nil {
		return nil, err
	}

	verdict := payhere.ParseStatusCode(cb.StatusCode)
	result := &CallbackResult{Verdict: verdict, OrderID: ord.ID}

	if !verdict.Actionable() {
		slog.Info("payment callback without side effects",
			"orderId", ord.ID, "verdict", verdict.String(), "statusCode", cb.StatusCode)
		return result, nil
	}

	if ord.PaymentStatus.IsTerminal() {
		slog.Info("payment callback replayed for settled order",
			"orderId", ord.ID, "verdict", verdict.String())
		return result, nil
	}

	switch verdict {
	case payhere.StatusPaid:
		err = s.applyPaid(ctx, ord, cb.PaymentID)
	case payhere.StatusCancelled:
		err = s.applyUnpaid(ctx, ord, order.PaymentStatusCancelled, cb.PaymentID)
	case payhere.StatusFailed, payhere.StatusChargedback:
		err = s.applyUnpaid(ctx, ord, order.PaymentStatusFailed, cb.PaymentID)
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

// resolveOrder accepts either the numeric order id PayHere echoes back from
// checkout or the human-facing order number.
func (s *PaymentService) resolveOrder(ctx context.Context, ref string) (*order.Order, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		ord, err := s.orderRepo.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to find order: %w", err)
		}
		if ord != nil {
			return ord, nil
		}
	}

	ord, err := s.orderRepo.FindByOrderNumber(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to find order by number: %w", err)
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}

	return ord, nil
}

func (s *PaymentService) applyPaid(ctx context.Context, ord *order.Order, providerPaymentID string) error {
	if err := s.updateTransaction(ctx, ord.ID, order.PaymentStatusCompleted, providerPaymentID); err != nil {
		return err
	}

	err := s.orderRepo.UpdatePaymentStatus(ctx, ord.ID, order.PaymentStatusCompleted, providerPaymentID)
	if err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	if ord.Status == order.StatusPending {
		if _, err := s.orders.Transition(ctx, ord.ID, order.StatusConfirmed); err != nil {
			// The order may have been cancelled or confirmed by staff in
			// the meantime; the payment itself is already recorded.
			slog.Warn("failed to confirm paid order", "orderId", ord.ID, "error", err)
		}
	}

	s.enqueuePaymentNotification(ctx, ord, providerPaymentID)

	return nil
}

func (s *PaymentService) applyUnpaid(
	ctx context.Context,
	ord *order.Order,
	status order.PaymentStatus,
	providerPaymentID string,
) error {
	if err := s.updateTransaction(ctx, ord.ID, status, providerPaymentID); err != nil {
		return err
	}

	err := s.orderRepo.UpdatePaymentStatus(ctx, ord.ID, status, "")
	if err != nil {
		return fmt.Errorf("failed to update order payment status: %w", err)
	}

	return nil
}

func (s *PaymentService) updateTransaction(
	ctx context.Context,
	orderID int64,
	status order.PaymentStatus,
	providerPaymentID string,
) error {
	txn, err := s.paymentRepo.FindLatestByOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to find payment transaction: %w", err)
	}
	// Callbacks can arrive for checkouts initiated before this service
	// recorded transactions; only the order row is updated then.
	if txn == nil {
		return nil
	}

	if err := s.paymentRepo.UpdateStatus(ctx, txn.ID, status, providerPaymentID); err != nil {
		return fmt.Errorf("failed to update payment transaction: %w", err)
	}

	return nil
}

func (s *PaymentService) enqueuePaymentNotification(ctx context.Context, ord *order.Order, providerPaymentID string) {
	cust, err := s.customerRepo.FindByID(ctx, ord.CustomerID)
	if err != nil || cust == nil {
		slog.Warn("failed to load customer for payment notification", "orderId", ord.ID, "error", err)
		return
	}

	msg := notification.Message{
		MessageID:   uuid.NewString(),
		Kind:        notification.KindPaymentConfirmed,
		OrderID:     ord.ID,
		OrderNumber: ord.OrderNumber,
		OrderStatus: order.StatusConfirmed.String(),
		Phone:       cust.Phone,
		Text:        notification.PaymentText(ord.OrderNumber, ord.TotalCents, providerPaymentID),
		MaxRetries:  s.smsMaxRetries,
		NextRetryAt: time.Now(),
	}

	if err := s.outboxRepo.Insert(ctx, msg); err != nil {
		slog.Error("failed to enqueue payment notification", "orderId", ord.ID, "error", err)
	}
}
