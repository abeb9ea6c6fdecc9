package order

import (
	"database/sql/driver"
	"errors"
)

// Status is the kitchen-facing fulfillment stage of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var ErrInvalidStatus = errors.New("invalid order status")

// allowedEdges holds the outgoing transitions for every status. Statuses
// absent from the map are terminal.
var allowedEdges = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady},
	StatusReady:     {StatusCompleted},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

// CanTransitionTo reports whether target is a valid outgoing edge from s.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range allowedEdges[s] {
		if next == target {
			return true
		}
	}

	return false
}

// IsTerminal reports whether the status has no outgoing edges.
func (s Status) IsTerminal() bool {
	return len(allowedEdges[s]) == 0
}

// NotifiesCustomer reports whether entering the status triggers an SMS
// notification to the customer.
func (s Status) NotifiesCustomer() bool {
	switch s {
	case StatusPreparing, StatusReady, StatusCompleted:
		return true
	default:
		return false
	}
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// PaymentStatus is the financial settlement stage of an order, independent
// of the fulfillment stage.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

var ErrInvalidPaymentStatus = errors.New("invalid payment status")

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return s.String(), nil
}

// IsTerminal reports whether the payment status can no longer change.
// Completed is terminal; failed and cancelled attempts may be retried by
// the customer through a fresh payment transaction.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled:
		return PaymentStatus(s), nil
	default:
		return "", ErrInvalidPaymentStatus
	}
}
