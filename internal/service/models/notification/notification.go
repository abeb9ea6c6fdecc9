package notification

import (
	"time"
)

// Kind describes what a queued notification is about.
type Kind string

const (
	KindOrderPlaced      Kind = "order_placed"
	KindStatusChanged    Kind = "status_changed"
	KindPaymentConfirmed Kind = "payment_confirmed"
)

// Message represents a customer notification queued in the outbox. It is
// drained by the dispatcher worker, which sends the SMS and publishes the
// status event to RabbitMQ.
type Message struct {
	ID          int64     `json:"id"`
	MessageID   string    `json:"messageId"`
	Kind        Kind      `json:"kind"`
	OrderID     int64     `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	OrderStatus string    `json:"orderStatus"`
	Phone       string    `json:"phone"`
	Text        string    `json:"text"`
	RetryCount  int       `json:"retryCount"`
	MaxRetries  int       `json:"maxRetries"`
	LastError   string    `json:"lastError,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	NextRetryAt time.Time `json:"nextRetryAt"`
}

// StatusEvent is the payload published to the orders.status.changed queue
// for kitchen and staff dashboards.
type StatusEvent struct {
	MessageID   string    `json:"message_id"`
	OrderID     int64     `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}
