package ioutboxrepo

import (
	"context"
	"time"

	"github.com/dineeasy/order-svc/internal/service/models/notification"
)

// IOutboxRepository defines the interface for notification outbox operations.
type IOutboxRepository interface {
	// Insert adds a new notification to the outbox
	Insert(ctx context.Context, msg notification.Message) error

	// GetPendingMessages retrieves notifications that are ready for delivery
	GetPendingMessages(ctx context.Context, limit int) ([]notification.Message, error)

	// Delete removes a notification from the outbox after successful delivery
	Delete(ctx context.Context, id int64) error

	// UpdateRetry updates retry count and error information
	UpdateRetry(
		ctx context.Context,
		id int64,
		retryCount int,
		lastError string,
		nextRetryAt time.Time,
	) error
}
