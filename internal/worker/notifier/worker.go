package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"

	"github.com/dineeasy/order-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/dineeasy/order-svc/internal/dal/interfaces/ismslogrepo"
	"github.com/dineeasy/order-svc/internal/dal/rabbitmq"
	"github.com/dineeasy/order-svc/internal/service/models/notification"
	"github.com/dineeasy/order-svc/internal/service/models/smslog"
)

// StatusQueueName is the queue dashboards consume order status events from.
const StatusQueueName = "orders.status.changed"

// smsSender delivers a single SMS.
type smsSender interface {
	Send(ctx context.Context, phone, message string) error
}

// Worker drains the notification outbox: it sends the customer SMS, records
// the delivery attempt and publishes a status event for dashboard consumers.
type Worker struct {
	outboxRepo   ioutboxrepo.IOutboxRepository
	smsLogRepo   ismslogrepo.ISMSLogRepository
	sms          smsSender
	rabbitClient *rabbitmq.Client
	pollInterval time.Duration
	batchSize    int
	parallelism  int
	stopCh       chan struct{}
}

// NewWorker creates a new notification dispatcher worker.
func NewWorker(
	outboxRepo ioutboxrepo.IOutboxRepository,
	smsLogRepo ismslogrepo.ISMSLogRepository,
	sms smsSender,
	rabbitClient *rabbitmq.Client,
) *Worker {
	pollIntervalSeconds := viper.GetInt("notifications.poll_interval_seconds")
	if pollIntervalSeconds == 0 {
		pollIntervalSeconds = 5
	}

	batchSize := viper.GetInt("notifications.batch_size")
	if batchSize == 0 {
		batchSize = 50
	}

	parallelism := viper.GetInt("notifications.parallelism")
	if parallelism == 0 {
		parallelism = 4
	}

	return &Worker{
		outboxRepo:   outboxRepo,
		smsLogRepo:   smsLogRepo,
		sms:          sms,
		rabbitClient: rabbitClient,
		pollInterval: time.Duration(pollIntervalSeconds) * time.Second,
		batchSize:    batchSize,
		parallelism:  parallelism,
		stopCh:       make(chan struct{}),
	}
}

// Start begins draining the outbox.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Notification worker started",
		"poll_interval", w.pollInterval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Notification worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Notification worker stopped")

			return
		case <-ticker.C:
			w.processMessages(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

// processMessages retrieves and dispatches pending notifications.
func (w *Worker) processMessages(ctx context.Context) {
	messages, err := w.outboxRepo.GetPendingMessages(ctx, w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending notifications", "error", err)

		return
	}

	if len(messages) == 0 {
		return
	}

	slog.Info("Dispatching notifications", "count", len(messages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.parallelism)
	for _, msg := range messages {
		msg := msg
		g.Go(func() error {
			w.dispatch(gctx, msg)

			return nil
		})
	}
	_ = g.Wait()
}

// dispatch delivers one notification. SMS delivery and event publishing are
// attempted together; the message stays in the outbox until both succeed.
func (w *Worker) dispatch(ctx context.Context, msg notification.Message) {
	err := w.deliver(ctx, msg)
	if err == nil {
		if err := w.outboxRepo.Delete(ctx, msg.ID); err != nil {
			slog.Error("Failed to delete dispatched notification",
				"outbox_id", msg.ID, "error", err)
		}

		return
	}

	newRetryCount := msg.RetryCount + 1
	if newRetryCount >= msg.MaxRetries {
		slog.Warn("Max retries reached for notification, dropping",
			"outbox_id", msg.ID,
			"message_id", msg.MessageID,
			"order_id", msg.OrderID,
			"error", err,
		)
		if err := w.outboxRepo.Delete(ctx, msg.ID); err != nil {
			slog.Error("Failed to drop notification", "outbox_id", msg.ID, "error", err)
		}

		return
	}

	backoffSeconds := math.Pow(2, float64(newRetryCount)) * 30 // 30s, 60s, 120s, 240s, etc.
	nextRetryAt := time.Now().Add(time.Duration(backoffSeconds) * time.Second)

	slog.Warn("Failed to dispatch notification, will retry",
		"outbox_id", msg.ID,
		"retry_count", newRetryCount,
		"next_retry", nextRetryAt,
		"error", err,
	)

	if err := w.outboxRepo.UpdateRetry(ctx, msg.ID, newRetryCount, err.Error(), nextRetryAt); err != nil {
		slog.Error("Failed to update retry information", "outbox_id", msg.ID, "error", err)
	}
}

func (w *Worker) deliver(ctx context.Context, msg notification.Message) error {
	if err := w.sendSMS(ctx, msg); err != nil {
		return err
	}

	if msg.Kind == notification.KindStatusChanged {
		if err := w.publishStatusEvent(msg); err != nil {
			return err
		}
	}

	return nil
}

// sendSMS sends the customer SMS and records the attempt in sms_logs.
func (w *Worker) sendSMS(ctx context.Context, msg notification.Message) error {
	logEntry, err := w.smsLogRepo.Insert(ctx, smslog.SMSLog{
		OrderID: msg.OrderID,
		Phone:   msg.Phone,
		Message: msg.Text,
		Status:  smslog.DeliveryStatusPending,
		SentAt:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to insert sms log: %w", err)
	}

	if err := w.sms.Send(ctx, msg.Phone, msg.Text); err != nil {
		if logErr := w.smsLogRepo.UpdateStatus(ctx, logEntry.ID, smslog.DeliveryStatusFailed); logErr != nil {
			slog.Error("Failed to mark sms log failed", "sms_log_id", logEntry.ID, "error", logErr)
		}

		return fmt.Errorf("failed to send sms: %w", err)
	}

	if err := w.smsLogRepo.UpdateStatus(ctx, logEntry.ID, smslog.DeliveryStatusSent); err != nil {
		slog.Error("Failed to mark sms log sent", "sms_log_id", logEntry.ID, "error", err)
	}

	return nil
}

// publishStatusEvent publishes the status change to RabbitMQ for dashboards.
// MessageID lets consumers deduplicate redeliveries.
func (w *Worker) publishStatusEvent(msg notification.Message) error {
	event := notification.StatusEvent{
		MessageID:   msg.MessageID,
		OrderID:     msg.OrderID,
		OrderNumber: msg.OrderNumber,
		Status:      msg.OrderStatus,
		OccurredAt:  time.Now(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}

	err = w.rabbitClient.Channel().Publish(
		"",
		StatusQueueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    msg.MessageID,
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish status event: %w", err)
	}

	return nil
}
