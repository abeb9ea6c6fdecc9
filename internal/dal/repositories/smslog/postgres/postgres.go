package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dineeasy/order-svc/internal/service/models/smslog"
)

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresSMSLogRepository represents a Postgres SMS log repository.
type PostgresSMSLogRepository struct {
	conn GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresSMSLogRepository creates a new Postgres SMS log repository.
func NewPostgresSMSLogRepository(conn GenericConn) *PostgresSMSLogRepository {
	return &PostgresSMSLogRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert records an SMS delivery attempt and returns it with the generated id.
func (r *PostgresSMSLogRepository) Insert(ctx context.Context, log smslog.SMSLog) (smslog.SMSLog, error) {
	query, args, err := r.sb.Insert("sms_logs").
		Columns(
			"order_id",
			"phone",
			"message",
			"status",
			"sent_at",
		).
		Values(
			log.OrderID,
			log.Phone,
			log.Message,
			log.Status.String(),
			log.SentAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return smslog.SMSLog{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&log.ID); err != nil {
		return smslog.SMSLog{}, fmt.Errorf("failed to insert sms log: %w", err)
	}

	return log, nil
}

// UpdateStatus sets the delivery status of an SMS log entry.
func (r *PostgresSMSLogRepository) UpdateStatus(ctx context.Context, id int64, status smslog.DeliveryStatus) error {
	query, args, err := r.sb.Update("sms_logs").
		Set("status", status.String()).
		Set("sent_at", time.Now()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update sms log: %w", err)
	}

	return nil
}
