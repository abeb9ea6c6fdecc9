package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dineeasy/order-svc/internal/service/models/currency"
	"github.com/dineeasy/order-svc/internal/service/models/order"
	"github.com/dineeasy/order-svc/internal/service/models/payment"
)

// PaymentDal represents payment transaction data access layer model.
type PaymentDal struct {
	Id                int64     `db:"id"`
	OrderId           int64     `db:"order_id"`
	AmountCents       int64     `db:"amount_cents"`
	Currency          string    `db:"currency"`
	Status            string    `db:"status"`
	ProviderPaymentId string    `db:"provider_payment_id"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// ToModel converts PaymentDal to service layer Transaction model.
func (p *PaymentDal) ToModel() (*payment.Transaction, error) {
	cur, err := currency.ParseCurrency(p.Currency)
	if err != nil {
		return nil, err
	}

	status, err := order.ParsePaymentStatus(p.Status)
	if err != nil {
		return nil, err
	}

	return &payment.Transaction{
		ID:                p.Id,
		OrderID:           p.OrderId,
		AmountCents:       p.AmountCents,
		Currency:          cur,
		Status:            status,
		ProviderPaymentID: p.ProviderPaymentId,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}, nil
}

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresPaymentRepository represents a Postgres payment transaction repository.
type PostgresPaymentRepository struct {
	conn GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresPaymentRepository creates a new Postgres payment transaction repository.
func NewPostgresPaymentRepository(conn GenericConn) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var paymentColumns = "id, order_id, amount_cents, currency, status, provider_payment_id, created_at, updated_at"

// Insert creates a new payment transaction and returns it with the generated id.
func (r *PostgresPaymentRepository) Insert(ctx context.Context, txn payment.Transaction) (payment.Transaction, error) {
	query, args, err := r.sb.Insert("payment_transactions").
		Columns(
			"order_id",
			"amount_cents",
			"currency",
			"status",
			"provider_payment_id",
			"created_at",
			"updated_at",
		).
		Values(
			txn.OrderID,
			txn.AmountCents,
			txn.Currency.String(),
			txn.Status.String(),
			txn.ProviderPaymentID,
			txn.CreatedAt,
			txn.UpdatedAt,
		).
		Suffix("RETURNING " + paymentColumns).
		ToSql()
	if err != nil {
		return payment.Transaction{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	dal, err := r.scanOne(ctx, query, args)
	if err != nil {
		return payment.Transaction{}, fmt.Errorf("failed to insert payment transaction: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return payment.Transaction{}, fmt.Errorf("failed to convert payment dal to model: %w", err)
	}

	return *model, nil
}

// FindLatestByOrderID retrieves the most recent payment transaction for an
// order. Returns nil when the order has none.
func (r *PostgresPaymentRepository) FindLatestByOrderID(ctx context.Context, orderID int64) (*payment.Transaction, error) {
	query, args, err := r.sb.Select(
		"id",
		"order_id",
		"amount_cents",
		"currency",
		"status",
		"provider_payment_id",
		"created_at",
		"updated_at",
	).
		From("payment_transactions").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	dal, err := r.scanOne(ctx, query, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to query payment transaction: %w", err)
	}

	return dal.ToModel()
}

// UpdateStatus sets the transaction status and provider payment id.
func (r *PostgresPaymentRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	status order.PaymentStatus,
	providerPaymentID string,
) error {
	builder := r.sb.Update("payment_transactions").
		Set("status", status.String()).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id})

	if providerPaymentID != "" {
		builder = builder.Set("provider_payment_id", providerPaymentID)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update payment transaction: %w", err)
	}

	return nil
}

func (r *PostgresPaymentRepository) scanOne(ctx context.Context, query string, args []interface{}) (*PaymentDal, error) {
	var dal PaymentDal
	err := r.conn.QueryRow(ctx, query, args...).Scan(
		&dal.Id,
		&dal.OrderId,
		&dal.AmountCents,
		&dal.Currency,
		&dal.Status,
		&dal.ProviderPaymentId,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &dal, nil
}
