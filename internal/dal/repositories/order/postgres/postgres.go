package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dineeasy/order-svc/internal/service/models/currency"
	"github.com/dineeasy/order-svc/internal/service/models/order"
	"github.com/dineeasy/order-svc/internal/service/models/orderitem"
)

// OrderDal represents order data access layer model.
type OrderDal struct {
	Id               int64     `db:"id"`
	OrderNumber      string    `db:"order_number"`
	CustomerId       int64     `db:"customer_id"`
	TableId          *int64    `db:"table_id"`
	SubtotalCents    int64     `db:"subtotal_cents"`
	TaxCents         int64     `db:"tax_cents"`
	TotalCents       int64     `db:"total_cents"`
	Currency         string    `db:"currency"`
	Status           string    `db:"status"`
	PaymentStatus    string    `db:"payment_status"`
	PaymentId        string    `db:"payment_id"`
	Note             string    `db:"note"`
	EstimatedReadyAt time.Time `db:"estimated_ready_at"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// ToModel converts OrderDal to service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	cur, err := currency.ParseCurrency(o.Currency)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}

	paymentStatus, err := order.ParsePaymentStatus(o.PaymentStatus)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:               o.Id,
		OrderNumber:      o.OrderNumber,
		CustomerID:       o.CustomerId,
		TableID:          o.TableId,
		SubtotalCents:    o.SubtotalCents,
		TaxCents:         o.TaxCents,
		TotalCents:       o.TotalCents,
		Currency:         cur,
		Status:           status,
		PaymentStatus:    paymentStatus,
		PaymentID:        o.PaymentId,
		Note:             o.Note,
		EstimatedReadyAt: o.EstimatedReadyAt,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		Items:            []orderitem.OrderItem{}, // Will be populated separately
	}, nil
}

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresOrderRepository represents a Postgres order repository.
type PostgresOrderRepository struct {
	conn GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(conn GenericConn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var orderColumns = []string{
	"id",
	"order_number",
	"customer_id",
	"table_id",
	"subtotal_cents",
	"tax_cents",
	"total_cents",
	"currency",
	"status",
	"payment_status",
	"payment_id",
	"note",
	"estimated_ready_at",
	"created_at",
	"updated_at",
}

func scanOrder(row pgx.Row) (*OrderDal, error) {
	var dal OrderDal
	err := row.Scan(
		&dal.Id,
		&dal.OrderNumber,
		&dal.CustomerId,
		&dal.TableId,
		&dal.SubtotalCents,
		&dal.TaxCents,
		&dal.TotalCents,
		&dal.Currency,
		&dal.Status,
		&dal.PaymentStatus,
		&dal.PaymentId,
		&dal.Note,
		&dal.EstimatedReadyAt,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &dal, nil
}

// Insert creates a new order and returns it with the generated id.
func (r *PostgresOrderRepository) Insert(ctx context.Context, ord order.Order) (order.Order, error) {
	query, args, err := r.sb.Insert("orders").
		Columns(
			"order_number",
			"customer_id",
			"table_id",
			"subtotal_cents",
			"tax_cents",
			"total_cents",
			"currency",
			"status",
			"payment_status",
			"payment_id",
			"note",
			"estimated_ready_at",
			"created_at",
			"updated_at",
		).
		Values(
			ord.OrderNumber,
			ord.CustomerID,
			ord.TableID,
			ord.SubtotalCents,
			ord.TaxCents,
			ord.TotalCents,
			ord.Currency.String(),
			ord.Status.String(),
			ord.PaymentStatus.String(),
			ord.PaymentID,
			ord.Note,
			ord.EstimatedReadyAt,
			ord.CreatedAt,
			ord.UpdatedAt,
		).
		Suffix("RETURNING " + joinColumns(orderColumns)).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	dal, err := scanOrder(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to convert order dal to model: %w", err)
	}
	model.Items = append(model.Items, ord.Items...)

	return *model, nil
}

// FindByID retrieves an order by its internal id. Returns nil when absent.
func (r *PostgresOrderRepository) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

// FindByOrderNumber retrieves an order by its human-facing order number.
// Returns nil when absent.
func (r *PostgresOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	return r.findOne(ctx, sq.Eq{"order_number": orderNumber})
}

func (r *PostgresOrderRepository) findOne(ctx context.Context, where sq.Eq) (*order.Order, error) {
	query, args, err := r.sb.Select(orderColumns...).
		From("orders").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	dal, err := scanOrder(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return dal.ToModel()
}

// UpdateStatus compare-and-swaps the order status: the update applies only
// when the stored status still equals expected, so a concurrent writer that
// got there first causes the swap to report false.
func (r *PostgresOrderRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	expected, next order.Status,
) (bool, error) {
	query, args, err := r.sb.Update("orders").
		Set("status", next.String()).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id, "status": expected.String()}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// UpdatePaymentStatus sets the order payment status and, when provided, the
// provider-assigned payment id.
func (r *PostgresOrderRepository) UpdatePaymentStatus(
	ctx context.Context,
	id int64,
	status order.PaymentStatus,
	providerRef string,
) error {
	builder := r.sb.Update("orders").
		Set("payment_status", status.String()).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id})

	if providerRef != "" {
		builder = builder.Set("payment_id", providerRef)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update order payment status: %w", err)
	}

	return nil
}

// Query retrieves orders based on filter criteria.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	builder := r.sb.Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC")

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.CustomerIds) > 0 {
		builder = builder.Where(sq.Eq{"customer_id": filter.CustomerIds})
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = s.String()
		}
		builder = builder.Where(sq.Eq{"status": statuses})
	}

	if !filter.CreatedFrom.IsZero() {
		builder = builder.Where(sq.GtOrEq{"created_at": filter.CreatedFrom})
	}

	if !filter.CreatedTo.IsZero() {
		builder = builder.Where(sq.Lt{"created_at": filter.CreatedTo})
	}

	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		dal, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
