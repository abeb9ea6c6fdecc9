package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dineeasy/order-svc/internal/service/models/customer"
)

// CustomerDal represents customer data access layer model.
type CustomerDal struct {
	Id          int64      `db:"id"`
	Name        string     `db:"name"`
	Phone       string     `db:"phone"`
	LastOrderAt *time.Time `db:"last_order_at"`
	CreatedAt   time.Time  `db:"created_at"`
}

// ToModel converts CustomerDal to service layer Customer model.
func (c *CustomerDal) ToModel() *customer.Customer {
	return &customer.Customer{
		ID:          c.Id,
		Name:        c.Name,
		Phone:       c.Phone,
		LastOrderAt: c.LastOrderAt,
		CreatedAt:   c.CreatedAt,
	}
}

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresCustomerRepository represents a Postgres customer repository.
type PostgresCustomerRepository struct {
	conn GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresCustomerRepository creates a new Postgres customer repository.
func NewPostgresCustomerRepository(conn GenericConn) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// FindByID retrieves a customer by id. Returns nil when absent.
func (r *PostgresCustomerRepository) FindByID(ctx context.Context, id int64) (*customer.Customer, error) {
	query, args, err := r.sb.Select(
		"id",
		"name",
		"phone",
		"last_order_at",
		"created_at",
	).
		From("customers").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal CustomerDal
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&dal.Id,
		&dal.Name,
		&dal.Phone,
		&dal.LastOrderAt,
		&dal.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to query customer: %w", err)
	}

	return dal.ToModel(), nil
}

// TouchLastOrder updates the customer's last order timestamp.
func (r *PostgresCustomerRepository) TouchLastOrder(ctx context.Context, id int64) error {
	query, args, err := r.sb.Update("customers").
		Set("last_order_at", time.Now()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to touch customer last order: %w", err)
	}

	return nil
}
