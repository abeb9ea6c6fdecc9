package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dineeasy/order-svc/internal/service/models/currency"
	"github.com/dineeasy/order-svc/internal/service/models/menuitem"
)

// MenuItemDal represents menu item data access layer model.
type MenuItemDal struct {
	Id            int64     `db:"id"`
	Name          string    `db:"name"`
	Description   string    `db:"description"`
	PriceCents    int64     `db:"price_cents"`
	PriceCurrency string    `db:"price_currency"`
	IsAvailable   bool      `db:"is_available"`
	PrepMinutes   int       `db:"prep_minutes"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// ToModel converts MenuItemDal to service layer MenuItem model.
func (m *MenuItemDal) ToModel() (*menuitem.MenuItem, error) {
	cur, err := currency.ParseCurrency(m.PriceCurrency)
	if err != nil {
		return nil, err
	}

	return &menuitem.MenuItem{
		ID:            m.Id,
		Name:          m.Name,
		Description:   m.Description,
		PriceCents:    m.PriceCents,
		PriceCurrency: cur,
		IsAvailable:   m.IsAvailable,
		PrepMinutes:   m.PrepMinutes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}, nil
}

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresMenuItemRepository represents a Postgres menu item repository.
type PostgresMenuItemRepository struct {
	conn GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresMenuItemRepository creates a new Postgres menu item repository.
func NewPostgresMenuItemRepository(conn GenericConn) *PostgresMenuItemRepository {
	return &PostgresMenuItemRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// QueryByIDs retrieves menu items by their ids.
func (r *PostgresMenuItemRepository) QueryByIDs(ctx context.Context, ids []int64) ([]menuitem.MenuItem, error) {
	if len(ids) == 0 {
		return []menuitem.MenuItem{}, nil
	}

	query, args, err := r.sb.Select(
		"id",
		"name",
		"description",
		"price_cents",
		"price_currency",
		"is_available",
		"prep_minutes",
		"created_at",
		"updated_at",
	).
		From("menu_items").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var result []menuitem.MenuItem
	for rows.Next() {
		var dal MenuItemDal
		err := rows.Scan(
			&dal.Id,
			&dal.Name,
			&dal.Description,
			&dal.PriceCents,
			&dal.PriceCurrency,
			&dal.IsAvailable,
			&dal.PrepMinutes,
			&dal.CreatedAt,
			&dal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}

		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert menu item dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
