package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"restaurant-system/internal/domain"
)

const uniqueViolation = "23505"

type OrderRepositoryInterface interface {
	CreateOrder(ctx context.Context, o domain.Order) error
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error
	LoadNonTerminalOrders(ctx context.Context) ([]domain.Order, error)
}

type OrderRepository struct {
	conn GenericConn
	sb   sq.StatementBuilderType
}

func NewOrderRepository(conn GenericConn) OrderRepositoryInterface {
	return &OrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *OrderRepository) CreateOrder(ctx context.Context, o domain.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	createdAt := o.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	query, args, err := r.sb.Insert("orders").
		Columns("order_id", "table_number", "items", "total", "status", "created_at").
		Values(o.ID, o.TableNumber, items, o.Total.StringFixed(2), string(o.Status), createdAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert order %s: %w", o.ID, classifyErr(err))
	}
	return nil
}

// UpdateOrderStatus returns domain.ErrNotFound when no row matches id.
func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	query, args, err := r.sb.Update("orders").
		Set("status", string(status)).
		Where(sq.Eq{"order_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update order %s: %w", id, classifyErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update order %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *OrderRepository) LoadNonTerminalOrders(ctx context.Context) ([]domain.Order, error) {
	query, args, err := r.sb.Select("order_id", "table_number", "items", "total::text", "status", "created_at").
		From("orders").
		Where(sq.NotEq{"status": string(domain.StatusCompleted)}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", classifyErr(err))
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var (
			o      domain.Order
			items  []byte
			total  string
			status string
		)
		if err := rows.Scan(&o.ID, &o.TableNumber, &items, &total, &status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("decode items of %s: %w", o.ID, err)
		}
		if o.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("decode total of %s: %w", o.ID, err)
		}
		o.Status = domain.OrderStatus(status)
		o.CreatedAt = o.CreatedAt.Local()
		o.Timestamp = o.CreatedAt.Format(domain.TimestampLayout)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", classifyErr(err))
	}
	return out, nil
}

// classifyErr maps driver errors onto the domain taxonomy. Server-side
// errors other than unique violations pass through unchanged; anything that
// never reached the server counts as the store being unavailable.
func classifyErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
		}
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}
