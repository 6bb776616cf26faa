package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-system/internal/domain"
)

// execConn records the last statement and answers with fixed results.
type execConn struct {
	sql  string
	args []any
	tag  pgconn.CommandTag
	err  error
	rows *fakeRows
}

func (c *execConn) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.sql, c.args = sql, args
	return c.tag, c.err
}

func (c *execConn) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.sql, c.args = sql, args
	if c.err != nil {
		return nil, c.err
	}
	if c.rows == nil {
		return nil, errors.New("no rows configured")
	}
	return c.rows, nil
}

func (c *execConn) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

// fakeRows serves fixed rows to Scan for the column types the repository reads.
type fakeRows struct {
	data   [][]any
	pos    int
	err    error
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return r.data[r.pos-1], nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d targets for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *int:
			*p = row[i].(int)
		case *bool:
			*p = row[i].(bool)
		case *[]byte:
			*p = row[i].([]byte)
		case *time.Time:
			*p = row[i].(time.Time)
		default:
			return fmt.Errorf("scan: unsupported target %T", d)
		}
	}
	return nil
}

func TestLoadNonTerminalOrders(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 15, 42, 0, time.UTC)
	rows := &fakeRows{data: [][]any{
		{"ORD1", 3, []byte(`[{"name":"Coffee","quantity":2,"price":"3.50"}]`), "7.00", "preparing", created},
		{"ORD2", 5, []byte(`[{"name":"Burger","quantity":1,"price":12.5}]`), "12.50", "new", created.Add(time.Minute)},
	}}
	conn := &execConn{rows: rows}

	got, err := NewOrderRepository(conn).LoadNonTerminalOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SELECT order_id, table_number, items, total::text, status, created_at FROM orders WHERE status <> $1 ORDER BY created_at, id", conn.sql)
	assert.Equal(t, []any{"completed"}, conn.args)
	assert.True(t, rows.closed)

	require.Len(t, got, 2)
	first := got[0]
	assert.Equal(t, "ORD1", first.ID)
	assert.Equal(t, 3, first.TableNumber)
	assert.Equal(t, domain.StatusPreparing, first.Status)
	assert.True(t, first.Total.Equal(decimal.NewFromInt(7)))
	require.Len(t, first.Items, 1)
	assert.Equal(t, "Coffee", first.Items[0].Name)
	assert.True(t, first.Items[0].Price.Equal(decimal.RequireFromString("3.5")))
	assert.True(t, first.CreatedAt.Equal(created))
	assert.Equal(t, time.Local, first.CreatedAt.Location())
	assert.Equal(t, created.Local().Format(domain.TimestampLayout), first.Timestamp)

	assert.Equal(t, "ORD2", got[1].ID)
	assert.Equal(t, "12.5", got[1].Items[0].Price.String())
}

func TestLoadNonTerminalOrdersErrors(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		conn := &execConn{err: errors.New("connection refused")}
		_, err := NewOrderRepository(conn).LoadNonTerminalOrders(context.Background())
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})
	t.Run("bad_total", func(t *testing.T) {
		conn := &execConn{rows: &fakeRows{data: [][]any{
			{"ORD1", 1, []byte(`[]`), "n/a", "new", time.Now()},
		}}}
		_, err := NewOrderRepository(conn).LoadNonTerminalOrders(context.Background())
		assert.ErrorContains(t, err, "decode total of ORD1")
	})
	t.Run("bad_items", func(t *testing.T) {
		conn := &execConn{rows: &fakeRows{data: [][]any{
			{"ORD1", 1, []byte(`{`), "1.00", "new", time.Now()},
		}}}
		_, err := NewOrderRepository(conn).LoadNonTerminalOrders(context.Background())
		assert.ErrorContains(t, err, "decode items of ORD1")
	})
	t.Run("iteration", func(t *testing.T) {
		conn := &execConn{rows: &fakeRows{err: errors.New("conn reset")}}
		_, err := NewOrderRepository(conn).LoadNonTerminalOrders(context.Background())
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})
}

func TestCreateOrderWritesAllColumns(t *testing.T) {
	conn := &execConn{tag: pgconn.NewCommandTag("INSERT 0 1")}
	created := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	err := NewOrderRepository(conn).CreateOrder(context.Background(), domain.Order{
		ID:          "ORD1",
		TableNumber: 7,
		Items:       []domain.OrderItem{{Name: "Coffee", Quantity: 2, Price: decimal.RequireFromString("3.5")}},
		Total:       decimal.NewFromInt(7),
		Status:      domain.StatusNew,
		CreatedAt:   created,
	})
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO orders (order_id,table_number,items,total,status,created_at) VALUES ($1,$2,$3,$4,$5,$6)", conn.sql)
	require.Len(t, conn.args, 6)
	assert.Equal(t, "ORD1", conn.args[0])
	assert.JSONEq(t, `[{"name":"Coffee","quantity":2,"price":3.5}]`, string(conn.args[2].([]byte)))
	assert.Equal(t, "7.00", conn.args[3])
	assert.Equal(t, "new", conn.args[4])
	assert.Equal(t, created, conn.args[5])
}

func TestCreateOrderMapsDuplicateID(t *testing.T) {
	conn := &execConn{err: &pgconn.PgError{Code: uniqueViolation}}
	err := NewOrderRepository(conn).CreateOrder(context.Background(), domain.Order{ID: "ORD1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		conn := &execConn{tag: pgconn.NewCommandTag("UPDATE 1")}
		require.NoError(t, NewOrderRepository(conn).UpdateOrderStatus(context.Background(), "ORD1", domain.StatusReady))
		assert.Equal(t, "UPDATE orders SET status = $1 WHERE order_id = $2", conn.sql)
		assert.Equal(t, []any{"ready", "ORD1"}, conn.args)
	})
	t.Run("no_row", func(t *testing.T) {
		conn := &execConn{tag: pgconn.NewCommandTag("UPDATE 0")}
		err := NewOrderRepository(conn).UpdateOrderStatus(context.Background(), "ORD404", domain.StatusReady)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("unreachable", func(t *testing.T) {
		conn := &execConn{err: errors.New("connection refused")}
		err := NewOrderRepository(conn).UpdateOrderStatus(context.Background(), "ORD1", domain.StatusReady)
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})
}
