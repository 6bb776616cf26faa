package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// GenericConn is satisfied by *pgxpool.Pool and pgx.Tx.
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository struct {
	OrderRepo OrderRepositoryInterface
	MenuRepo  MenuRepositoryInterface
}

func New(conn GenericConn) *Repository {
	return &Repository{
		OrderRepo: NewOrderRepository(conn),
		MenuRepo:  NewMenuRepository(conn),
	}
}
