package db

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"restaurant-system/internal/common/config"
	"restaurant-system/internal/common/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

const pingTTL = 5 * time.Second

type Conn struct{ *pgxpool.Pool }

// Connect builds the pool and pings it up to cfg.ConnectAttempts times.
// The pool is returned together with the last ping error so the caller can
// decide to run without a reachable database.
func Connect(ctx context.Context, cfg config.DB, log *logger.Logger) (*Conn, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	conn := &Conn{Pool: pool}

	attempts := max(cfg.ConnectAttempts, 1)
	for i := 1; i <= attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, pingTTL)
		err = pool.Ping(pctx)
		cancel()
		if err == nil {
			return conn, nil
		}
		log.Warn("db_ping_failed", map[string]any{"attempt": i, "of": attempts, "error": err.Error()})
		if i == attempts {
			break
		}
		select {
		case <-time.After(cfg.RetryDelay):
		case <-ctx.Done():
			return conn, fmt.Errorf("db ping canceled: %w", ctx.Err())
		}
	}
	return conn, fmt.Errorf("database unreachable after %d attempts: %w", attempts, err)
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, c *Conn) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	sqlDB := stdlib.OpenDBFromPool(c.Pool)
	defer sqlDB.Close()
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (c *Conn) Close() {
	if c != nil && c.Pool != nil {
		c.Pool.Close()
	}
}
