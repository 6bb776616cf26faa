package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"restaurant-system/internal/domain"
)

type MenuRepositoryInterface interface {
	ListMenuItems(ctx context.Context) ([]domain.MenuItem, error)
}

type MenuRepository struct {
	conn GenericConn
	sb   sq.StatementBuilderType
}

func NewMenuRepository(conn GenericConn) MenuRepositoryInterface {
	return &MenuRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// ListMenuItems returns active items ordered by id.
func (r *MenuRepository) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	query, args, err := r.sb.Select("id", "name", "price::text", "category", "active").
		From("menu_items").
		Where(sq.Eq{"active": true}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", classifyErr(err))
	}
	defer rows.Close()

	var out []domain.MenuItem
	for rows.Next() {
		var (
			it    domain.MenuItem
			price string
		)
		if err := rows.Scan(&it.ID, &it.Name, &price, &it.Category, &it.Active); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		if it.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("decode price of %q: %w", it.Name, err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu: %w", classifyErr(err))
	}
	return out, nil
}
