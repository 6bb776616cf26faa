package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"restaurant-system/internal/common/cache"
	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/domain"
)

const menuKey = "menu:active"

// JSONCache is the subset of cache.RedisCache the catalog needs.
type JSONCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
}

// MenuCatalog serves the menu cache-aside over the store and falls back to
// the built-in catalog when neither can answer.
type MenuCatalog struct {
	repo  MenuRepositoryInterface
	cache JSONCache // optional
	log   *logger.Logger
}

func NewMenuCatalog(repo MenuRepositoryInterface, c JSONCache, log *logger.Logger) *MenuCatalog {
	return &MenuCatalog{repo: repo, cache: c, log: log}
}

func (m *MenuCatalog) Menu(ctx context.Context) domain.Menu {
	if m.cache != nil {
		var items []domain.MenuItem
		err := m.cache.Get(ctx, menuKey, &items)
		if err == nil && len(items) > 0 {
			return domain.GroupMenu(items)
		}
		if err != nil && !cache.IsMiss(err) {
			m.log.Warn("menu_cache_get_failed", map[string]any{"error": err.Error()})
		}
	}

	items, err := m.repo.ListMenuItems(ctx)
	if err != nil || len(items) == 0 {
		if err != nil {
			m.log.Warn("menu_store_unavailable", map[string]any{"error": err.Error()})
		}
		return domain.GroupMenu(StaticMenu())
	}
	if m.cache != nil {
		if err := m.cache.Set(ctx, menuKey, items); err != nil {
			m.log.Warn("menu_cache_set_failed", map[string]any{"error": err.Error()})
		}
	}
	return domain.GroupMenu(items)
}

// StaticMenu is the catalog the restaurant opens with.
func StaticMenu() []domain.MenuItem {
	item := func(id int, name string, price int64, category string) domain.MenuItem {
		return domain.MenuItem{ID: id, Name: name, Price: decimal.NewFromInt(price), Category: category, Active: true}
	}
	return []domain.MenuItem{
		item(1, "Classic Breakfast", 89, "breakfast"),
		item(2, "Eggs Benedict", 95, "breakfast"),
		item(3, "French Toast", 65, "breakfast"),
		item(4, "Chicken Burger", 75, "lunch"),
		item(5, "Caesar Salad", 65, "lunch"),
		item(6, "Grilled Salmon", 120, "dinner"),
		item(7, "Ribeye Steak", 150, "dinner"),
		item(8, "Coffee", 25, "drinks"),
		item(9, "Fresh Juice", 35, "drinks"),
	}
}
