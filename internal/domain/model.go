package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the wall-clock format shown on kitchen tickets.
const TimestampLayout = "15:04:05"

type OrderItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID          string          `json:"id"`
	TableNumber int             `json:"tableNumber"`
	Items       []OrderItem     `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	Timestamp   string          `json:"timestamp"`
}

// Clone returns a copy that shares no mutable storage with o.
func (o Order) Clone() Order {
	c := o
	if o.Items != nil {
		c.Items = make([]OrderItem, len(o.Items))
		copy(c.Items, o.Items)
	}
	return c
}

// ItemsTotal sums quantity*price over items, rounded to cents.
func ItemsTotal(items []OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Subtotal())
	}
	return sum.Round(2)
}

type MenuItem struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Active   bool            `json:"active"`
}

// MenuEntry is the per-item shape the ordering page renders.
type MenuEntry struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Menu groups entries by category (breakfast, lunch, ...).
type Menu map[string][]MenuEntry

// GroupMenu builds a Menu out of active items, keeping their order.
func GroupMenu(items []MenuItem) Menu {
	m := make(Menu)
	for _, it := range items {
		if !it.Active {
			continue
		}
		m[it.Category] = append(m[it.Category], MenuEntry{ID: it.ID, Name: it.Name, Price: it.Price})
	}
	return m
}

type AnalyticsSnapshot struct {
	TotalOrders  int                     `json:"totalOrders"`
	TotalRevenue decimal.Decimal         `json:"totalRevenue"`
	PopularItems map[string]int          `json:"popularItems"`
	HourlySales  map[int]decimal.Decimal `json:"hourlySales"`
	TableStats   map[int]int             `json:"tableStats"`
}
