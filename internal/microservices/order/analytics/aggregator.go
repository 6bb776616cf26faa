package analytics

import (
	"maps"
	"sync"

	"github.com/shopspring/decimal"

	"restaurant-system/internal/domain"
)

// Aggregator accumulates process-lifetime counters over placed orders.
// Counters only grow.
type Aggregator struct {
	mu           sync.Mutex
	totalOrders  int
	totalRevenue decimal.Decimal
	popularItems map[string]int
	hourlySales  map[int]decimal.Decimal
	tableStats   map[int]int
}

func New() *Aggregator {
	return &Aggregator{
		totalRevenue: decimal.Zero,
		popularItems: make(map[string]int),
		hourlySales:  make(map[int]decimal.Decimal),
		tableStats:   make(map[int]int),
	}
}

// Record counts o once. Each line item adds one to its name regardless of
// quantity; the hour bucket is taken from o.CreatedAt.
func (a *Aggregator) Record(o domain.Order) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalOrders++
	a.totalRevenue = a.totalRevenue.Add(o.Total)
	for _, it := range o.Items {
		a.popularItems[it.Name]++
	}
	h := o.CreatedAt.Hour()
	a.hourlySales[h] = a.hourlySales[h].Add(o.Total)
	a.tableStats[o.TableNumber]++
}

func (a *Aggregator) Snapshot() domain.AnalyticsSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return domain.AnalyticsSnapshot{
		TotalOrders:  a.totalOrders,
		TotalRevenue: a.totalRevenue,
		PopularItems: maps.Clone(a.popularItems),
		HourlySales:  maps.Clone(a.hourlySales),
		TableStats:   maps.Clone(a.tableStats),
	}
}
