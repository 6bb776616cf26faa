// Package cache keeps the in-memory view of orders that are still in play.
package cache

import (
	"sync"

	"restaurant-system/internal/domain"
)

// Active holds non-terminal orders in insertion order. It never contains a
// completed order. All methods are safe for concurrent use and return
// copies.
type Active struct {
	mu     sync.RWMutex
	orders []domain.Order
	index  map[string]int
}

func NewActive() *Active {
	return &Active{index: make(map[string]int)}
}

// Seed replaces the contents with orders, skipping terminal entries and
// keeping the first occurrence of a duplicated id.
func (a *Active) Seed(orders []domain.Order) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.orders = make([]domain.Order, 0, len(orders))
	a.index = make(map[string]int, len(orders))
	for _, o := range orders {
		if o.Status.Terminal() {
			continue
		}
		if _, dup := a.index[o.ID]; dup {
			continue
		}
		a.index[o.ID] = len(a.orders)
		a.orders = append(a.orders, o.Clone())
	}
}

// Insert appends o, or replaces the entry with the same id in place.
// Terminal orders are ignored.
func (a *Active) Insert(o domain.Order) {
	if o.Status.Terminal() {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if i, ok := a.index[o.ID]; ok {
		a.orders[i] = o.Clone()
		return
	}
	a.index[o.ID] = len(a.orders)
	a.orders = append(a.orders, o.Clone())
}

// SetStatus updates the order in place and evicts it when status is
// terminal. It reports whether id was present.
func (a *Active) SetStatus(id string, status domain.OrderStatus) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	i, ok := a.index[id]
	if !ok {
		return false
	}
	if !status.Terminal() {
		a.orders[i].Status = status
		return true
	}
	a.orders = append(a.orders[:i], a.orders[i+1:]...)
	delete(a.index, id)
	for j := i; j < len(a.orders); j++ {
		a.index[a.orders[j].ID] = j
	}
	return true
}

func (a *Active) Get(id string) (domain.Order, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	i, ok := a.index[id]
	if !ok {
		return domain.Order{}, false
	}
	return a.orders[i].Clone(), true
}

// List returns a point-in-time copy, oldest first.
func (a *Active) List() []domain.Order {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]domain.Order, len(a.orders))
	for i, o := range a.orders {
		out[i] = o.Clone()
	}
	return out
}

func (a *Active) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.orders)
}
