package domain

type OrderStatus string

const (
	StatusNew       OrderStatus = "new"
	StatusPaid      OrderStatus = "paid"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
)

var statusRank = map[OrderStatus]int{
	StatusNew:       0,
	StatusPaid:      1,
	StatusPreparing: 2,
	StatusReady:     3,
	StatusCompleted: 4,
}

func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Terminal reports whether s ends the order's life in the active view.
func (s OrderStatus) Terminal() bool { return s == StatusCompleted }

// CanTransition reports whether to is reachable from from along the
// new -> paid -> preparing -> ready -> completed progression. Steps may be
// skipped; moving backwards is not allowed. Re-applying the same status is.
func CanTransition(from, to OrderStatus) bool {
	f, ok1 := statusRank[from]
	t, ok2 := statusRank[to]
	if !ok1 || !ok2 {
		return false
	}
	return t >= f
}
