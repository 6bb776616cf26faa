package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/order/analytics"
	"restaurant-system/internal/microservices/order/cache"
	"restaurant-system/internal/microservices/order/realtime"
	"restaurant-system/internal/microservices/order/repository"
)

const (
	idPrefix        = "ORD"
	maxIDAttempts   = 3
	recentOrdersLen = 5
	storeTimeout    = 10 * time.Second
)

// Publisher fans an event out to some audience without blocking.
type Publisher interface {
	Publish(event string, payload any)
}

// Hub is the push channel: a Publisher that can also seed new subscribers.
type Hub interface {
	Publisher
	Subscribe(initial ...realtime.Message) *realtime.Subscription
}

type Metrics interface {
	OrderPlaced(persisted bool)
	StatusUpdated(status string)
	StoreError(op string)
}

type PlaceOrderResult struct {
	OrderID   string
	Persisted bool
}

type OrderServiceInterface interface {
	PlaceOrder(ctx context.Context, req domain.CreateOrderRequest) (PlaceOrderResult, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	MarkPaid(ctx context.Context, id string) error
	ActiveOrders() []domain.Order
	Analytics() domain.AnalyticsSnapshot
	AdminStats() domain.AdminStats
	Subscribe() *realtime.Subscription
	Rehydrate(ctx context.Context) error
}

// OrderService keeps the store, the active-order cache, analytics and every
// connected client consistent for each order event.
//
// seq serializes in-memory mutation together with the publish that follows
// it, and the seeding of new subscribers, so a client sees each order either
// in its initial snapshot or as a later event. Store I/O runs outside seq.
// Status updates on one order are additionally serialized end to end.
type OrderService struct {
	store   repository.OrderRepositoryInterface
	active  *cache.Active
	agg     *analytics.Aggregator
	hub     Hub
	pubs    []Publisher
	metrics Metrics
	log     *logger.Logger
	node    *snowflake.Node
	now     func() time.Time
	strict  bool

	seq   sync.Mutex
	locks *keyedMutex
}

func NewOrderService(d Deps) (*OrderService, error) {
	if d.Store == nil || d.Hub == nil {
		return nil, errors.New("order service: store and hub are required")
	}
	node, err := snowflake.NewNode(d.NodeID)
	if err != nil {
		return nil, fmt.Errorf("order service: id generator: %w", err)
	}
	s := &OrderService{
		store:   d.Store,
		active:  cache.NewActive(),
		agg:     analytics.New(),
		hub:     d.Hub,
		pubs:    []Publisher{d.Hub},
		metrics: d.Metrics,
		log:     d.Log,
		node:    node,
		now:     d.Now,
		strict:  d.StrictTransitions,
		locks:   newKeyedMutex(),
	}
	if d.Relay != nil {
		s.pubs = append(s.pubs, d.Relay)
	}
	if s.metrics == nil {
		s.metrics = nopMetrics{}
	}
	if s.log == nil {
		s.log = logger.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Rehydrate seeds the active-order cache from the store. On failure the
// cache is left empty and the error is returned for the caller to log.
func (s *OrderService) Rehydrate(ctx context.Context) error {
	orders, err := s.store.LoadNonTerminalOrders(ctx)
	if err != nil {
		s.metrics.StoreError("load_orders")
		return fmt.Errorf("rehydrate: %w", err)
	}
	s.seq.Lock()
	s.active.Seed(orders)
	s.seq.Unlock()
	s.log.Info("cache_rehydrated", map[string]any{"orders": len(orders)})
	return nil
}

func (s *OrderService) PlaceOrder(ctx context.Context, req domain.CreateOrderRequest) (PlaceOrderResult, error) {
	items, err := validateOrder(req)
	if err != nil {
		return PlaceOrderResult{}, err
	}
	now := s.now()
	o := domain.Order{
		TableNumber: req.TableNumber,
		Items:       items,
		Total:       req.Total.Round(2),
		Status:      domain.StatusNew,
		CreatedAt:   now,
		Timestamp:   now.Format(domain.TimestampLayout),
	}

	sctx, cancel := storeContext(ctx)
	defer cancel()
	persisted := false
	for attempt := 1; ; attempt++ {
		o.ID = idPrefix + s.node.Generate().String()
		err = s.store.CreateOrder(sctx, o)
		if err == nil {
			persisted = true
			break
		}
		if errors.Is(err, domain.ErrConflict) {
			if attempt < maxIDAttempts {
				continue
			}
			s.log.Error("order_id_exhausted", err, map[string]any{"attempts": attempt})
			return PlaceOrderResult{}, err
		}
		// Accept the order anyway; it lives in memory until the process exits.
		s.metrics.StoreError("create_order")
		s.log.Error("order_persist_failed", err, map[string]any{"order_id": o.ID, "table": o.TableNumber})
		break
	}

	s.seq.Lock()
	s.active.Insert(o)
	s.agg.Record(o)
	snap := s.agg.Snapshot()
	s.publish(domain.EventNewOrder, o)
	s.publish(domain.EventAnalyticsUpdate, snap)
	s.seq.Unlock()

	s.metrics.OrderPlaced(persisted)
	s.log.Info("order_placed", map[string]any{
		"order_id":  o.ID,
		"table":     o.TableNumber,
		"total":     o.Total.StringFixed(2),
		"persisted": persisted,
	})
	return PlaceOrderResult{OrderID: o.ID, Persisted: persisted}, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	return s.updateStatus(ctx, id, status, s.strict)
}

// MarkPaid records a confirmed payment for id. Only orders still on the
// board can be paid; a completed or unknown id is ErrNotFound.
func (s *OrderService) MarkPaid(ctx context.Context, id string) error {
	return s.updateStatus(ctx, id, domain.StatusPaid, true)
}

// updateStatus applies status to id. With activeOnly set, ids missing from
// the active cache are rejected before the store is touched.
func (s *OrderService) updateStatus(ctx context.Context, id string, status domain.OrderStatus, activeOnly bool) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.NewValidationError("orderId", "is required")
	}
	if !status.Valid() {
		return domain.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	current, cached := s.active.Get(id)
	if activeOnly && !cached {
		// Completed orders are settled.
		return fmt.Errorf("no active order %s: %w", id, domain.ErrNotFound)
	}
	if s.strict {
		if !domain.CanTransition(current.Status, status) {
			return domain.NewValidationError("status", fmt.Sprintf("cannot move from %s to %s", current.Status, status))
		}
	}

	sctx, cancel := storeContext(ctx)
	defer cancel()
	if err := s.store.UpdateOrderStatus(sctx, id, status); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound) && cached:
			// Placed while the store was down; only the cache knows it.
			s.log.Warn("status_update_cache_only", map[string]any{"order_id": id, "status": status})
		case errors.Is(err, domain.ErrNotFound):
			return err
		default:
			s.metrics.StoreError("update_status")
			s.log.Error("status_update_failed", err, map[string]any{"order_id": id, "status": status})
			return err
		}
	}

	s.seq.Lock()
	if s.active.SetStatus(id, status) {
		list := s.active.List()
		s.publish(domain.EventOrderUpdated, domain.OrderUpdated{OrderID: id, Status: status})
		s.publish(domain.EventCurrentOrders, list)
	}
	s.seq.Unlock()

	s.metrics.StatusUpdated(string(status))
	s.log.Info("order_status_updated", map[string]any{"order_id": id, "status": status})
	return nil
}

func (s *OrderService) ActiveOrders() []domain.Order { return s.active.List() }

func (s *OrderService) Analytics() domain.AnalyticsSnapshot { return s.agg.Snapshot() }

// AdminStats summarizes the active-order cache for the admin dashboard.
func (s *OrderService) AdminStats() domain.AdminStats {
	list := s.active.List()
	revenue := decimal.Zero
	for _, o := range list {
		revenue = revenue.Add(o.Total)
	}
	recent := make([]domain.Order, 0, recentOrdersLen)
	for i := len(list) - 1; i >= 0 && len(recent) < recentOrdersLen; i-- {
		recent = append(recent, list[i])
	}
	return domain.AdminStats{
		TodayOrders:  len(list),
		TodayRevenue: revenue.StringFixed(2),
		ActiveOrders: len(list),
		RecentOrders: recent,
	}
}

// Subscribe registers a push client seeded with the active orders and the
// analytics snapshot, in that order.
func (s *OrderService) Subscribe() *realtime.Subscription {
	s.seq.Lock()
	defer s.seq.Unlock()

	var seed []realtime.Message
	if m, err := realtime.Encode(domain.EventCurrentOrders, s.active.List()); err == nil {
		seed = append(seed, m)
	}
	if m, err := realtime.Encode(domain.EventAnalyticsUpdate, s.agg.Snapshot()); err == nil {
		seed = append(seed, m)
	}
	return s.hub.Subscribe(seed...)
}

// storeContext detaches store I/O from the caller's cancellation, bounded
// by storeTimeout.
func storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
}

func (s *OrderService) publish(event string, payload any) {
	for _, p := range s.pubs {
		p.Publish(event, payload)
	}
}

func validateOrder(req domain.CreateOrderRequest) ([]domain.OrderItem, error) {
	if req.TableNumber <= 0 {
		return nil, domain.NewValidationError("tableNumber", "must be a positive integer")
	}
	if len(req.Items) == 0 {
		return nil, domain.NewValidationError("items", "at least one item is required")
	}
	items := make([]domain.OrderItem, len(req.Items))
	for i, it := range req.Items {
		it.Name = strings.TrimSpace(it.Name)
		switch {
		case it.Name == "":
			return nil, domain.NewValidationError("items", fmt.Sprintf("item %d has no name", i+1))
		case it.Quantity <= 0:
			return nil, domain.NewValidationError("items", fmt.Sprintf("quantity of %q must be positive", it.Name))
		case it.Price.IsNegative():
			return nil, domain.NewValidationError("items", fmt.Sprintf("price of %q must not be negative", it.Name))
		}
		items[i] = it
	}
	if req.Total == nil {
		return nil, domain.NewValidationError("total", "is required")
	}
	if req.Total.IsNegative() {
		return nil, domain.NewValidationError("total", "must not be negative")
	}
	if want := domain.ItemsTotal(items); !want.Equal(req.Total.Round(2)) {
		return nil, domain.NewValidationError("total", fmt.Sprintf("%s does not match items sum %s",
			req.Total.StringFixed(2), want.StringFixed(2)))
	}
	return items, nil
}

type nopMetrics struct{}

func (nopMetrics) OrderPlaced(bool)     {}
func (nopMetrics) StatusUpdated(string) {}
func (nopMetrics) StoreError(string)    {}
