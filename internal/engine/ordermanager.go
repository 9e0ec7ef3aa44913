package engine

import (
	coreerrors "github.com/edirent/helix/internal/obs/errors"
)

// OrderManagerMetrics accumulates counters the Order Manager tracks across
// its own lifetime, surfaced verbatim into metrics.json's order lifecycle
// counters.
type OrderManagerMetrics struct {
	OrdersPlaced       int64 `json:"orders_placed"`
	Cancelled          int64 `json:"cancelled"`
	Expired            int64 `json:"expired"`
	Replaced           int64 `json:"replaced"`
	Rejected           int64 `json:"rejected"`
	Filled             int64 `json:"filled"`
	IllegalTransitions int64 `json:"illegal_transitions"`
	LifetimeTotalMs    int64 `json:"lifetime_total_ms"`
	LifetimeSamples    int64 `json:"lifetime_samples"`
	OpenOrdersPeak     int64 `json:"open_orders_peak"`
}

// OrderManager owns the order_id -> Order map and is the sole write path
// for order lifecycle transitions.
type OrderManager struct {
	orders map[int64]*Order
	nextID int64

	metrics OrderManagerMetrics
	openNow int64
}

// NewOrderManager builds an empty OrderManager. Order ids are allocated
// starting at 1.
func NewOrderManager() *OrderManager {
	return &OrderManager{orders: make(map[int64]*Order)}
}

// Metrics returns a snapshot of the accumulated lifecycle counters.
func (om *OrderManager) Metrics() OrderManagerMetrics {
	return om.metrics
}

// Get looks up an order by id. The returned pointer is a lookup result, not
// a handed-off ownership — callers must not mutate it outside OrderManager.
func (om *OrderManager) Get(id int64) (*Order, bool) {
	o, ok := om.orders[id]
	return o, ok
}

// Place allocates a new order id and creates a New order snapshotting p's
// fields.
func (om *OrderManager) Place(p PlaceOrder, now, expireTs int64) *Order {
	om.nextID++
	o := &Order{
		ID:           om.nextID,
		Side:         p.Side,
		Type:         p.Type,
		Price:        p.LimitPrice,
		Qty:          p.Size,
		Status:       StatusNew,
		CreatedTs:    now,
		LastUpdateTs: now,
		ExpireTs:     expireTs,
		PostOnly:     p.PostOnly,
		ReduceOnly:   p.ReduceOnly,
	}
	om.orders[o.ID] = o

	om.metrics.OrdersPlaced++
	om.openNow++
	if om.openNow > om.metrics.OpenOrdersPeak {
		om.metrics.OpenOrdersPeak = om.openNow
	}

	return o
}

// CancelResult is the outcome of Cancel.
type CancelResult struct {
	Success bool
	Message string
}

// Cancel transitions id to Cancelled. A missing or already-terminal order
// is a no-op, reported as Success: false.
func (om *OrderManager) Cancel(id, now int64) CancelResult {
	o, ok := om.orders[id]
	if !ok {
		return CancelResult{Success: false, Message: "unknown order"}
	}
	if o.Status.IsTerminal() {
		return CancelResult{Success: false, Message: "already terminal"}
	}

	om.recordLifetime(o, now)
	o.Status = StatusCancelled
	o.LastUpdateTs = now
	om.metrics.Cancelled++
	om.openNow--

	return CancelResult{Success: true}
}

// ReplaceResult is the outcome of Replace.
type ReplaceResult struct {
	Success  bool
	NewOrder *Order
	Message  string
}

// Replace transitions id to Replaced and synthesizes a new order carrying
// newPrice/newQty, falling back to the old order's price/remaining qty when
// the caller passes a non-positive value.
func (om *OrderManager) Replace(id int64, newPrice, newQty float64, now, newExpire int64) ReplaceResult {
	old, ok := om.orders[id]
	if !ok {
		return ReplaceResult{Success: false, Message: "unknown order"}
	}
	if old.Status.IsTerminal() {
		return ReplaceResult{Success: false, Message: "already terminal"}
	}

	price := newPrice
	if price <= 0 {
		price = old.Price
	}
	qty := newQty
	if qty <= 0 {
		qty = old.Remaining()
	}

	om.recordLifetime(old, now)
	old.Status = StatusReplaced
	old.LastUpdateTs = now
	om.metrics.Replaced++
	om.openNow--

	fresh := om.Place(PlaceOrder{
		Side:       old.Side,
		Type:       old.Type,
		Size:       qty,
		LimitPrice: price,
		PostOnly:   old.PostOnly,
		ReduceOnly: old.ReduceOnly,
	}, now, newExpire)

	old.ReplacedBy = fresh.ID
	fresh.ReplacedFrom = old.ID

	return ReplaceResult{Success: true, NewOrder: fresh}
}

// ApplyFill is the only write path for partial/filled transitions. It
// returns a fatal CoreError for an unknown order, a terminal order, a
// side mismatch, or an overfill beyond Qty + EpsQty.
func (om *OrderManager) ApplyFill(fill Fill, now int64) error {
	o, ok := om.orders[fill.OrderID]
	if !ok {
		om.metrics.IllegalTransitions++
		return coreerrors.New(coreerrors.SeverityFatal, coreerrors.CategoryLifecycle,
			coreerrors.Detail{Component: "order_manager", OrderID: fill.OrderID},
			"fill on unknown order")
	}
	if o.Status.IsTerminal() {
		om.metrics.IllegalTransitions++
		return coreerrors.New(coreerrors.SeverityFatal, coreerrors.CategoryLifecycle,
			coreerrors.Detail{Component: "order_manager", OrderID: o.ID},
			"fill on terminal order")
	}
	if o.Side != fill.Side {
		om.metrics.IllegalTransitions++
		return coreerrors.New(coreerrors.SeverityFatal, coreerrors.CategoryLifecycle,
			coreerrors.Detail{Component: "order_manager", OrderID: o.ID},
			"fill side disagrees with order side")
	}

	newFilled := o.FilledQty + fill.FilledQty
	if newFilled > o.Qty+EpsQty {
		om.metrics.IllegalTransitions++
		return coreerrors.New(coreerrors.SeverityFatal, coreerrors.CategoryLifecycle,
			coreerrors.Detail{Component: "order_manager", OrderID: o.ID,
				Extra: map[string]interface{}{"prev_filled": o.FilledQty, "fill_qty": fill.FilledQty, "qty": o.Qty}},
			"overfill")
	}

	if newFilled > 0 {
		o.AvgFillPrice = (o.AvgFillPrice*o.FilledQty + fill.VWAPPrice*fill.FilledQty) / newFilled
	}
	o.FilledQty = newFilled
	o.LastUpdateTs = now

	if newFilled >= o.Qty-EpsQty {
		om.recordLifetime(o, now)
		o.Status = StatusFilled
		om.metrics.Filled++
		om.openNow--
	} else {
		o.Status = StatusPartial
	}

	return nil
}

// MarkRejected transitions a New/Partial order to Rejected.
func (om *OrderManager) MarkRejected(id, now int64) {
	o, ok := om.orders[id]
	if !ok || o.Status.IsTerminal() {
		return
	}
	om.recordLifetime(o, now)
	o.Status = StatusRejected
	o.LastUpdateTs = now
	om.metrics.Rejected++
	om.openNow--
}

// ExpireOrders transitions every New/Partial order with an expiry at or
// before now to Expired, returning the ids that newly expired.
func (om *OrderManager) ExpireOrders(now int64) []int64 {
	var expired []int64
	for _, o := range om.orders {
		if o.Status.IsTerminal() {
			continue
		}
		if o.ExpireTs > 0 && now >= o.ExpireTs {
			om.recordLifetime(o, now)
			o.Status = StatusExpired
			o.LastUpdateTs = now
			om.metrics.Expired++
			om.openNow--
			expired = append(expired, o.ID)
		}
	}
	return expired
}

func (om *OrderManager) recordLifetime(o *Order, now int64) {
	om.metrics.LifetimeTotalMs += now - o.CreatedTs
	om.metrics.LifetimeSamples++
}
