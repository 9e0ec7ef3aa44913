// Package policy provides a default Policy implementation satisfying
// engine.Policy. Production decision logic (feature engineering, model
// inference) is an external collaborator outside the core; this package
// exists so the core is runnable end to end without one, mirroring the
// minimal on_feature-style strategy interface the reference strategy
// package builds on.
package policy

import (
	"github.com/edirent/helix/internal/engine"
)

// PeriodicMaker is a minimal default Policy: every IntervalMs it posts a
// resting maker order at the same-side top of book (best bid for a buy,
// best ask for a sell) on alternating sides, and
// does nothing otherwise. It never replaces or cancels — illustrative only.
type PeriodicMaker struct {
	IntervalMs int64
	Size       float64
	TickSize   float64

	lastActionTs int64
	toggle       bool
	started      bool
}

var _ engine.Policy = (*PeriodicMaker)(nil)

// NextAction implements engine.Policy.
func (p *PeriodicMaker) NextAction(ctx engine.PolicyContext) (engine.Action, bool) {
	if p.started && ctx.NowTs-p.lastActionTs < p.IntervalMs {
		return engine.Action{}, false
	}
	if ctx.Book.BestBid <= 0 || ctx.Book.BestAsk <= 0 {
		return engine.Action{}, false
	}

	side := engine.Buy
	price := ctx.Book.BestBid
	if p.toggle {
		side = engine.Sell
		price = ctx.Book.BestAsk
	}
	p.toggle = !p.toggle
	p.lastActionTs = ctx.NowTs
	p.started = true

	return engine.NewPlaceAction(engine.PlaceOrder{
		Side:       side,
		Type:       engine.Limit,
		Size:       p.Size,
		LimitPrice: price,
		IsMaker:    true,
	}), true
}

// NotionalTaker is a second default Policy: once, at or after TriggerTs, it
// submits a single market order sized to fill approximately TargetNotional
// against the opposing top of book — the shape spec's worked example
// ("buy $1000 notional") exercises.
type NotionalTaker struct {
	TriggerTs      int64
	TargetNotional float64
	Side           engine.Side

	fired bool
}

var _ engine.Policy = (*NotionalTaker)(nil)

// NextAction implements engine.Policy.
func (n *NotionalTaker) NextAction(ctx engine.PolicyContext) (engine.Action, bool) {
	if n.fired || ctx.NowTs < n.TriggerTs {
		return engine.Action{}, false
	}
	ref, _ := ctx.Book.TopOfBook(n.Side.Opposite())
	if ref <= 0 {
		return engine.Action{}, false
	}
	n.fired = true

	return engine.NewPlaceAction(engine.PlaceOrder{
		Side:           n.Side,
		Type:           engine.Market,
		Size:           n.TargetNotional / ref,
		TargetNotional: n.TargetNotional,
	}), true
}
