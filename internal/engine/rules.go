package engine

import "math"

// RulesConfig holds the per-symbol venue rules. There are no defaults: an
// engine is always constructed with an explicit config loaded from the
// venue-rules file.
type RulesConfig struct {
	TickSize      float64
	QtyStep       float64
	MinQty        float64
	MinNotional   float64
	PriceBandBps  float64 // optional, 0 disables
}

// RulesEngine normalizes a PlaceOrder against the current book and config,
// or returns a RejectReason.
type RulesEngine struct {
	cfg RulesConfig
}

// NewRulesEngine builds a RulesEngine from an explicit config.
func NewRulesEngine(cfg RulesConfig) *RulesEngine {
	return &RulesEngine{cfg: cfg}
}

// Normalize validates and rounds p against book, returning either a
// normalized copy of p or a RejectReason.
func (r *RulesEngine) Normalize(p PlaceOrder, book Book) (PlaceOrder, RejectReason) {
	if p.Side != Buy && p.Side != Sell {
		return p, RejectBadSide
	}
	if p.Size <= 0 {
		return p, RejectZeroQty
	}

	out := p

	if r.cfg.QtyStep > 0 {
		out.Size = floorToStep(out.Size, r.cfg.QtyStep)
	}
	if out.Size < r.cfg.MinQty-EpsQty {
		return p, RejectMinQty
	}

	if out.LimitPrice > 0 && r.cfg.TickSize > 0 {
		out.LimitPrice = roundAwayFromCrossing(out.Side, out.LimitPrice, r.cfg.TickSize)
	}

	if out.IsMaker && out.LimitPrice <= 0 {
		top, _ := sameSideTop(out.Side, book)
		if top > 0 && r.cfg.TickSize > 0 {
			top = roundAwayFromCrossing(out.Side, top, r.cfg.TickSize)
		}
		out.LimitPrice = top
	}

	ref := out.LimitPrice
	if ref <= 0 {
		ref = opposingTop(out.Side, book)
	}
	if ref <= 0 {
		return p, RejectPriceInvalid
	}

	if r.cfg.MinNotional > 0 && out.Size*ref < r.cfg.MinNotional-EpsQty {
		return p, RejectMinNotional
	}

	return out, RejectNone
}

// roundAwayFromCrossing rounds price to the nearest tick in the direction
// that can never turn a passive limit into a crossing one: Buy floors,
// Sell ceils.
func roundAwayFromCrossing(side Side, price, tick float64) float64 {
	switch side {
	case Buy:
		return math.Floor(price/tick) * tick
	case Sell:
		return math.Ceil(price/tick) * tick
	default:
		return price
	}
}

func floorToStep(size, step float64) float64 {
	return math.Floor(size/step) * step
}

// sameSideTop returns the same-side top of book used to price a maker order
// with no explicit limit price: best_bid for Buy, best_ask for Sell.
func sameSideTop(side Side, book Book) (price, size float64) {
	return book.TopOfBook(side)
}

// opposingTop returns the opposite-side top used as a notional reference
// when no limit price is set: best_ask for Buy, best_bid for Sell.
func opposingTop(side Side, book Book) float64 {
	price, _ := book.TopOfBook(side.Opposite())
	return price
}
