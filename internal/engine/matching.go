package engine

// MatchingEngine walks opposing book depth for a taker Action and produces
// a Fill. It holds no state beyond its config; Simulate is pure given
// (action, book).
type MatchingEngine struct {
	tickSize                 float64
	rejectOnInsufficientDepth bool // true => FOK; false => IOC/partial
}

// NewMatchingEngine builds a MatchingEngine. tickSize must be > 0.
func NewMatchingEngine(tickSize float64, rejectOnInsufficientDepth bool) *MatchingEngine {
	return &MatchingEngine{tickSize: tickSize, rejectOnInsufficientDepth: rejectOnInsufficientDepth}
}

// Simulate executes p as a taker against book and returns a Fill.
func (m *MatchingEngine) Simulate(p PlaceOrder, book Book) Fill {
	if p.Side != Buy && p.Side != Sell {
		return Rejected(p.Side, RejectBadSide)
	}
	if p.Size <= 0 {
		return Rejected(p.Side, RejectZeroQty)
	}

	levels := sideLevels(p.Side, book)
	if len(levels) == 0 {
		top, size := book.TopOfBook(p.Side.Opposite())
		if top > 0 && size > 0 {
			levels = []PriceLevel{{Price: top, Qty: size}}
		}
	}
	if len(levels) == 0 {
		if p.Side == Buy {
			return Rejected(p.Side, RejectNoAsk)
		}
		return Rejected(p.Side, RejectNoBid)
	}

	remaining := p.Size
	var filledQty, notional float64
	levelsCrossed := 0

	for _, lvl := range levels {
		if remaining <= EpsQty {
			break
		}
		consume := min(remaining, lvl.Qty)
		if consume <= 0 {
			continue
		}
		filledQty += consume
		notional += consume * lvl.Price
		remaining -= consume
		levelsCrossed++
	}

	if filledQty <= 0 {
		return Rejected(p.Side, RejectNoLiquidity)
	}
	if m.rejectOnInsufficientDepth && remaining > EpsQty {
		return Rejected(p.Side, RejectNoLiquidity)
	}

	vwap := notional / filledQty

	bestOpposing, _ := book.TopOfBook(p.Side.Opposite())
	var slippageTicks float64
	if m.tickSize > 0 && bestOpposing > 0 {
		switch p.Side {
		case Buy:
			slippageTicks = (vwap - bestOpposing) / m.tickSize
		case Sell:
			slippageTicks = (bestOpposing - vwap) / m.tickSize
		}
	}

	return Fill{
		Status:        FillFilled,
		Side:          p.Side,
		Liquidity:     Taker,
		VWAPPrice:     vwap,
		FilledQty:     filledQty,
		UnfilledQty:   remaining,
		Partial:       remaining > EpsQty,
		LevelsCrossed: levelsCrossed,
		SlippageTicks: slippageTicks,
	}
}

// sideLevels returns the opposing depth a taker Action on side walks: asks
// for a Buy, bids for a Sell.
func sideLevels(side Side, book Book) []PriceLevel {
	if side == Buy {
		return book.Asks
	}
	return book.Bids
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
