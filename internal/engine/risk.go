package engine

import "math"

// RiskConfig bounds position and notional exposure. No defaults — explicit
// construction only.
type RiskConfig struct {
	MaxPosition float64
	MaxNotional float64
}

// Position is the Risk Engine's running inventory for the simulated account.
type Position struct {
	Qty         float64
	AvgPrice    float64
	RealizedPnL float64
}

// RiskEngine enforces pre-trade caps and maintains Position across fills.
type RiskEngine struct {
	cfg RiskConfig
	pos Position
}

// NewRiskEngine builds a RiskEngine from an explicit config.
func NewRiskEngine(cfg RiskConfig) *RiskEngine {
	return &RiskEngine{cfg: cfg}
}

// Position returns the current inventory snapshot.
func (r *RiskEngine) Position() Position {
	return r.pos
}

// Validate checks a proposed Action against the position/notional caps
// without mutating state.
func (r *RiskEngine) Validate(p PlaceOrder, lastPrice float64) bool {
	projected := r.pos.Qty + p.Side.Sign()*p.Size
	if math.Abs(projected) > r.cfg.MaxPosition {
		return false
	}
	if math.Abs(projected)*math.Abs(lastPrice) > r.cfg.MaxNotional {
		return false
	}
	return true
}

// Update applies a Filled fill to the Position, realizing PnL on the
// portion that reduces or flips prior exposure. Adds blend into AvgPrice,
// reduces keep it, and a flip opens the remainder at the fill price.
func (r *RiskEngine) Update(fill Fill) {
	signed := fill.Side.Sign() * fill.FilledQty
	prev := r.pos

	closed := math.Min(math.Abs(prev.Qty), math.Abs(signed))
	if closed > 0 && sign(prev.Qty) != sign(signed) {
		realizedDelta := closed * (fill.VWAPPrice - prev.AvgPrice) * sign(prev.Qty)
		r.pos.RealizedPnL += realizedDelta
	}

	newQty := prev.Qty + signed
	switch {
	case newQty == 0:
		r.pos.AvgPrice = 0
	case prev.Qty == 0 || sign(prev.Qty) == sign(signed):
		r.pos.AvgPrice = (prev.AvgPrice*prev.Qty + fill.VWAPPrice*signed) / newQty
	case sign(newQty) == sign(prev.Qty):
		// reduce: the remaining inventory keeps its average price
	default:
		r.pos.AvgPrice = fill.VWAPPrice
	}
	r.pos.Qty = newQty
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
