package engine

// Fill is the outcome of executing one Action, whether it matched
// immediately (taker) or was produced by the Maker Queue Simulator.
type Fill struct {
	Status       FillStatus
	RejectReason RejectReason
	OrderID      int64
	Side         Side
	Liquidity    Liquidity

	VWAPPrice    float64
	FilledQty    float64
	UnfilledQty  float64
	Partial      bool
	LevelsCrossed int
	SlippageTicks float64
}

// Rejected builds a rejected Fill carrying only side and reason, per the
// data model's "Rejected fills carry only side and reason" note.
func Rejected(side Side, reason RejectReason) Fill {
	return Fill{Status: FillRejected, RejectReason: reason, Side: side}
}
