package engine

// MakerParams tunes the maker queue heuristic. There are no defaults;
// callers must supply calibrated values. The resolved struct is not written
// to metrics.json.
type MakerParams struct {
	QInit     float64 // initial queue-ahead fraction, [0,1]
	Alpha     float64 // fraction of depth decay attributed to queue burn, [0,1]
	ExpireMs  int64
	AdvTicks  float64 // adverse-selection penalty, in ticks
	TickSize  float64
}

// RestingOrder is the Maker Sim's own record of a resting order. It is a
// weak reference to an Order Manager entry: OrderID is a lookup key, never
// a back-pointer.
type RestingOrder struct {
	OrderID    int64
	Side       Side
	Price      float64
	MyQty      float64
	QueueAhead float64
	SubmitTs   int64
	ExpireTs   int64
}

// MakerSim simulates resting-order fill probability from queue position,
// observed depth decay, and trade prints.
type MakerSim struct {
	params MakerParams

	resting []*RestingOrder

	prevBid map[float64]float64
	prevAsk map[float64]float64
}

// NewMakerSim builds a MakerSim from explicit params.
func NewMakerSim(params MakerParams) *MakerSim {
	return &MakerSim{
		params:  params,
		prevBid: make(map[float64]float64),
		prevAsk: make(map[float64]float64),
	}
}

// Submit registers a new resting order at price with size my_qty, seeded
// with queue-ahead from the currently visible depth at that price.
func (m *MakerSim) Submit(orderID int64, side Side, price, size float64, book Book, nowTs int64) *RestingOrder {
	levelQty := book.LevelQty(side, price)
	if levelQty == 0 {
		top, topSize := book.TopOfBook(side)
		if top == price {
			levelQty = topSize
		}
	}

	ro := &RestingOrder{
		OrderID:    orderID,
		Side:       side,
		Price:      price,
		MyQty:      size,
		QueueAhead: levelQty * m.params.QInit,
		SubmitTs:   nowTs,
		ExpireTs:   nowTs + m.params.ExpireMs,
	}
	m.resting = append(m.resting, ro)
	return ro
}

// Cancel removes the first resting order matching orderID, if any.
func (m *MakerSim) Cancel(orderID int64) {
	for i, ro := range m.resting {
		if ro.OrderID == orderID {
			m.resting = append(m.resting[:i], m.resting[i+1:]...)
			return
		}
	}
}

// OnBook runs one tick of the fill loop against the current book and the
// trades drained since the last tick, returning any resulting Maker Fills.
func (m *MakerSim) OnBook(book Book, nowTs int64, trades []TradePrint) []Fill {
	var fills []Fill
	var survivors []*RestingOrder

	for _, ro := range m.resting {
		filledQty := m.tradeHitPhase(ro, trades)
		filledQty += m.depthDecayPhase(ro, book)

		if filledQty > 0 {
			fills = append(fills, m.priceFill(ro, filledQty))
		}

		if ro.MyQty > EpsQty && nowTs >= ro.ExpireTs {
			continue // drop silently; Order Manager observes expiry on its own clock
		}
		survivors = append(survivors, ro)
	}

	m.resting = survivors
	m.prevBid = levelMap(book.Bids)
	m.prevAsk = levelMap(book.Asks)

	return fills
}

// tradeHitPhase consumes trade prints crossing the resting price: burn
// queue-ahead first, then fill my_qty with whatever trade size remains.
func (m *MakerSim) tradeHitPhase(ro *RestingOrder, trades []TradePrint) float64 {
	var filled float64
	for _, t := range trades {
		if t.AggressorSide == ro.Side {
			continue // need the opposite aggressor to hit a resting order
		}
		tick := m.params.TickSize
		reached := false
		switch ro.Side {
		case Buy:
			reached = t.Price <= ro.Price+tick
		case Sell:
			reached = t.Price >= ro.Price-tick
		}
		if !reached {
			continue
		}

		burn := min(ro.QueueAhead, t.Size)
		ro.QueueAhead -= burn
		remainder := t.Size - burn
		fillQty := min(ro.MyQty, remainder)
		if fillQty > 0 {
			ro.MyQty -= fillQty
			filled += fillQty
		}
	}
	return filled
}

// depthDecayPhase attributes observed level-size decrease since the prior
// tick partly to queue burn (alpha share) and partly to a candidate fill.
func (m *MakerSim) depthDecayPhase(ro *RestingOrder, book Book) float64 {
	prevMap := m.prevBid
	if ro.Side == Sell {
		prevMap = m.prevAsk
	}
	prevQty := prevMap[ro.Price]
	currQty := book.LevelQty(ro.Side, ro.Price)

	deltaDown := prevQty - currQty
	if deltaDown <= 0 {
		return 0
	}

	queueBurn := min(ro.QueueAhead, m.params.Alpha*deltaDown)
	ro.QueueAhead -= queueBurn

	remainder := deltaDown - queueBurn
	fillQty := min(ro.MyQty, remainder)
	if fillQty > 0 {
		ro.MyQty -= fillQty
	}
	return fillQty
}

// priceFill builds the Fill for filledQty against ro, applying the
// adverse-selection penalty against the taker's favor.
func (m *MakerSim) priceFill(ro *RestingOrder, filledQty float64) Fill {
	penalty := m.params.AdvTicks * m.params.TickSize
	price := ro.Price
	switch ro.Side {
	case Buy:
		price += penalty
	case Sell:
		price -= penalty
	}

	return Fill{
		Status:        FillFilled,
		OrderID:       ro.OrderID,
		Side:          ro.Side,
		Liquidity:     Maker,
		VWAPPrice:     price,
		FilledQty:     filledQty,
		UnfilledQty:   ro.MyQty,
		Partial:       ro.MyQty > EpsQty,
		LevelsCrossed: 1,
		SlippageTicks: 0,
	}
}

func levelMap(levels []PriceLevel) map[float64]float64 {
	m := make(map[float64]float64, len(levels))
	for _, lvl := range levels {
		m[lvl.Price] = lvl.Qty
	}
	return m
}
