package engine

// TapeAligner maintains a monotonic cursor over a time-sorted slice of
// TradePrint, draining everything up to a caller-supplied book timestamp.
type TapeAligner struct {
	trades []TradePrint
	cursor int
}

// NewTapeAligner wraps a time-sorted slice of trades. The caller owns the
// slice; it must be sorted by TsMs ascending.
func NewTapeAligner(trades []TradePrint) *TapeAligner {
	return &TapeAligner{trades: trades}
}

// DrainUpTo returns all trades with TsMs <= ts and advances the cursor past them.
func (a *TapeAligner) DrainUpTo(ts int64) []TradePrint {
	start := a.cursor
	for a.cursor < len(a.trades) && a.trades[a.cursor].TsMs <= ts {
		a.cursor++
	}
	if start == a.cursor {
		return nil
	}
	return a.trades[start:a.cursor]
}

// Remaining reports how many trades have not yet been drained.
func (a *TapeAligner) Remaining() int {
	return len(a.trades) - a.cursor
}
