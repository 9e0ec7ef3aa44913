package engine

import (
	"sort"

	coreerrors "github.com/edirent/helix/internal/obs/errors"
)

// BookDelta is one row of the book-deltas input stream.
type BookDelta struct {
	Seq        int64
	PrevSeq    int64
	IsSnapshot bool
	TsMs       int64
	Side       Side
	Price      float64
	Qty        float64
}

// Book is the reconstructed, read-only view of the order book exported
// after every applied delta.
type Book struct {
	TsMs     int64
	Seq      int64
	BestBid  float64
	BestAsk  float64
	BidSize  float64
	AskSize  float64
	Bids     []PriceLevel // descending by price
	Asks     []PriceLevel // ascending by price
}

// Mid returns the mid price, or 0 if either side is empty.
func (b Book) Mid() float64 {
	if b.BestBid <= 0 || b.BestAsk <= 0 {
		return 0
	}
	return (b.BestBid + b.BestAsk) / 2
}

// TopOfBook returns the best price and its size for side, or (0,0) if empty.
func (b Book) TopOfBook(side Side) (price, size float64) {
	switch side {
	case Buy:
		return b.BestBid, b.BidSize
	case Sell:
		return b.BestAsk, b.AskSize
	default:
		return 0, 0
	}
}

// LevelQty returns the resting qty at exactly price on side, or 0 if no
// level exists there.
func (b Book) LevelQty(side Side, price float64) float64 {
	levels := b.Bids
	if side == Sell {
		levels = b.Asks
	}
	for _, lvl := range levels {
		if lvl.Price == price {
			return lvl.Qty
		}
	}
	return 0
}

// Reconstructor maintains the live order book from a stream of BookDelta,
// enforcing sequence continuity. It owns the book state exclusively; every
// other component sees Book by read-only value.
type Reconstructor struct {
	bids map[float64]float64
	asks map[float64]float64

	haveApplied  bool
	lastAppliedSeq int64

	current Book

	bookcheckEvery int
	bookcheckSink  func(Book)
	applied        int
}

// NewReconstructor creates an empty Reconstructor. bookcheckEvery > 0 with a
// non-nil sink makes Advance invoke sink every N applied deltas with the
// current book; this is a diagnostic, not a consistency check.
func NewReconstructor(bookcheckEvery int, bookcheckSink func(Book)) *Reconstructor {
	return &Reconstructor{
		bids:           make(map[float64]float64),
		asks:           make(map[float64]float64),
		bookcheckEvery: bookcheckEvery,
		bookcheckSink:  bookcheckSink,
	}
}

// Advance applies delta and rebuilds the exported book. It returns whether
// the delta's level changed: false for a qty=0 remove of an already-absent
// level or a rewrite of a level with its existing qty. A sequence gap or
// negative quantity is fatal.
func (r *Reconstructor) Advance(delta BookDelta) (bool, error) {
	if delta.Qty < 0 {
		return false, coreerrors.New(coreerrors.SeverityFatal, coreerrors.CategorySequencing,
			coreerrors.Detail{Component: "book_reconstructor", Extra: map[string]interface{}{"seq": delta.Seq, "qty": delta.Qty}},
			"negative delta quantity")
	}

	if !delta.IsSnapshot && r.haveApplied && delta.PrevSeq != r.lastAppliedSeq {
		return false, coreerrors.New(coreerrors.SeverityFatal, coreerrors.CategorySequencing,
			coreerrors.Detail{Component: "book_reconstructor", Extra: map[string]interface{}{
				"seq": delta.Seq, "prev_seq": delta.PrevSeq, "last_applied_seq": r.lastAppliedSeq,
			}},
			"sequence gap")
	}

	if delta.IsSnapshot {
		r.bids = make(map[float64]float64)
		r.asks = make(map[float64]float64)
	}

	changed := r.applyLevel(delta.Side, delta.Price, delta.Qty)

	r.haveApplied = true
	r.lastAppliedSeq = delta.Seq
	r.applied++

	ts := delta.TsMs
	if ts == 0 && r.current.TsMs != 0 {
		ts = r.current.TsMs + 1
	}
	r.rebuild(delta.Seq, ts)

	if r.bookcheckEvery > 0 && r.bookcheckSink != nil && r.applied%r.bookcheckEvery == 0 {
		r.bookcheckSink(r.current)
	}

	return changed, nil
}

func (r *Reconstructor) applyLevel(side Side, price, qty float64) bool {
	m := r.bids
	if side == Sell {
		m = r.asks
	}
	prev, existed := m[price]
	if qty == 0 {
		if !existed {
			return false
		}
		delete(m, price)
		return true
	}
	m[price] = qty
	return !existed || prev != qty
}

func (r *Reconstructor) rebuild(seq, tsMs int64) {
	bids := levelsDescending(r.bids)
	asks := levelsAscending(r.asks)

	b := Book{
		TsMs: tsMs,
		Seq:  seq,
		Bids: bids,
		Asks: asks,
	}
	if len(bids) > 0 {
		b.BestBid, b.BidSize = bids[0].Price, bids[0].Qty
	}
	if len(asks) > 0 {
		b.BestAsk, b.AskSize = asks[0].Price, asks[0].Qty
	}
	r.current = b
}

// CurrentBook returns the latest rebuilt book.
func (r *Reconstructor) CurrentBook() Book {
	return r.current
}

func levelsDescending(m map[float64]float64) []PriceLevel {
	out := make([]PriceLevel, 0, len(m))
	for p, q := range m {
		out = append(out, PriceLevel{Price: p, Qty: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	return out
}

func levelsAscending(m map[float64]float64) []PriceLevel {
	out := make([]PriceLevel, 0, len(m))
	for p, q := range m {
		out = append(out, PriceLevel{Price: p, Qty: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out
}
