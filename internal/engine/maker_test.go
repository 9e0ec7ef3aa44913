package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makerBook() Book {
	return Book{
		BestBid: 100.00, BidSize: 10,
		BestAsk: 100.05, AskSize: 10,
		Bids: []PriceLevel{{Price: 100.00, Qty: 10}},
		Asks: []PriceLevel{{Price: 100.05, Qty: 10}},
	}
}

func TestMakerSimSubmitSeedsQueueAheadFromVisibleDepth(t *testing.T) {
	m := NewMakerSim(MakerParams{QInit: 0.5, Alpha: 0.5, ExpireMs: 1000, TickSize: 0.01})
	ro := m.Submit(1, Buy, 100.00, 2, makerBook(), 0)
	assert.InDelta(t, 5.0, ro.QueueAhead, 1e-9) // 10 * 0.5
}

func TestMakerSimCancelRemovesResting(t *testing.T) {
	m := NewMakerSim(MakerParams{QInit: 0.5, ExpireMs: 1000, TickSize: 0.01})
	m.Submit(1, Buy, 100.00, 2, makerBook(), 0)
	m.Cancel(1)
	fills := m.OnBook(makerBook(), 1, nil)
	assert.Empty(t, fills)
}

func TestMakerSimTradeHitPhaseBurnsQueueThenFillsMyQty(t *testing.T) {
	m := NewMakerSim(MakerParams{QInit: 0.5, Alpha: 0.5, ExpireMs: 1000, TickSize: 0.01, AdvTicks: 0})
	m.Submit(1, Buy, 100.00, 2, makerBook(), 0)
	// queue ahead = 5; a sell-aggressor trade of size 6 at 100.00 burns queue then fills my_qty
	fills := m.OnBook(makerBook(), 1, []TradePrint{{AggressorSide: Sell, Price: 100.00, Size: 6}})

	require.Len(t, fills, 1)
	assert.Equal(t, FillFilled, fills[0].Status)
	assert.InDelta(t, 1.0, fills[0].FilledQty, 1e-9) // 6 - 5 queue burned = 1
	assert.InDelta(t, 1.0, fills[0].UnfilledQty, 1e-9)
	assert.True(t, fills[0].Partial)
}

func TestMakerSimDepthDecayPhaseAttributesFillFromUnexplainedShrink(t *testing.T) {
	m := NewMakerSim(MakerParams{QInit: 0, Alpha: 0.5, ExpireMs: 1000, TickSize: 0.01})
	book1 := makerBook()
	m.Submit(1, Buy, 100.00, 2, book1, 0)
	_ = m.OnBook(book1, 0, nil) // seeds prevBid snapshot

	book2 := makerBook()
	book2.Bids = []PriceLevel{{Price: 100.00, Qty: 6}} // level shrank by 4
	fills := m.OnBook(book2, 1, nil)

	require.Len(t, fills, 1)
	// queueBurn = min(0, 0.5*4) = 0 since QueueAhead started at 0; remainder = 4, fillQty = min(2,4) = 2
	assert.InDelta(t, 2.0, fills[0].FilledQty, 1e-9)
}

func TestMakerSimExpiresOrderSilentlyWhenPastExpireTs(t *testing.T) {
	m := NewMakerSim(MakerParams{QInit: 0, ExpireMs: 10, TickSize: 0.01})
	m.Submit(1, Buy, 100.00, 2, makerBook(), 0)
	m.OnBook(makerBook(), 10, nil)

	fills := m.OnBook(makerBook(), 11, []TradePrint{{AggressorSide: Sell, Price: 100.00, Size: 100}})
	assert.Empty(t, fills)
}

func TestMakerSimPriceFillAppliesAdverseSelectionPenalty(t *testing.T) {
	m := NewMakerSim(MakerParams{QInit: 0, AdvTicks: 2, TickSize: 0.01, ExpireMs: 1000})
	m.Submit(1, Buy, 100.00, 2, makerBook(), 0)
	fills := m.OnBook(makerBook(), 1, []TradePrint{{AggressorSide: Sell, Price: 100.00, Size: 2}})

	require.Len(t, fills, 1)
	assert.InDelta(t, 100.02, fills[0].VWAPPrice, 1e-9) // buy penalty adds ticks
}
