package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseBook() Book {
	return Book{
		BestBid: 100.00, BidSize: 10,
		BestAsk: 100.05, AskSize: 10,
	}
}

func TestRulesEngineFloorsBuyPrice(t *testing.T) {
	r := NewRulesEngine(RulesConfig{TickSize: 0.01, QtyStep: 0.001, MinQty: 0.001})
	out, reason := r.Normalize(PlaceOrder{Side: Buy, Type: Limit, Size: 1, LimitPrice: 99.994}, baseBook())
	assert.Equal(t, RejectNone, reason)
	assert.InDelta(t, 99.99, out.LimitPrice, 1e-9)
}

func TestRulesEngineCeilsSellPrice(t *testing.T) {
	r := NewRulesEngine(RulesConfig{TickSize: 0.01, QtyStep: 0.001, MinQty: 0.001})
	out, reason := r.Normalize(PlaceOrder{Side: Sell, Type: Limit, Size: 1, LimitPrice: 100.001}, baseBook())
	assert.Equal(t, RejectNone, reason)
	assert.InDelta(t, 100.01, out.LimitPrice, 1e-9)
}

func TestRulesEngineRejectsBelowMinQty(t *testing.T) {
	r := NewRulesEngine(RulesConfig{TickSize: 0.01, QtyStep: 0.001, MinQty: 1})
	_, reason := r.Normalize(PlaceOrder{Side: Buy, Type: Limit, Size: 0.1, LimitPrice: 100}, baseBook())
	assert.Equal(t, RejectMinQty, reason)
}

func TestRulesEngineRejectsBelowMinNotional(t *testing.T) {
	r := NewRulesEngine(RulesConfig{TickSize: 0.01, QtyStep: 0.001, MinQty: 0.001, MinNotional: 1000})
	_, reason := r.Normalize(PlaceOrder{Side: Buy, Type: Limit, Size: 1, LimitPrice: 100}, baseBook())
	assert.Equal(t, RejectMinNotional, reason)
}

func TestRulesEngineRejectsBadSide(t *testing.T) {
	r := NewRulesEngine(RulesConfig{TickSize: 0.01, QtyStep: 0.001, MinQty: 0.001})
	_, reason := r.Normalize(PlaceOrder{Side: SideUnknown, Size: 1}, baseBook())
	assert.Equal(t, RejectBadSide, reason)
}

func TestRulesEngineMakerWithNoPricePricesAtSameSideTop(t *testing.T) {
	r := NewRulesEngine(RulesConfig{TickSize: 0.01, QtyStep: 0.001, MinQty: 0.001})
	out, reason := r.Normalize(PlaceOrder{Side: Buy, Type: Limit, Size: 1, IsMaker: true}, baseBook())
	assert.Equal(t, RejectNone, reason)
	assert.InDelta(t, 100.00, out.LimitPrice, 1e-9)
}

func TestRulesEngineFloorsQtyToStep(t *testing.T) {
	r := NewRulesEngine(RulesConfig{TickSize: 0.01, QtyStep: 0.1, MinQty: 0.1})
	out, reason := r.Normalize(PlaceOrder{Side: Buy, Type: Limit, Size: 1.27, LimitPrice: 100}, baseBook())
	assert.Equal(t, RejectNone, reason)
	assert.InDelta(t, 1.2, out.Size, 1e-9)
}
