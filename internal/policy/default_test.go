package policy

import (
	"testing"

	"github.com/edirent/helix/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookWithTop() engine.Book {
	return engine.Book{BestBid: 99.95, BidSize: 10, BestAsk: 100.05, AskSize: 10}
}

func TestPeriodicMakerAlternatesSidesEveryInterval(t *testing.T) {
	p := &PeriodicMaker{IntervalMs: 1000, Size: 1, TickSize: 0.01}

	a1, ok := p.NextAction(engine.PolicyContext{Book: bookWithTop(), NowTs: 0})
	require.True(t, ok)
	assert.Equal(t, engine.Buy, a1.Place.Side)

	_, ok = p.NextAction(engine.PolicyContext{Book: bookWithTop(), NowTs: 500})
	assert.False(t, ok) // still inside interval

	a2, ok := p.NextAction(engine.PolicyContext{Book: bookWithTop(), NowTs: 1000})
	require.True(t, ok)
	assert.Equal(t, engine.Sell, a2.Place.Side)
}

func TestPeriodicMakerWithholdsOnEmptyBook(t *testing.T) {
	p := &PeriodicMaker{IntervalMs: 1000, Size: 1}
	_, ok := p.NextAction(engine.PolicyContext{Book: engine.Book{}, NowTs: 0})
	assert.False(t, ok)
}

func TestNotionalTakerFiresOnceAtOrAfterTrigger(t *testing.T) {
	n := &NotionalTaker{TriggerTs: 1000, TargetNotional: 1000, Side: engine.Buy}

	_, ok := n.NextAction(engine.PolicyContext{Book: bookWithTop(), NowTs: 500})
	assert.False(t, ok)

	a, ok := n.NextAction(engine.PolicyContext{Book: bookWithTop(), NowTs: 1000})
	require.True(t, ok)
	assert.InDelta(t, 1000.0/100.05, a.Place.Size, 1e-9)
	assert.Equal(t, 1000.0, a.Place.TargetNotional)

	_, ok = n.NextAction(engine.PolicyContext{Book: bookWithTop(), NowTs: 2000})
	assert.False(t, ok) // already fired
}
