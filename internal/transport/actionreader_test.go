package transport

import (
	"context"
	"testing"

	"github.com/edirent/helix/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionReaderWithNoBrokersReportsNoMessage(t *testing.T) {
	r := NewActionReader(nil, "", "")
	action, ok, err := r.Read(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, engine.Action{}, action)
	require.NoError(t, r.Close())
}

func TestFromWireBuildsPlaceCancelReplaceActions(t *testing.T) {
	place, ok := fromWire(wireAction{Kind: "place", Side: "BUY", Type: "MARKET", Size: 5})
	require.True(t, ok)
	assert.Equal(t, engine.ActionPlace, place.Kind)
	assert.Equal(t, engine.Buy, place.Place.Side)
	assert.Equal(t, engine.Market, place.Place.Type)

	cancel, ok := fromWire(wireAction{Kind: "cancel", TargetOrderID: 7})
	require.True(t, ok)
	assert.Equal(t, int64(7), cancel.Cancel.TargetOrderID)

	replace, ok := fromWire(wireAction{Kind: "replace", TargetOrderID: 7, NewPrice: 101, NewQty: 2})
	require.True(t, ok)
	assert.Equal(t, 101.0, replace.Replace.NewPrice)

	_, ok = fromWire(wireAction{Kind: "unknown"})
	assert.False(t, ok)
}
