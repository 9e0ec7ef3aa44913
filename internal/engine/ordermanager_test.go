package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderManagerPlaceThenFillTransitionsToFilled(t *testing.T) {
	om := NewOrderManager()
	o := om.Place(PlaceOrder{Side: Buy, Type: Limit, Size: 10, LimitPrice: 100}, 0, 0)
	require.Equal(t, StatusNew, o.Status)

	err := om.ApplyFill(Fill{Status: FillFilled, OrderID: o.ID, Side: Buy, FilledQty: 10, VWAPPrice: 100}, 10)
	require.NoError(t, err)
	assert.Equal(t, StatusFilled, o.Status)
	assert.Equal(t, int64(1), om.Metrics().Filled)
}

func TestOrderManagerPartialFillThenFullFill(t *testing.T) {
	om := NewOrderManager()
	o := om.Place(PlaceOrder{Side: Buy, Type: Limit, Size: 10, LimitPrice: 100}, 0, 0)

	require.NoError(t, om.ApplyFill(Fill{Status: FillFilled, OrderID: o.ID, Side: Buy, FilledQty: 4, VWAPPrice: 100}, 1))
	assert.Equal(t, StatusPartial, o.Status)

	require.NoError(t, om.ApplyFill(Fill{Status: FillFilled, OrderID: o.ID, Side: Buy, FilledQty: 6, VWAPPrice: 101}, 2))
	assert.Equal(t, StatusFilled, o.Status)
	assert.InDelta(t, (4*100.0+6*101.0)/10.0, o.AvgFillPrice, 1e-9)
}

func TestOrderManagerOverfillIsFatal(t *testing.T) {
	om := NewOrderManager()
	o := om.Place(PlaceOrder{Side: Buy, Type: Limit, Size: 10, LimitPrice: 100}, 0, 0)

	err := om.ApplyFill(Fill{Status: FillFilled, OrderID: o.ID, Side: Buy, FilledQty: 11, VWAPPrice: 100}, 1)
	require.Error(t, err)
}

func TestOrderManagerFillOnTerminalOrderIsFatal(t *testing.T) {
	om := NewOrderManager()
	o := om.Place(PlaceOrder{Side: Buy, Type: Limit, Size: 10, LimitPrice: 100}, 0, 0)
	om.Cancel(o.ID, 1)

	err := om.ApplyFill(Fill{Status: FillFilled, OrderID: o.ID, Side: Buy, FilledQty: 1, VWAPPrice: 100}, 2)
	require.Error(t, err)
}

func TestOrderManagerFillOnUnknownOrderIsFatal(t *testing.T) {
	om := NewOrderManager()
	err := om.ApplyFill(Fill{Status: FillFilled, OrderID: 999, Side: Buy, FilledQty: 1, VWAPPrice: 100}, 1)
	require.Error(t, err)
}

func TestOrderManagerReplaceLinksOldAndNew(t *testing.T) {
	om := NewOrderManager()
	o := om.Place(PlaceOrder{Side: Buy, Type: Limit, Size: 10, LimitPrice: 100}, 0, 0)

	result := om.Replace(o.ID, 101, 5, 1, 0)
	require.True(t, result.Success)
	assert.Equal(t, StatusReplaced, o.Status)
	assert.Equal(t, result.NewOrder.ID, o.ReplacedBy)
	assert.Equal(t, o.ID, result.NewOrder.ReplacedFrom)
	assert.Equal(t, 101.0, result.NewOrder.Price)
	assert.Equal(t, 5.0, result.NewOrder.Qty)
}

func TestOrderManagerReplaceFallsBackToOldPriceAndQty(t *testing.T) {
	om := NewOrderManager()
	o := om.Place(PlaceOrder{Side: Buy, Type: Limit, Size: 10, LimitPrice: 100}, 0, 0)

	result := om.Replace(o.ID, 0, 0, 1, 0)
	require.True(t, result.Success)
	assert.Equal(t, 100.0, result.NewOrder.Price)
	assert.Equal(t, 10.0, result.NewOrder.Qty)
}

func TestOrderManagerExpireOrdersTransitionsPastTTL(t *testing.T) {
	om := NewOrderManager()
	o := om.Place(PlaceOrder{Side: Buy, Type: Limit, Size: 10, LimitPrice: 100}, 0, 500)

	expired := om.ExpireOrders(499)
	assert.Empty(t, expired)
	assert.Equal(t, StatusNew, o.Status)

	expired = om.ExpireOrders(500)
	assert.Equal(t, []int64{o.ID}, expired)
	assert.Equal(t, StatusExpired, o.Status)
}
