package engine

// ActionKind tags which of the three disjoint payloads an Action carries.
// Place/Cancel/Replace are distinct payload types behind a sum type so a
// caller physically cannot read a field that doesn't apply to the kind it
// holds.
type ActionKind int

const (
	ActionPlace ActionKind = iota
	ActionCancel
	ActionReplace
)

// PlaceOrder is the payload for ActionPlace.
type PlaceOrder struct {
	Side           Side
	Type           OrderType
	Size           float64
	LimitPrice     float64 // 0 for Market
	IsMaker        bool
	PostOnly       bool
	ReduceOnly     bool
	TargetNotional float64 // optional, 0 if unset
}

// CancelOrder is the payload for ActionCancel.
type CancelOrder struct {
	TargetOrderID int64
}

// ReplaceOrder is the payload for ActionReplace.
type ReplaceOrder struct {
	TargetOrderID int64
	NewPrice      float64 // <=0 keeps the existing price
	NewQty        float64 // <=0 keeps the remaining qty
}

// Action is a tagged union over PlaceOrder/CancelOrder/ReplaceOrder. Exactly
// one of Place/Cancel/Replace is non-nil, selected by Kind.
type Action struct {
	Kind    ActionKind
	Place   *PlaceOrder
	Cancel  *CancelOrder
	Replace *ReplaceOrder
}

// NewPlaceAction builds an Action carrying a PlaceOrder.
func NewPlaceAction(p PlaceOrder) Action {
	return Action{Kind: ActionPlace, Place: &p}
}

// NewCancelAction builds an Action carrying a CancelOrder.
func NewCancelAction(orderID int64) Action {
	return Action{Kind: ActionCancel, Cancel: &CancelOrder{TargetOrderID: orderID}}
}

// NewReplaceAction builds an Action carrying a ReplaceOrder.
func NewReplaceAction(orderID int64, newPrice, newQty float64) Action {
	return Action{Kind: ActionReplace, Replace: &ReplaceOrder{
		TargetOrderID: orderID,
		NewPrice:      newPrice,
		NewQty:        newQty,
	}}
}
