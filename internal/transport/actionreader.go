package transport

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/edirent/helix/internal/engine"
)

// wireAction is the JSON-tagged wire shape for an inbound Action message.
// The reference repo's matching-engine defines this kind of payload via a
// generated protobuf package; no proto definition for this domain shipped
// with the retrieved pack, so plain JSON-tagged structs stand in (see
// DESIGN.md).
type wireAction struct {
	Kind       string  `json:"kind"` // "place", "cancel", "replace"
	Side       string  `json:"side,omitempty"`
	Type       string  `json:"type,omitempty"`
	Size       float64 `json:"size,omitempty"`
	LimitPrice float64 `json:"limit_price,omitempty"`
	IsMaker    bool    `json:"is_maker,omitempty"`
	TargetNotional float64 `json:"target_notional,omitempty"`

	TargetOrderID int64   `json:"target_order_id,omitempty"`
	NewPrice      float64 `json:"new_price,omitempty"`
	NewQty        float64 `json:"new_qty,omitempty"`
}

// ActionReader consumes Actions from a Kafka topic as an alternative to a
// local Policy. A nil reader (no brokers configured) always reports no
// message available.
type ActionReader struct {
	reader *kafka.Reader
}

// NewActionReader builds an ActionReader. If brokers is empty, every Read
// call returns (Action{}, false, nil).
func NewActionReader(brokers []string, topic, groupID string) *ActionReader {
	if len(brokers) == 0 || topic == "" {
		return &ActionReader{}
	}
	return &ActionReader{reader: kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})}
}

// Read fetches and commits the next Action, or reports none available.
func (r *ActionReader) Read(ctx context.Context) (engine.Action, bool, error) {
	if r.reader == nil {
		return engine.Action{}, false, nil
	}
	msg, err := r.reader.FetchMessage(ctx)
	if err != nil {
		return engine.Action{}, false, err
	}

	var w wireAction
	if err := json.Unmarshal(msg.Value, &w); err != nil {
		return engine.Action{}, false, err
	}

	action, ok := fromWire(w)
	if ok {
		_ = r.reader.CommitMessages(ctx, msg)
	}
	return action, ok, nil
}

// Close releases the underlying reader, if any.
func (r *ActionReader) Close() error {
	if r.reader == nil {
		return nil
	}
	return r.reader.Close()
}

func fromWire(w wireAction) (engine.Action, bool) {
	switch w.Kind {
	case "place":
		side := engine.SideUnknown
		if w.Side == "BUY" {
			side = engine.Buy
		} else if w.Side == "SELL" {
			side = engine.Sell
		}
		typ := engine.Limit
		if w.Type == "MARKET" {
			typ = engine.Market
		}
		return engine.NewPlaceAction(engine.PlaceOrder{
			Side: side, Type: typ, Size: w.Size, LimitPrice: w.LimitPrice,
			IsMaker: w.IsMaker, TargetNotional: w.TargetNotional,
		}), true
	case "cancel":
		return engine.NewCancelAction(w.TargetOrderID), true
	case "replace":
		return engine.NewReplaceAction(w.TargetOrderID, w.NewPrice, w.NewQty), true
	default:
		return engine.Action{}, false
	}
}
