// Package transport implements the optional outbound feature-snapshot
// publisher and inbound action reader. Both are no-ops when no broker
// address is configured; the core runs identically either way.
package transport

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/edirent/helix/internal/engine"
	"github.com/edirent/helix/internal/obs/logger"
)

// FeatureSnapshot is the read-only state a caller hands to Publisher.Offer
// for out-of-process feature/decision consumers.
type FeatureSnapshot struct {
	TsMs       int64          `json:"ts_ms"`
	BestBid    float64        `json:"best_bid"`
	BestAsk    float64        `json:"best_ask"`
	Mid        float64        `json:"mid"`
	Position   engine.Position `json:"position"`
	RecentFills []*engine.FillRow `json:"recent_fills,omitempty"`
}

// Publisher forwards FeatureSnapshots to a Kafka topic in the background.
// A nil writer makes every method a no-op.
type Publisher struct {
	writer *kafka.Writer
	ch     chan FeatureSnapshot
	log    *logger.Logger
	done   chan struct{}
}

// NewPublisher builds a Publisher. If brokers is empty, the returned
// Publisher drops every offered snapshot and Start is a no-op.
func NewPublisher(brokers []string, topic string, log *logger.Logger) *Publisher {
	p := &Publisher{
		ch:   make(chan FeatureSnapshot, 256),
		log:  log,
		done: make(chan struct{}),
	}
	if len(brokers) == 0 || topic == "" {
		return p
	}
	p.writer = &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return p
}

// Offer enqueues snap for publishing, dropping it if the buffer is full —
// the publisher must never slow down the scheduler's tick loop.
func (p *Publisher) Offer(snap FeatureSnapshot) {
	if p.writer == nil {
		return
	}
	select {
	case p.ch <- snap:
	default:
		if p.log != nil {
			p.log.Warn("feature snapshot dropped, publisher buffer full")
		}
	}
}

// Start launches the background forwarding goroutine. Safe to call on a
// disabled Publisher (returns immediately).
func (p *Publisher) Start(ctx context.Context) {
	if p.writer == nil {
		return
	}
	go p.run(ctx)
}

func (p *Publisher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(p.done)
			return
		case snap := <-p.ch:
			payload, err := json.Marshal(snap)
			if err != nil {
				continue
			}
			writeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			err = p.writer.WriteMessages(writeCtx, kafka.Message{Value: payload})
			cancel()
			if err != nil && p.log != nil {
				p.log.Warn("feature snapshot publish failed", logger.Field{Key: "error", Value: err.Error()})
			}
		}
	}
}

// Close releases the underlying writer, if any.
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
