package transport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublisherWithNoBrokersIsANoop(t *testing.T) {
	p := NewPublisher(nil, "", nil)
	p.Start(context.Background())
	p.Offer(FeatureSnapshot{TsMs: 1})
	require.NoError(t, p.Close())
}

func TestPublisherWithNoTopicIsANoop(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "", nil)
	require.NoError(t, p.Close())
}
