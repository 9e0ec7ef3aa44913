package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFNV1a64PublishedVector(t *testing.T) {
	got := FNV1a64("SIM#1#42")
	require.Equal(t, uint64(0x601A67B1F8D6CE59), got)
	require.Equal(t, uint64(6924961391117258329), got)
}

func TestDeterministicLatencyMsPublishedVector(t *testing.T) {
	cfg := LatencyConfig{BaseMs: 8, JitterMs: 4, TailMs: 12, TailProb: 0.02}
	got := DeterministicLatencyMs("SIM", 1, 42, cfg)
	assert.InDelta(t, 8.471027861442069, got, 1e-9)
}

func TestDeterministicLatencyMsIsPure(t *testing.T) {
	cfg := LatencyConfig{BaseMs: 8, JitterMs: 4, TailMs: 12, TailProb: 0.02}
	a := DeterministicLatencyMs("ETHUSD", 10, 3, cfg)
	b := DeterministicLatencyMs("ETHUSD", 10, 3, cfg)
	assert.Equal(t, a, b)

	c := DeterministicLatencyMs("ETHUSD", 10, 4, cfg)
	assert.NotEqual(t, a, c)
}

func TestDeterministicLatencyMsAlwaysAtLeastBase(t *testing.T) {
	cfg := LatencyConfig{BaseMs: 8, JitterMs: 4, TailMs: 12, TailProb: 0.02}
	for idx := uint64(0); idx < 200; idx++ {
		lat := DeterministicLatencyMs("SYM", 1, idx, cfg)
		assert.GreaterOrEqual(t, lat, cfg.BaseMs)
		assert.LessOrEqual(t, lat, cfg.BaseMs+cfg.JitterMs+cfg.TailMs)
	}
}
