package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLatencyFitParsesKeyValueLines(t *testing.T) {
	path := writeTempFile(t, "base_ms 8\njitter_ms=4\ntail_ms: 12\ntail_prob 0.02\n# a comment\n")
	cfg, err := LoadLatencyFit(path)
	require.NoError(t, err)
	assert.Equal(t, 8.0, cfg.BaseMs)
	assert.Equal(t, 4.0, cfg.JitterMs)
	assert.Equal(t, 12.0, cfg.TailMs)
	assert.Equal(t, 0.02, cfg.TailProb)
}

func TestLoadLatencyFitMissingKeysStayZero(t *testing.T) {
	path := writeTempFile(t, "base_ms 5\n")
	cfg, err := LoadLatencyFit(path)
	require.NoError(t, err)
	assert.Equal(t, 5.0, cfg.BaseMs)
	assert.Equal(t, 0.0, cfg.JitterMs)
}
