package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edirent/helix/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMetricsEncodesSummaryFlatWithRunMetadata(t *testing.T) {
	dir := t.TempDir()
	doc := MetricsDoc{
		RunID:  "run123",
		Symbol: "SIM",
		LatencyCfg: engine.LatencyConfig{BaseMs: 8, JitterMs: 4, TailMs: 12, TailProb: 0.02},
		Summary: engine.Summary{Fees: 1.5, NetTotal: 10, IdentityOK: true},
	}
	require.NoError(t, WriteMetrics(dir, doc))

	raw, err := os.ReadFile(filepath.Join(dir, "metrics.json"))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "run123", decoded["run_id"])
	assert.Equal(t, "SIM", decoded["symbol"])
	assert.InDelta(t, 1.5, decoded["fees"], 1e-9)
	assert.Equal(t, true, decoded["identity_ok"])
}

func TestWriteLatencySamplesWritesOneFloatPerLine(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteLatencySamples(dir, []float64{1.5, 2.25, 3}))

	raw, err := os.ReadFile(filepath.Join(dir, "latency_samples.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "1.5", lines[0])
	assert.Equal(t, "2.25", lines[1])
	assert.Equal(t, "3", lines[2])
}
