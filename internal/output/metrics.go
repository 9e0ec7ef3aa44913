package output

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/edirent/helix/internal/engine"
)

// MetricsDoc is the metrics.json payload: the run's Summary plus the
// run-level metadata the summary itself doesn't carry.
type MetricsDoc struct {
	RunID      string               `json:"run_id"`
	Symbol     string               `json:"symbol"`
	LatencyCfg engine.LatencyConfig `json:"latency_config"`
	OMMetrics  engine.OrderManagerMetrics `json:"order_lifecycle"`
	engine.Summary
}

// WriteMetrics writes doc to dir/metrics.json.
func WriteMetrics(dir string, doc MetricsDoc) error {
	f, err := os.Create(filepath.Join(dir, "metrics.json"))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteLatencySamples writes one float per line to dir/latency_samples.csv.
func WriteLatencySamples(dir string, samples []float64) error {
	f, err := os.Create(filepath.Join(dir, "latency_samples.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	for _, s := range samples {
		if _, err := f.WriteString(formatFloat(s) + "\n"); err != nil {
			return err
		}
	}
	return nil
}
