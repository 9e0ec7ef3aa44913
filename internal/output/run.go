// Package output writes a completed run's artifacts: fills.csv,
// metrics.json, latency_samples.csv, and the run directory they live in.
// run.log is written directly by the ambient logger (internal/obs/logger)
// configured with this package's RunDir.
package output

import (
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
)

// NewRunID generates a fresh run id (a ULID — lexically sortable, unlike
// uuid.NewString, so run directories list in creation order).
func NewRunID() string {
	return ulid.Make().String()
}

// RunDir returns root/runID and ensures it exists.
func RunDir(root, runID string) (string, error) {
	dir := filepath.Join(root, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
