package ingest

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/edirent/helix/internal/engine"
)

// LoadLatencyFit reads a latency-fit text file containing base_ms,
// jitter_ms, tail_ms, tail_prob as "key value" or "key=value" lines in any
// order. Missing keys are left at zero.
func LoadLatencyFit(path string) (engine.LatencyConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return engine.LatencyConfig{}, err
	}
	defer f.Close()

	var cfg engine.LatencyConfig
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ' ' || r == '=' || r == ':' || r == '\t'
		})
		if len(fields) < 2 {
			continue
		}
		key := strings.ToLower(fields[0])
		val, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		switch key {
		case "base_ms":
			cfg.BaseMs = val
		case "jitter_ms":
			cfg.JitterMs = val
		case "tail_ms":
			cfg.TailMs = val
		case "tail_prob":
			cfg.TailProb = val
		}
	}
	return cfg, scanner.Err()
}
