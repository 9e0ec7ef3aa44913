package ingest

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/edirent/helix/internal/engine"
)

// LoadTradePrints reads an optional trade-prints CSV: ts_ms (non-decreasing),
// aggressor side, price, size, id. Missing file returns an empty slice, not
// an error — the trade tape is optional per the external interface spec.
func LoadTradePrints(path string) ([]engine.TradePrint, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	first, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	headerPresent := looksLikeHeader(first)
	var cols colIndex
	if headerPresent {
		cols = columnIndex(first)
	}

	var trades []engine.TradePrint
	if !headerPresent {
		if t, ok := parseTradeRow(first, nil); ok {
			trades = append(trades, t)
		}
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if t, ok := parseTradeRow(rec, cols); ok {
			trades = append(trades, t)
		}
	}
	return trades, nil
}

func parseTradeRow(rec []string, cols colIndex) (engine.TradePrint, bool) {
	get := func(name string, pos int) string {
		if cols != nil {
			if i, ok := cols[name]; ok && i < len(rec) {
				return rec[i]
			}
			return ""
		}
		if pos < len(rec) {
			return rec[pos]
		}
		return ""
	}

	sideField := strings.ToLower(strings.TrimSpace(get("side", 1)))
	if sideField == "" {
		sideField = strings.ToLower(strings.TrimSpace(get("aggressor_side", 1)))
	}
	var side engine.Side
	switch {
	case strings.HasPrefix(sideField, "b"):
		side = engine.Buy
	case strings.HasPrefix(sideField, "a") || strings.HasPrefix(sideField, "s"):
		side = engine.Sell
	default:
		return engine.TradePrint{}, false
	}

	return engine.TradePrint{
		TsMs:          parseInt64(get("ts_ms", 0), 0),
		AggressorSide: side,
		Price:         parseFloat(get("price", 2), 0),
		Size:          parseFloat(get("size", 3), 0),
		ID:            strings.TrimSpace(get("id", 4)),
	}, true
}
