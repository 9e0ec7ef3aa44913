// Package ingest parses the run's file-based inputs: book deltas, trade
// prints, venue rules, and the latency fit. Every parser tolerates a
// headerless file by falling back to a fixed positional column order, the
// same convention the reference tick replayer uses.
package ingest

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/edirent/helix/internal/engine"
)

// LoadBookDeltas reads a book-deltas CSV from path, recognizing named
// columns (ts_ms, seq, prev_seq, type, book_side/side, price, size) when a
// header row is present, and falling back to that fixed positional order
// otherwise. Rows with an unparseable side are skipped. Returns an empty
// slice, not an error, for a missing or empty file — callers fall back to
// SeedSyntheticBook.
func LoadBookDeltas(path string) ([]engine.BookDelta, error) {
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

	var deltas []engine.BookDelta
	if !headerPresent {
		if d, ok := parseBookDeltaRow(first, nil); ok {
			deltas = append(deltas, d)
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
		d, ok := parseBookDeltaRow(rec, cols)
		if !ok {
			continue
		}
		deltas = append(deltas, d)
	}
	return deltas, nil
}

type colIndex map[string]int

func columnIndex(header []string) colIndex {
	idx := make(colIndex, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func looksLikeHeader(fields []string) bool {
	for _, f := range fields {
		for _, r := range f {
			if unicode.IsLetter(r) {
				return true
			}
		}
	}
	return false
}

// parseBookDeltaRow parses one CSV record. cols == nil means positional
// fallback: ts_ms, seq, prev_seq, type, side, price, size.
func parseBookDeltaRow(rec []string, cols colIndex) (engine.BookDelta, bool) {
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

	sideField := get("book_side", 4)
	if sideField == "" {
		sideField = get("side", 4)
	}
	side, ok := parseSideChar(sideField)
	if !ok {
		return engine.BookDelta{}, false
	}

	typeField := strings.ToLower(strings.TrimSpace(get("type", 3)))
	isSnapshot := typeField == "snapshot" || typeField == "snap" || typeField == "full"

	return engine.BookDelta{
		TsMs:       parseInt64(get("ts_ms", 0), 0),
		Seq:        parseInt64(get("seq", 1), -1),
		PrevSeq:    parseInt64(get("prev_seq", 2), -1),
		IsSnapshot: isSnapshot,
		Side:       side,
		Price:      parseFloat(get("price", 5), 0),
		Qty:        parseFloat(get("size", 6), 0),
	}, true
}

func parseSideChar(s string) (engine.Side, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return engine.SideUnknown, false
	}
	switch unicode.ToLower(rune(s[0])) {
	case 'b':
		return engine.Buy, true
	case 'a':
		return engine.Sell, true
	default:
		return engine.SideUnknown, false
	}
}

func parseInt64(s string, def int64) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return def
	}
	return v
}

func parseFloat(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return v
}

// SeedSyntheticBook produces a short synthetic book-delta trajectory for
// runs with no usable input file, mirroring the reference replayer's
// fallback shape: five snapshots 100 ms apart, each shifting both sides up
// by 0.1 at a constant 0.5 spread.
func SeedSyntheticBook() []engine.BookDelta {
	var deltas []engine.BookDelta
	for i := 0; i < 5; i++ {
		bestBid := 100.0 + float64(i)*0.1
		bestAsk := 100.5 + float64(i)*0.1
		bidSize := 10.0 + float64(i)
		askSize := 12.0 - float64(i)*0.5
		tsMs := int64(1000 + i*100)
		seq := int64(i + 1)

		deltas = append(deltas,
			engine.BookDelta{Seq: seq, PrevSeq: seq - 1, IsSnapshot: true, TsMs: tsMs, Side: engine.Buy, Price: bestBid, Qty: bidSize},
			engine.BookDelta{Seq: seq, PrevSeq: seq, TsMs: tsMs, Side: engine.Sell, Price: bestAsk, Qty: askSize},
		)
	}
	return deltas
}
