package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/edirent/helix/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFillsProducesHeaderPlusOneRowPerFill(t *testing.T) {
	dir := t.TempDir()
	rows := []*engine.FillRow{
		{OrderID: 1, TsMs: 100, Seq: 1, Status: engine.FillFilled, Side: engine.Buy, Liquidity: engine.Taker,
			Src: "pending_taker", VWAP: 100.0, FilledQty: 5, Crossing: true, LevelsCrossed: 2},
		{OrderID: 2, TsMs: 200, Seq: 2, Status: engine.FillRejected, Side: engine.Sell, Reason: engine.RejectNoLiquidity},
	}

	require.NoError(t, WriteFills(dir, rows))

	f, err := os.Open(filepath.Join(dir, "fills.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 rows

	assert.Equal(t, fillsHeader, records[0])

	colOf := func(name string) int {
		for i, h := range fillsHeader {
			if h == name {
				return i
			}
		}
		t.Fatalf("no such column %q", name)
		return -1
	}

	assert.Equal(t, "filled", records[1][colOf("status")])
	assert.Equal(t, "1", records[1][colOf("crossing")])
	assert.Equal(t, "rejected", records[2][colOf("status")])
	assert.Equal(t, string(engine.RejectNoLiquidity), records[2][colOf("reason")])
}
