package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/edirent/helix/internal/engine"
)

var fillsHeader = []string{
	"order_id", "ts_ms", "seq", "status", "side", "liquidity", "src", "reason",
	"vwap", "filled_qty", "unfilled_qty", "fee", "fee_bps", "gross", "net",
	"exec_cost_ticks_signed", "mid", "best", "spread_paid_ticks", "slip_ticks",
	"target_notional", "filled_notional", "crossing", "levels_crossed",
	"adv_ticks", "queue_time_ms", "adv_selection_ticks",
}

// WriteFills writes rows to dir/fills.csv.
func WriteFills(dir string, rows []*engine.FillRow) error {
	f, err := os.Create(filepath.Join(dir, "fills.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(fillsHeader); err != nil {
		return err
	}

	for _, r := range rows {
		crossing := "0"
		if r.Crossing {
			crossing = "1"
		}
		rec := []string{
			strconv.FormatInt(r.OrderID, 10),
			strconv.FormatInt(r.TsMs, 10),
			strconv.FormatInt(r.Seq, 10),
			fillStatusString(r.Status),
			r.Side.String(),
			r.Liquidity.String(),
			r.Src,
			string(r.Reason),
			formatFloat(r.VWAP),
			formatFloat(r.FilledQty),
			formatFloat(r.UnfilledQty),
			formatFloat(r.Fee),
			formatFloat(r.FeeBps),
			formatFloat(r.Gross),
			formatFloat(r.Net),
			formatFloat(r.ExecCostTicksSigned),
			formatFloat(r.Mid),
			formatFloat(r.Best),
			formatFloat(r.SpreadPaidTicks),
			formatFloat(r.SlipTicks),
			formatFloat(r.TargetNotional),
			formatFloat(r.FilledNotional),
			crossing,
			strconv.Itoa(r.LevelsCrossed),
			formatFloat(r.AdvTicks),
			formatFloat(r.QueueTimeMs),
			formatFloat(r.AdvSelectionTicks),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Error()
}

func fillStatusString(s engine.FillStatus) string {
	if s == engine.FillFilled {
		return "filled"
	}
	return "rejected"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
