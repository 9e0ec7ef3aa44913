package engine

import (
	"math"
	"sort"
)

// AccountingConfig carries the bucket widths and tick size accounting needs
// but that are not otherwise owned by a single engine component.
type AccountingConfig struct {
	TickSize     float64
	Bucket1Ms    int64 // 1000
	Bucket10Ms   int64 // 10000
}

// FillAccountingRow is the per-fill accounting augmentation the Scheduler
// folds into a fills.csv row.
type FillAccountingRow struct {
	GrossDelta          float64
	Fee                 float64
	NetDelta            float64
	SpreadPaidTicks      float64
	ExecCostTicksSigned  float64
}

// BucketStat summarizes one Sharpe bucket series.
type BucketStat struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Sharpe float64 `json:"sharpe"`
}

// PercentileStat holds p50/p90/p99 of a sample vector.
type PercentileStat struct {
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
	P99 float64 `json:"p99"`
	N   int     `json:"n"`
}

// Accounting accumulates PnL, fee, and diagnostic samples across a run and
// computes the summary metrics written to metrics.json.
type Accounting struct {
	cfg AccountingConfig

	grossCum    float64
	feesCum     float64
	turnoverCum float64

	bucket1s  map[int64]float64
	bucket10s map[int64]float64

	netDeltaSeries []float64

	latencies      []float64
	tradeSkewsMs   []float64
	feeBpsMaker    []float64
	feeBpsTaker    []float64
	execCostMaker  []float64
	execCostTaker  []float64
	filledToTarget []float64
	advSelection   []float64
	makerQueueMs   []float64

	filledCount  int64
	rejectedCount int64
	makerFills   int64
	makerOrders  int64
	rejectCounts map[RejectReason]int64
}

// NewAccounting builds an empty Accounting from an explicit config.
func NewAccounting(cfg AccountingConfig) *Accounting {
	return &Accounting{
		cfg:          cfg,
		bucket1s:     make(map[int64]float64),
		bucket10s:    make(map[int64]float64),
		rejectCounts: make(map[RejectReason]int64),
	}
}

// RecordFill folds a Filled fill into the running aggregates and returns
// the row augmentation for fills.csv.
func (a *Accounting) RecordFill(fill Fill, fee FeeResult, prevPos, newPos Position, mid float64, tsMs int64) FillAccountingRow {
	prevMark := markToMidPnL(prevPos, mid)
	newMark := markToMidPnL(newPos, mid)
	grossDelta := newMark - prevMark
	netDelta := grossDelta - fee.Fee

	a.grossCum += grossDelta
	a.feesCum += fee.Fee
	a.turnoverCum += math.Abs(fill.VWAPPrice * fill.FilledQty)
	a.netDeltaSeries = append(a.netDeltaSeries, netDelta)

	if a.cfg.Bucket1Ms > 0 {
		key := floorDiv(tsMs, a.cfg.Bucket1Ms)
		a.bucket1s[key] += netDelta
	}
	if a.cfg.Bucket10Ms > 0 {
		key := floorDiv(tsMs, a.cfg.Bucket10Ms)
		a.bucket10s[key] += netDelta
	}

	var spreadPaidTicks, execCostSigned float64
	if a.cfg.TickSize > 0 && mid > 0 {
		spreadPaidTicks = math.Abs(fill.VWAPPrice-mid) / a.cfg.TickSize
		switch fill.Side {
		case Buy:
			execCostSigned = (fill.VWAPPrice - mid) / a.cfg.TickSize
		case Sell:
			execCostSigned = (mid - fill.VWAPPrice) / a.cfg.TickSize
		}
	}

	if fill.Liquidity == Maker {
		a.feeBpsMaker = append(a.feeBpsMaker, fee.EffectiveBps)
		a.execCostMaker = append(a.execCostMaker, execCostSigned)
		a.makerFills++
	} else {
		a.feeBpsTaker = append(a.feeBpsTaker, fee.EffectiveBps)
		a.execCostTaker = append(a.execCostTaker, execCostSigned)
	}
	a.filledCount++

	return FillAccountingRow{
		GrossDelta:         grossDelta,
		Fee:                fee.Fee,
		NetDelta:           netDelta,
		SpreadPaidTicks:     spreadPaidTicks,
		ExecCostTicksSigned: execCostSigned,
	}
}

// RecordReject increments the reject counter for reason.
func (a *Accounting) RecordReject(reason RejectReason) {
	a.rejectedCount++
	a.rejectCounts[reason]++
}

// RecordMakerOrderSubmitted increments the maker-orders-submitted counter,
// used for maker_fill_rate.
func (a *Accounting) RecordMakerOrderSubmitted() {
	a.makerOrders++
}

func (a *Accounting) AddLatencySample(ms float64)         { a.latencies = append(a.latencies, ms) }
func (a *Accounting) AddTradeSkewSample(ms float64)       { a.tradeSkewsMs = append(a.tradeSkewsMs, ms) }
func (a *Accounting) AddAdverseSelectionSample(ticks float64) { a.advSelection = append(a.advSelection, ticks) }
func (a *Accounting) AddMakerQueueTimeSample(ms float64)  { a.makerQueueMs = append(a.makerQueueMs, ms) }
func (a *Accounting) AddFilledToTargetSample(ratio float64) { a.filledToTarget = append(a.filledToTarget, ratio) }

// Latencies returns every recorded per-action latency sample, in emission
// order, for writing latency_samples.csv.
func (a *Accounting) Latencies() []float64 { return a.latencies }

// Summary is the full metrics.json payload's numeric core.
type Summary struct {
	Fees       float64 `json:"fees"`
	Gross      float64 `json:"gross"`
	Realized   float64 `json:"realized"`
	Unrealized float64 `json:"unrealized"`
	NetTotal   float64 `json:"net_total"`
	IdentityOK bool    `json:"identity_ok"`

	Sharpe1s  BucketStat `json:"sharpe_1s"`
	Sharpe10s BucketStat `json:"sharpe_10s"`

	MaxDrawdown float64 `json:"max_drawdown"`
	Turnover    float64 `json:"turnover"`

	FillRate      float64 `json:"fill_rate"`
	MakerFillRate float64 `json:"maker_fill_rate"`

	MakerQueueTime     PercentileStat `json:"maker_queue_time"`
	AdverseSelection   PercentileStat `json:"adverse_selection"`
	TradeSkew          PercentileStat `json:"trade_skew_ms"`
	FeeBpsOverall      PercentileStat `json:"fee_bps_overall"`
	FeeBpsMaker        PercentileStat `json:"fee_bps_maker"`
	FeeBpsTaker        PercentileStat `json:"fee_bps_taker"`
	ExecCostOverall    PercentileStat `json:"exec_cost_ticks_overall"`
	ExecCostMaker      PercentileStat `json:"exec_cost_ticks_maker"`
	ExecCostTaker      PercentileStat `json:"exec_cost_ticks_taker"`
	FilledToTargetP99  float64        `json:"filled_to_target_p99"`
	LatencyPercentiles PercentileStat `json:"latency_ms"`

	RejectCounts map[RejectReason]int64 `json:"reject_counts"`
}

// Finalize computes the run's summary metrics from the final Position and
// mid, and asserts the accounting identity.
func (a *Accounting) Finalize(finalPos Position, finalMid float64) Summary {
	realized := finalPos.RealizedPnL
	unrealized := finalPos.Qty * (finalMid - finalPos.AvgPrice)
	netTotal := realized + unrealized - a.feesCum

	s := Summary{
		Fees:       a.feesCum,
		Gross:      a.grossCum,
		Realized:   realized,
		Unrealized: unrealized,
		NetTotal:   netTotal,
		IdentityOK: math.Abs(netTotal-(realized+unrealized-a.feesCum)) <= EpsAccounting,

		Sharpe1s:  sharpeFromBuckets(a.bucket1s),
		Sharpe10s: sharpeFromBuckets(a.bucket10s),

		MaxDrawdown: maxDrawdown(a.netDeltaSeries),
		Turnover:    a.turnoverCum,

		RejectCounts: a.rejectCounts,
	}

	if a.filledCount+a.rejectedCount > 0 {
		s.FillRate = float64(a.filledCount) / float64(a.filledCount+a.rejectedCount)
	}
	if a.makerOrders > 0 {
		s.MakerFillRate = float64(a.makerFills) / float64(a.makerOrders)
	}

	s.MakerQueueTime = percentiles(a.makerQueueMs)
	s.AdverseSelection = percentiles(a.advSelection)
	s.TradeSkew = percentiles(a.tradeSkewsMs)
	s.FeeBpsMaker = percentiles(a.feeBpsMaker)
	s.FeeBpsTaker = percentiles(a.feeBpsTaker)
	s.FeeBpsOverall = percentiles(append(append([]float64{}, a.feeBpsMaker...), a.feeBpsTaker...))
	s.ExecCostMaker = percentiles(a.execCostMaker)
	s.ExecCostTaker = percentiles(a.execCostTaker)
	s.ExecCostOverall = percentiles(append(append([]float64{}, a.execCostMaker...), a.execCostTaker...))
	s.LatencyPercentiles = percentiles(a.latencies)

	ft := percentiles(a.filledToTarget)
	s.FilledToTargetP99 = ft.P99

	return s
}

func markToMidPnL(pos Position, mid float64) float64 {
	return pos.RealizedPnL + pos.Qty*(mid-pos.AvgPrice)
}

func floorDiv(x, bucket int64) int64 {
	q := x / bucket
	if x%bucket != 0 && (x < 0) != (bucket < 0) {
		q--
	}
	return q
}

func sharpeFromBuckets(buckets map[int64]float64) BucketStat {
	values := make([]float64, 0, len(buckets))
	for _, v := range buckets {
		values = append(values, v)
	}
	sort.Float64s(values)

	n := len(values)
	if n < 2 {
		return BucketStat{N: n}
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n - 1)
	std := math.Sqrt(variance)

	stat := BucketStat{N: n, Mean: mean, Std: std}
	if std > 0 {
		stat.Sharpe = mean / std * math.Sqrt(float64(n))
	}
	return stat
}

func maxDrawdown(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	cum := 0.0
	peak := 0.0
	maxDD := 0.0
	for _, v := range series {
		cum += v
		if cum > peak {
			peak = cum
		}
		if dd := peak - cum; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

func percentiles(samples []float64) PercentileStat {
	n := len(samples)
	if n == 0 {
		return PercentileStat{}
	}
	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	return PercentileStat{
		N:   n,
		P50: percentileOf(sorted, 0.50),
		P90: percentileOf(sorted, 0.90),
		P99: percentileOf(sorted, 0.99),
	}
}

// percentileOf interpolates linearly between the two nearest ranks of an
// already-sorted slice.
func percentileOf(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := p * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
