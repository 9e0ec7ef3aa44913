package engine

import "math"

// FeeRounding selects how a computed fee is rounded before being recorded.
type FeeRounding string

const (
	RoundingNone      FeeRounding = "none"
	RoundingCeilCent  FeeRounding = "ceil_to_cent"
)

// FeeConfig holds the venue's fee schedule.
type FeeConfig struct {
	MakerBps float64
	TakerBps float64
	FeeCcy   string
	Rounding FeeRounding
}

// FeeResult is the fee charged on one Filled fill plus its effective bps
// after rounding.
type FeeResult struct {
	Fee        float64
	EffectiveBps float64
}

// FeeModel computes fees from an explicit schedule.
type FeeModel struct {
	cfg FeeConfig
}

// NewFeeModel builds a FeeModel from an explicit config.
func NewFeeModel(cfg FeeConfig) *FeeModel {
	return &FeeModel{cfg: cfg}
}

// Compute returns a zero FeeResult unless fill is Filled with a positive
// filled quantity and vwap price.
func (f *FeeModel) Compute(fill Fill) FeeResult {
	if fill.Status != FillFilled || fill.FilledQty <= 0 || fill.VWAPPrice <= 0 {
		return FeeResult{}
	}

	bps := f.cfg.TakerBps
	if fill.Liquidity == Maker {
		bps = f.cfg.MakerBps
	}

	notional := fill.VWAPPrice * fill.FilledQty
	fee := notional * (bps / 1e4)
	fee = f.round(fee)

	effectiveBps := 0.0
	if notional > 0 {
		effectiveBps = fee / notional * 1e4
	}

	return FeeResult{Fee: fee, EffectiveBps: effectiveBps}
}

func (f *FeeModel) round(fee float64) float64 {
	if f.cfg.Rounding == RoundingCeilCent {
		return math.Ceil(fee*100) / 100
	}
	return fee
}
