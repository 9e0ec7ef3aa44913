package ingest

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/edirent/helix/internal/engine"
	"gopkg.in/yaml.v3"
)

// VenueRules is one symbol's resolved rules plus its fee schedule, as found
// under venue -> symbol in the indented-KV (or YAML) venue-rules file.
type VenueRules struct {
	Venue  string
	Symbol string
	Rules  engine.RulesConfig
	Fee    engine.FeeConfig
}

// LoadVenueRules reads path and returns the rules for symbol. It tries YAML
// first (".yaml"/".yml" extension), otherwise parses the indented key-value
// format: a venue name at column 0, a symbol name indented once under it,
// and tick_size/qty_step/min_qty/min_notional plus a "fee" sub-block
// indented under the symbol.
func LoadVenueRules(path, symbol string) (VenueRules, error) {
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return loadVenueRulesYAML(path, symbol)
	}
	return loadVenueRulesIndented(path, symbol)
}

type yamlFeeBlock struct {
	MakerBps float64 `yaml:"maker_bps"`
	TakerBps float64 `yaml:"taker_bps"`
	FeeCcy   string  `yaml:"fee_ccy"`
	Rounding string  `yaml:"rounding"`
}

type yamlSymbolBlock struct {
	TickSize     float64      `yaml:"tick_size"`
	QtyStep      float64      `yaml:"qty_step"`
	MinQty       float64      `yaml:"min_qty"`
	MinNotional  float64      `yaml:"min_notional"`
	PriceBandBps float64      `yaml:"price_band_bps"`
	Fee          yamlFeeBlock `yaml:"fee"`
}

func loadVenueRulesYAML(path, symbol string) (VenueRules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return VenueRules{}, err
	}

	var doc map[string]map[string]yamlSymbolBlock
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return VenueRules{}, err
	}

	for venue, symbols := range doc {
		if blk, ok := symbols[symbol]; ok {
			return VenueRules{
				Venue:  venue,
				Symbol: symbol,
				Rules: engine.RulesConfig{
					TickSize: blk.TickSize, QtyStep: blk.QtyStep,
					MinQty: blk.MinQty, MinNotional: blk.MinNotional, PriceBandBps: blk.PriceBandBps,
				},
				Fee: engine.FeeConfig{
					MakerBps: blk.Fee.MakerBps, TakerBps: blk.Fee.TakerBps,
					FeeCcy: blk.Fee.FeeCcy, Rounding: parseRounding(blk.Fee.Rounding),
				},
			}, nil
		}
	}
	return VenueRules{}, os.ErrNotExist
}

// loadVenueRulesIndented parses the line-oriented format by tracking
// indent depth: depth 0 is a venue name, depth 1 under a venue is a symbol
// name, depth 2 under a symbol is a rule key=value, and a "fee" key at
// depth 2 opens a depth-3 fee sub-block.
func loadVenueRulesIndented(path, symbol string) (VenueRules, error) {
	f, err := os.Open(path)
	if err != nil {
		return VenueRules{}, err
	}
	defer f.Close()

	var (
		venue       string
		inSymbol    bool
		inFeeBlock  bool
		rules       engine.RulesConfig
		fee         engine.FeeConfig
		found       bool
	)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		raw := scanner.Text()
		if strings.TrimSpace(raw) == "" || strings.HasPrefix(strings.TrimSpace(raw), "#") {
			continue
		}
		depth := indentDepth(raw)
		trimmed := strings.TrimSpace(raw)

		switch depth {
		case 0:
			venue = trimmed
			inSymbol = false
			inFeeBlock = false
		case 1:
			inSymbol = trimmed == symbol
			inFeeBlock = false
			if inSymbol {
				found = true
			}
		default:
			if !inSymbol {
				continue
			}
			key, val, ok := splitKV(trimmed)
			if !ok {
				if trimmed == "fee" || trimmed == "fee:" {
					inFeeBlock = true
				}
				continue
			}
			if depth >= 3 || inFeeBlock {
				applyFeeKey(&fee, key, val)
			} else {
				applyRuleKey(&rules, key, val)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return VenueRules{}, err
	}
	if !found {
		return VenueRules{}, os.ErrNotExist
	}

	return VenueRules{Venue: venue, Symbol: symbol, Rules: rules, Fee: fee}, nil
}

func indentDepth(line string) int {
	n := 0
	for _, r := range line {
		if r == ' ' {
			n++
		} else if r == '\t' {
			n += 4
		} else {
			break
		}
	}
	return n / 2
}

func splitKV(s string) (key, val string, ok bool) {
	s = strings.TrimSuffix(s, ":")
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		parts = strings.SplitN(s, "=", 2)
	}
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

func applyRuleKey(r *engine.RulesConfig, key, val string) {
	f, _ := strconv.ParseFloat(val, 64)
	switch key {
	case "tick_size":
		r.TickSize = f
	case "qty_step":
		r.QtyStep = f
	case "min_qty":
		r.MinQty = f
	case "min_notional":
		r.MinNotional = f
	case "price_band_bps":
		r.PriceBandBps = f
	}
}

func applyFeeKey(fee *engine.FeeConfig, key, val string) {
	switch key {
	case "maker_bps":
		fee.MakerBps, _ = strconv.ParseFloat(val, 64)
	case "taker_bps":
		fee.TakerBps, _ = strconv.ParseFloat(val, 64)
	case "fee_ccy":
		fee.FeeCcy = val
	case "rounding":
		fee.Rounding = parseRounding(val)
	}
}

func parseRounding(s string) engine.FeeRounding {
	if strings.TrimSpace(s) == string(engine.RoundingCeilCent) {
		return engine.RoundingCeilCent
	}
	return engine.RoundingNone
}
