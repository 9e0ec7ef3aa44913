// Package config loads run-level knobs that are not a property of a venue
// or a symbol (those live in the venue-rules and latency-fit files parsed by
// internal/ingest). Tick size, fees and latency parameters are not in this
// struct; the risk caps and maker parameters it does carry are required and
// have no envDefault.
package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds process-level settings sourced from the environment.
type Config struct {
	RunID              string `env:"RUN_ID"`
	Symbol             string `env:"SYMBOL,required"`
	BookDeltasPath     string `env:"BOOK_DELTAS_PATH,required"`
	TradePrintsPath    string `env:"TRADE_PRINTS_PATH"`
	VenueRulesPath     string `env:"VENUE_RULES_PATH,required"`
	LatencyFitPath     string `env:"LATENCY_FIT_PATH,required"`
	OutputRoot         string `env:"OUTPUT_ROOT" envDefault:"./runs"`
	BookcheckEvery      int    `env:"BOOKCHECK_EVERY" envDefault:"0"`
	BookcheckPath       string `env:"BOOKCHECK_PATH"`
	AdverseHorizonMs   int64  `env:"ADVERSE_HORIZON_MS,required"`
	StrictDrain        bool   `env:"STRICT_DRAIN" envDefault:"true"`
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`
	KafkaBrokers       string `env:"KAFKA_BROKERS"`
	KafkaFeatureTopic  string `env:"KAFKA_FEATURE_TOPIC" envDefault:"helix.features"`
	KafkaActionTopic   string `env:"KAFKA_ACTION_TOPIC"`

	RiskMaxPosition float64 `env:"RISK_MAX_POSITION,required"`
	RiskMaxNotional float64 `env:"RISK_MAX_NOTIONAL,required"`

	MakerQInit    float64 `env:"MAKER_Q_INIT,required"`
	MakerAlpha    float64 `env:"MAKER_ALPHA,required"`
	MakerExpireMs int64   `env:"MAKER_EXPIRE_MS,required"`
	MakerAdvTicks float64 `env:"MAKER_ADV_TICKS,required"`

	RejectOnInsufficientDepth bool `env:"REJECT_ON_INSUFFICIENT_DEPTH" envDefault:"false"`
}

// Load reads Config from the environment, optionally seeded by a .env file
// in the current working directory. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
