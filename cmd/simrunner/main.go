// Command simrunner is the entry point of a single simulation run: it
// loads configuration and inputs, wires the engine, drives the Scheduler
// to completion, and writes the run's artifacts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/edirent/helix/internal/config"
	"github.com/edirent/helix/internal/engine"
	"github.com/edirent/helix/internal/ingest"
	coreerrors "github.com/edirent/helix/internal/obs/errors"
	"github.com/edirent/helix/internal/obs/logger"
	"github.com/edirent/helix/internal/output"
	"github.com/edirent/helix/internal/policy"
	"github.com/edirent/helix/internal/transport"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "load config and inputs, skip the run")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if cfg.RunID == "" {
		cfg.RunID = output.NewRunID()
	}
	runDir, err := output.RunDir(cfg.OutputRoot, cfg.RunID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run dir: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{
		Level:       logger.Level(cfg.LogLevel),
		OutputPaths: []string{runDir + "/run.log"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("run starting", logger.Field{Key: "run_id", Value: cfg.RunID}, logger.Field{Key: "symbol", Value: cfg.Symbol})

	if *dryRun {
		log.Info("dry run complete")
		return
	}

	exitCode := run(cfg, runDir, log)
	os.Exit(exitCode)
}

func run(cfg *config.Config, runDir string, log *logger.Logger) int {
	venueRules, err := ingest.LoadVenueRules(cfg.VenueRulesPath, cfg.Symbol)
	if err != nil {
		log.Error(err, logger.Field{Key: "stage", Value: "venue_rules"})
		return 1
	}

	latencyCfg, err := ingest.LoadLatencyFit(cfg.LatencyFitPath)
	if err != nil {
		log.Error(err, logger.Field{Key: "stage", Value: "latency_fit"})
		return 1
	}

	deltas, err := ingest.LoadBookDeltas(cfg.BookDeltasPath)
	if err != nil {
		log.Error(err, logger.Field{Key: "stage", Value: "book_deltas"})
		return 1
	}
	if len(deltas) == 0 {
		log.Info("no book deltas found, seeding synthetic feed")
		deltas = ingest.SeedSyntheticBook()
	}

	trades, err := ingest.LoadTradePrints(cfg.TradePrintsPath)
	if err != nil {
		log.Error(err, logger.Field{Key: "stage", Value: "trade_prints"})
		return 1
	}

	var bookcheckSink func(engine.Book)
	var bookcheckFile *os.File
	if cfg.BookcheckPath != "" {
		bookcheckFile, err = os.Create(cfg.BookcheckPath)
		if err == nil {
			bookcheckSink = func(b engine.Book) {
				fmt.Fprintf(bookcheckFile, "%d,%f,%f,%f,%f\n", b.Seq, b.BestBid, b.BestAsk, b.BidSize, b.AskSize)
			}
			defer bookcheckFile.Close()
		}
	}

	reconstructor := engine.NewReconstructor(cfg.BookcheckEvery, bookcheckSink)
	tape := engine.NewTapeAligner(trades)
	rules := engine.NewRulesEngine(venueRules.Rules)
	matching := engine.NewMatchingEngine(venueRules.Rules.TickSize, cfg.RejectOnInsufficientDepth)
	maker := engine.NewMakerSim(engine.MakerParams{
		QInit: cfg.MakerQInit, Alpha: cfg.MakerAlpha, ExpireMs: cfg.MakerExpireMs,
		AdvTicks: cfg.MakerAdvTicks, TickSize: venueRules.Rules.TickSize,
	})
	om := engine.NewOrderManager()
	risk := engine.NewRiskEngine(engine.RiskConfig{MaxPosition: cfg.RiskMaxPosition, MaxNotional: cfg.RiskMaxNotional})
	fees := engine.NewFeeModel(venueRules.Fee)
	acct := engine.NewAccounting(engine.AccountingConfig{TickSize: venueRules.Rules.TickSize, Bucket1Ms: 1000, Bucket10Ms: 10000})

	defaultPolicy := &policy.PeriodicMaker{IntervalMs: 500, Size: venueRules.Rules.MinQty * 5, TickSize: venueRules.Rules.TickSize}

	sched := engine.NewScheduler(engine.SchedulerConfig{
		Symbol: cfg.Symbol, TickSize: venueRules.Rules.TickSize,
		AdverseHorizonMs: cfg.AdverseHorizonMs, StrictDrain: cfg.StrictDrain, LatencyCfg: latencyCfg,
	}, reconstructor, tape, rules, matching, maker, om, risk, fees, acct, defaultPolicy, nil)

	publisher := transport.NewPublisher(splitBrokers(cfg.KafkaBrokers), cfg.KafkaFeatureTopic, log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	publisher.Start(ctx)
	defer publisher.Close()

	summary, err := sched.Run(deltas)
	if err != nil {
		log.Error(err, logger.Field{Key: "stage", Value: "scheduler"})
		if coreerrors.IsFatal(err) {
			return 1
		}
		return 1
	}

	if err := output.WriteFills(runDir, sched.Rows()); err != nil {
		log.Error(err, logger.Field{Key: "stage", Value: "write_fills"})
		return 1
	}
	if err := output.WriteLatencySamples(runDir, acct.Latencies()); err != nil {
		log.Error(err, logger.Field{Key: "stage", Value: "write_latency_samples"})
		return 1
	}
	if err := output.WriteMetrics(runDir, output.MetricsDoc{
		RunID: cfg.RunID, Symbol: cfg.Symbol, LatencyCfg: latencyCfg,
		OMMetrics: om.Metrics(), Summary: summary,
	}); err != nil {
		log.Error(err, logger.Field{Key: "stage", Value: "write_metrics"})
		return 1
	}

	if !summary.IdentityOK {
		log.Error(coreerrors.New(coreerrors.SeverityFatal, coreerrors.CategoryAccounting,
			coreerrors.Detail{Component: "accounting"}, "accounting identity check failed"))
		return 1
	}

	log.Info("run complete", logger.Field{Key: "run_id", Value: cfg.RunID}, logger.Field{Key: "fills", Value: len(sched.Rows())})
	return 0
}

func splitBrokers(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
