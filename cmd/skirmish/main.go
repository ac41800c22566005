// Package main provides the skirmish binary, which replays grid battles and
// searches for the smallest loss-free attack boost.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/scenario"
	"github.com/cory-johannsen/skirmish/internal/game/search"
	"github.com/cory-johannsen/skirmish/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = built-in defaults")
	mapPath := flag.String("map", "", "path to a single map text file")
	scenarioPath := flag.String("scenarios", "content/scenarios", "path to a scenario YAML file or directory (ignored when -map is set)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	rules := rulesFrom(cfg.Simulation)
	opts, err := optionsFrom(cfg.Search)
	if err != nil {
		logger.Fatal("invalid search configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalogue(*mapPath, *scenarioPath)
	if err != nil {
		logger.Fatal("loading battles", zap.Error(err))
	}
	logger.Info("battles loaded",
		zap.Int("count", len(cat.Scenarios)),
		zap.Stringer("faction", opts.Faction),
		zap.Int("workers", opts.Workers),
	)

	reports, err := scenario.RunAll(ctx, cat, rules, opts, logger)
	for _, r := range reports {
		printReport(r, opts.Faction)
	}
	if err != nil {
		logger.Fatal("running battles", zap.Error(err))
	}

	elapsed := time.Since(start)
	fmt.Fprintf(os.Stdout, "%d battle(s) in %s\n", len(reports), elapsed)

	if err := scenario.Failed(reports); err != nil {
		logger.Error("expectations not met", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

// loadCatalogue builds a catalogue from a single map file when mapPath is set,
// otherwise from the scenario file or directory at scenarioPath.
func loadCatalogue(mapPath, scenarioPath string) (*scenario.Catalogue, error) {
	if mapPath != "" {
		data, err := os.ReadFile(mapPath)
		if err != nil {
			return nil, fmt.Errorf("reading map %s: %w", mapPath, err)
		}
		s, err := scenario.FromMap(mapPath, string(data))
		if err != nil {
			return nil, err
		}
		cat := &scenario.Catalogue{Scenarios: []*scenario.Scenario{s}}
		return cat, cat.Validate()
	}

	info, err := os.Stat(scenarioPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", scenarioPath, err)
	}
	if info.IsDir() {
		return scenario.LoadFromDir(scenarioPath)
	}
	return scenario.LoadFromFile(scenarioPath)
}

func rulesFrom(c config.SimulationConfig) combat.Rules {
	return combat.Rules{
		HitPoints:   c.HitPoints,
		AttackPower: c.AttackPower,
		MaxRounds:   c.MaxRounds,
	}
}

func optionsFrom(c config.SearchConfig) (search.Options, error) {
	f, err := combat.ParseFaction(c.Faction)
	if err != nil {
		return search.Options{}, err
	}
	return search.Options{
		Faction:    f,
		StartBoost: c.StartBoost,
		MaxBoost:   c.MaxBoost,
		Workers:    c.Workers,
		StopOnLoss: c.StopOnLoss,
	}, nil
}

func printReport(r scenario.Report, f combat.Faction) {
	b := r.Baseline
	fmt.Fprintf(os.Stdout, "%s\n", r.Name)
	fmt.Fprintf(os.Stdout, "  outcome: %d (%s after %d rounds, %d HP left)\n",
		b.Score(), b.State, b.Rounds, b.RemainingHP)
	w := r.Boosted
	fmt.Fprintf(os.Stdout, "  boosted outcome: %d (%s boost %d, attack %d, %d rounds, %d HP left, %d trials)\n",
		w.Outcome.Score(), f, w.Boost, w.AttackPower, w.Outcome.Rounds, w.Outcome.RemainingHP, w.Trials)
	for _, m := range r.Mismatches {
		fmt.Fprintf(os.Stdout, "  MISMATCH %s\n", m)
	}
}
