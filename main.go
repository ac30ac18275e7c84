package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/pthm-cable/anthill/config"
	"github.com/pthm-cable/anthill/game"
	"github.com/pthm-cable/anthill/mapgen"
	"github.com/pthm-cable/anthill/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	mapSeed := flag.String("seed", "", "Map seed (empty = random)")
	rngSeed := flag.Int64("rng-seed", 0, "Agent RNG seed (0 = time-based)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for bookmark snapshots (default: <output-dir>/snapshots)")
	restore := flag.String("restore", "", "Snapshot file whose map replaces the generated one")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and snapshots")
	incremental := flag.Bool("incremental", false, "Generate maps phase by phase")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	mapTimeout := flag.Duration("map-timeout", time.Minute, "Maximum wait for the first map")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var snap *telemetry.Snapshot
	if *restore != "" {
		var err error
		snap, err = telemetry.LoadSnapshot(*restore)
		if err != nil {
			slog.Error("failed to load snapshot", "path", *restore, "error", err)
			os.Exit(1)
		}
	}

	// A restored map replaces generation entirely.
	seed := *mapSeed
	if snap != nil {
		seed = ""
	} else if seed == "" {
		seed = mapgen.RandomSeed(rand.New(rand.NewSource(time.Now().UnixNano())))
	}

	sim := game.NewSimulation(game.Options{
		MapSeed:        seed,
		RNGSeed:        *rngSeed,
		Incremental:    *incremental,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		SnapshotDir:    *snapshotDir,
	})
	defer sim.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if snap != nil {
		if err := sim.RestoreMap(snap); err != nil {
			slog.Error("failed to restore snapshot", "path", *restore, "error", err)
			return
		}
	} else {
		waitCtx, cancel := context.WithTimeout(ctx, *mapTimeout)
		err := sim.WaitForMap(waitCtx)
		cancel()
		if err != nil {
			slog.Error("map generation failed", "seed", seed, "error", err)
			return
		}
	}

	slog.Info("starting simulation",
		"map_seed", sim.MapSeed(),
		"rng_seed", *rngSeed,
		"max_ticks", *maxTicks,
	)

	for ctx.Err() == nil {
		sim.Step()

		if *maxTicks > 0 && int(sim.Tick()) >= *maxTicks {
			slog.Info("max ticks reached", "tick", sim.Tick())
			break
		}
	}

	c := sim.Colony()
	slog.Info("simulation finished",
		"tick", sim.Tick(),
		"ants", c.Count(),
		"colony_food", c.Food(),
		"total_ants", c.TotalAnts(),
		"total_food", c.TotalFood(),
		"total_starved", c.TotalStarved(),
	)
}
