// Package game ties the grid, the colony and map generation into a
// fixed-step simulation.
package game

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/anthill/colony"
	"github.com/pthm-cable/anthill/config"
	"github.com/pthm-cable/anthill/mapgen"
	"github.com/pthm-cable/anthill/systems"
	"github.com/pthm-cable/anthill/telemetry"
	"github.com/pthm-cable/anthill/world"
)

// Options configures a simulation run.
type Options struct {
	MapSeed        string  // Map seed requested at startup (empty = none)
	RNGSeed        int64   // Agent RNG seed (0 = time-based)
	Incremental    bool    // Publish intermediate generation phases as previews
	LogStats       bool    // Log stats windows via slog
	StatsWindowSec float64 // Stats window in seconds (0 = use config)
	OutputDir      string  // CSV and config output (empty = disabled)
	SnapshotDir    string  // Snapshots on bookmarks (empty = disabled)
}

// Simulation holds the complete simulation state.
type Simulation struct {
	cfg *config.Config
	rng *rand.Rand

	grid   *world.Grid
	colony *colony.Colony
	ctx    systems.Context

	// Map generation
	worker      *mapgen.Worker
	genOpts     mapgen.Options
	incremental bool
	mapSeed     string
	mapID       uint64 // RequestID of the installed map
	preview     *mapgen.Result

	// Telemetry
	collector        *telemetry.Collector
	profiler         *telemetry.StepProfiler
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool
	snapshotDir      string

	tick    int32
	rngSeed int64
}

// NewSimulation creates a simulation from the global configuration.
func NewSimulation(opts Options) *Simulation {
	return NewSimulationWithConfig(config.Cfg(), opts)
}

// NewSimulationWithConfig creates a simulation on an empty bordered grid. If
// opts.MapSeed is set a map is requested immediately.
func NewSimulationWithConfig(cfg *config.Config, opts Options) *Simulation {
	seed := opts.RNGSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	s := &Simulation{
		cfg:              cfg,
		rng:              rng,
		rngSeed:          seed,
		genOpts:          mapgen.OptionsFromConfig(cfg),
		incremental:      opts.Incremental,
		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		profiler:         telemetry.NewStepProfiler(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
	}
	s.worker = mapgen.NewWorker(s.genOpts, 4)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	} else if om != nil {
		s.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
	}

	s.grid = world.NewGrid(cfg.World.Width, cfg.World.Height, cfg.Derived.CellSize32, world.ParamsFromConfig(cfg))
	s.grid.AddBorderWalls(cfg.Generator.BorderSize)
	s.colony = colony.New(cfg, s.grid, rng, cfg.Derived.WorldW32/2, cfg.Derived.WorldH32/2)
	world.ComputeWallDistances(s.grid, cfg.Distance.WallRadius, cfg.Distance.OpenRadius)

	s.ctx = systems.Context{
		Rng:      rng,
		DT:       cfg.Derived.DT32,
		Params:   systems.AntParamsFromConfig(cfg),
		Recorder: s.collector,
	}

	if opts.MapSeed != "" {
		s.RequestMap(opts.MapSeed)
	}
	return s
}

// RequestMap asks the worker for a new map. The current map stays in play
// until the result arrives. Returns the request ID.
func (s *Simulation) RequestMap(seed string) uint64 {
	return s.worker.Generate(seed, s.incremental)
}

// Resize changes the size of maps produced by later requests.
func (s *Simulation) Resize(width, height int) {
	s.genOpts.Width, s.genOpts.Height = width, height
	s.worker.Setup(s.genOpts)
}

// Step advances the simulation by one tick: pending map results are applied,
// trails decay, the colony and its ants update, and telemetry is flushed.
func (s *Simulation) Step() {
	s.profiler.BeginTick()

	s.profiler.Enter(telemetry.PhaseMapSwap)
	s.pollWorker()

	s.profiler.Enter(telemetry.PhaseGridDecay)
	s.grid.Tick()

	s.profiler.Enter(telemetry.PhaseAgents)
	s.ctx.Grid = s.grid
	s.colony.Update(&s.ctx)
	ants := s.colony.Count()

	s.tick++

	s.profiler.Enter(telemetry.PhaseTelemetry)
	s.flushTelemetry()

	s.profiler.EndTick(ants)
}

// pollWorker drains the results channel without blocking. Stale results are
// dropped, intermediate ones become the preview, and the newest final result
// replaces the map.
func (s *Simulation) pollWorker() {
	for {
		select {
		case res, ok := <-s.worker.Results():
			if !ok {
				return
			}
			s.accept(res)
		default:
			return
		}
	}
}

// accept applies one worker result. Returns true if a map was installed.
func (s *Simulation) accept(res mapgen.Result) bool {
	if res.RequestID != s.worker.Latest() {
		return false
	}
	if !res.Final {
		r := res
		s.preview = &r
		return false
	}
	s.InstallMap(res)
	return true
}

// WaitForMap blocks until the latest requested map is installed or ctx is
// done.
func (s *Simulation) WaitForMap(ctx context.Context) error {
	for s.mapID != s.worker.Latest() {
		select {
		case res, ok := <-s.worker.Results():
			if !ok {
				return context.Canceled
			}
			s.accept(res)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// InstallMap replaces the grid with a generated map as a single step: a new
// grid is built, the colony is reset onto it, then the wall distance field
// and food quantities are computed.
func (s *Simulation) InstallMap(res mapgen.Result) {
	s.install(res, true)
}

func (s *Simulation) install(res mapgen.Result, recode bool) {
	start := time.Now()
	cfg := s.cfg
	g := world.FromMaps(res.Walls, res.Food, cfg.Derived.CellSize32, world.ParamsFromConfig(cfg))
	s.colony.Reset(g)
	world.ComputeWallDistances(g, cfg.Distance.WallRadius, cfg.Distance.OpenRadius)
	if recode {
		world.RecodeFood(g, cfg.Distance.FoodRadius)
	}

	s.grid = g
	s.ctx.Grid = g
	s.mapSeed = res.Seed
	s.mapID = res.RequestID
	s.preview = nil
	s.bookmarkDetector.Reset()
	elapsed := time.Since(start)
	s.profiler.RecordSwap(elapsed)

	totals := g.Totals()
	slog.Info("map installed",
		"seed", res.Seed,
		"request_id", res.RequestID,
		"install_us", elapsed.Microseconds(),
		"width", g.Width(),
		"height", g.Height(),
		"open_cells", totals.OpenCells,
		"food", totals.Food,
	)
}

// Preview returns the latest intermediate generation result, if any.
func (s *Simulation) Preview() (mapgen.Result, bool) {
	if s.preview == nil {
		return mapgen.Result{}, false
	}
	return *s.preview, true
}

// Grid returns the live grid. It is replaced when a new map is installed.
func (s *Simulation) Grid() *world.Grid { return s.grid }

// Colony returns the colony.
func (s *Simulation) Colony() *colony.Colony { return s.colony }

// MapSeed returns the seed of the installed map, or "" before the first one.
func (s *Simulation) MapSeed() string { return s.mapSeed }

// Tick returns the current simulation tick.
func (s *Simulation) Tick() int32 { return s.tick }

// SetStatsCallback registers fn to receive every flushed stats window.
func (s *Simulation) SetStatsCallback(fn func(telemetry.WindowStats)) {
	s.statsCallback = fn
}

// Close stops map generation and closes telemetry output.
func (s *Simulation) Close() {
	s.worker.Close()
	if err := s.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
