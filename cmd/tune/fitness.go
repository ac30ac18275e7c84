package main

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/pthm-cable/anthill/config"
	"github.com/pthm-cable/anthill/game"
	"github.com/pthm-cable/anthill/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	mapSeeds    []string
	baseConfig  *config.Config
	statsWindow float64
	mapTimeout  time.Duration

	mu          sync.Mutex
	bestFitness float64
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, mapSeeds []string, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		mapSeeds:    mapSeeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0,
		mapTimeout:  time.Minute,
		bestFitness: math.Inf(1),
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// BestFitness returns the lowest average fitness seen so far.
func (fe *FitnessEvaluator) BestFitness() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestFitness
}

// runResult holds the results from a single simulation run.
type runResult struct {
	totalFood   int
	windowStats []telemetry.WindowStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Each map seed runs in parallel on its own simulation.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	fitness := make([]float64, len(fe.mapSeeds))
	quality := make([]float64, len(fe.mapSeeds))
	var wg sync.WaitGroup

	for i, seed := range fe.mapSeeds {
		wg.Add(1)
		go func(idx int, s string) {
			defer wg.Done()
			result := fe.runSimulation(x, s, int64(idx+1))
			quality[idx] = computeQuality(result.windowStats)
			fitness[idx] = computeFitness(result.totalFood, quality[idx])
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for i := range fitness {
		totalFitness += fitness[i]
		totalQuality += quality[i]
	}
	n := float64(len(fe.mapSeeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation generates the map for seed, then steps the simulation for
// maxTicks and reports the food the colony harvested.
func (fe *FitnessEvaluator) runSimulation(x []float64, mapSeed string, rngSeed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}
	sim := game.NewSimulationWithConfig(cfg, game.Options{
		MapSeed:        mapSeed,
		RNGSeed:        rngSeed,
		StatsWindowSec: fe.statsWindow,
	})
	defer sim.Close()
	sim.SetStatsCallback(func(stats telemetry.WindowStats) {
		result.windowStats = append(result.windowStats, stats)
	})

	ctx, cancel := context.WithTimeout(context.Background(), fe.mapTimeout)
	defer cancel()
	if err := sim.WaitForMap(ctx); err != nil {
		slog.Error("map generation failed", "seed", mapSeed, "error", err)
		return result
	}

	for sim.Tick() < fe.maxTicks {
		sim.Step()
		// A colony with no ants and no food to spawn more is finished.
		if sim.Colony().Count() == 0 && sim.Colony().Food() < cfg.Colony.AntCost {
			break
		}
	}
	result.totalFood = sim.Colony().TotalFood()
	return result
}

// copyConfig returns a copy of the base config. Config holds only value
// fields, so a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Harvest dominates; quality adds up to 20% to separate similar harvests.
func computeFitness(totalFood int, quality float64) float64 {
	return -(float64(totalFood) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightSurvival = 0.5
	qualityWeightSteady   = 0.5

	qualityWarmupWindows = 2 // skip first N windows (trails are still forming)
)

// computeQuality scores colony health in [0, 1] from window stats: few ants
// starving and deliveries arriving in most windows.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var spawns, starved, delivering int
	for _, w := range valid {
		spawns += w.Spawns
		starved += w.Starved
		if w.Deliveries > 0 {
			delivering++
		}
	}

	survival := 1.0
	if total := valid[len(valid)-1].TotalAnts; total > 0 {
		survival = 1 - float64(starved)/float64(max(total, spawns))
	}
	steady := float64(delivering) / float64(len(valid))

	return clamp01(qualityWeightSurvival*survival + qualityWeightSteady*steady)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
