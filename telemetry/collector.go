// Package telemetry provides colony health tracking, bookmarking and snapshots.
package telemetry

import (
	"github.com/pthm-cable/anthill/components"
	"github.com/pthm-cable/anthill/world"
)

// Collector accumulates events within time windows and produces WindowStats.
// It implements systems.Recorder.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	spawns         int
	starved        int
	picks          int
	foodPicked     int
	deliveries     int
	foodDelivered  int
	refillsGranted int
	refillsRefused int
	markers        int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordPick records an ant picking food off the map.
func (c *Collector) RecordPick(amount int) {
	c.picks++
	c.foodPicked += amount
}

// RecordDelivery records food delivered to the colony.
func (c *Collector) RecordDelivery(amount int) {
	c.deliveries++
	c.foodDelivered += amount
}

// RecordRefill records a refill request at the colony.
func (c *Collector) RecordRefill(granted bool) {
	if granted {
		c.refillsGranted++
	} else {
		c.refillsRefused++
	}
}

// RecordMarker records a trail deposit.
func (c *Collector) RecordMarker() {
	c.markers++
}

// RecordStarvation records an ant starving.
func (c *Collector) RecordStarvation() {
	c.starved++
}

// RecordSpawn records a paid spawn.
func (c *Collector) RecordSpawn() {
	c.spawns++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// ColonySample is the colony state sampled at window end.
type ColonySample struct {
	MapSeed   string
	ByState   [components.NumStates]int
	Food      int
	TotalAnts int
	TotalFood int

	Autonomy []float64 // Per-ant autonomy in seconds
	Found    int       // Ants with Found set
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller provides the colony sample and the grid totals at currentTick.
func (c *Collector) Flush(currentTick int32, colony ColonySample, totals world.Totals) WindowStats {
	ants := 0
	for _, n := range colony.ByState {
		ants += n
	}

	autonomy := ComputeDistribution(colony.Autonomy)

	var foundFrac float64
	if ants > 0 {
		foundFrac = float64(colony.Found) / float64(ants)
	}

	var coverage float64
	if totals.OpenCells > 0 {
		trail := max(totals.Trail[world.ToHome], totals.Trail[world.ToFood])
		coverage = float64(trail) / float64(totals.OpenCells)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),
		MapSeed:         colony.MapSeed,

		Ants:   ants,
		ToFood: colony.ByState[components.StateToFood],
		ToHome: colony.ByState[components.StateToHome],
		Refill: colony.ByState[components.StateRefill],

		Spawns:         c.spawns,
		Starved:        c.starved,
		Picks:          c.picks,
		FoodPicked:     c.foodPicked,
		Deliveries:     c.deliveries,
		FoodDelivered:  c.foodDelivered,
		RefillsGranted: c.refillsGranted,
		RefillsRefused: c.refillsRefused,
		Markers:        c.markers,

		ColonyFood: colony.Food,
		TotalAnts:  colony.TotalAnts,
		TotalFood:  colony.TotalFood,

		AutonomyMean: autonomy.Mean,
		AutonomyStd:  autonomy.Std,
		AutonomyP10:  autonomy.P10,
		AutonomyP50:  autonomy.P50,
		AutonomyP90:  autonomy.P90,

		FoundFrac: foundFrac,

		FoodCells:     totals.FoodCells,
		MapFood:       totals.Food,
		TrailToHome:   totals.Trail[world.ToHome],
		TrailToFood:   totals.Trail[world.ToFood],
		TrailCoverage: coverage,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.spawns = 0
	c.starved = 0
	c.picks = 0
	c.foodPicked = 0
	c.deliveries = 0
	c.foodDelivered = 0
	c.refillsGranted = 0
	c.refillsRefused = 0
	c.markers = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
