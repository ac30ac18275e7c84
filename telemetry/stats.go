package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	MapSeed         string  `csv:"map_seed"`

	// Population at window end
	Ants   int `csv:"ants"`
	ToFood int `csv:"to_food"`
	ToHome int `csv:"to_home"`
	Refill int `csv:"refill"`

	// Events during window
	Spawns         int `csv:"spawns"`
	Starved        int `csv:"starved"`
	Picks          int `csv:"picks"`
	FoodPicked     int `csv:"food_picked"`
	Deliveries     int `csv:"deliveries"`
	FoodDelivered  int `csv:"food_delivered"`
	RefillsGranted int `csv:"refills_granted"`
	RefillsRefused int `csv:"refills_refused"`
	Markers        int `csv:"markers"`

	// Colony store and lifetime counters
	ColonyFood int `csv:"colony_food"`
	TotalAnts  int `csv:"total_ants"`
	TotalFood  int `csv:"total_food"`

	// Autonomy distribution (sampled at window end)
	AutonomyMean float64 `csv:"autonomy_mean"`
	AutonomyStd  float64 `csv:"autonomy_std"`
	AutonomyP10  float64 `csv:"autonomy_p10"`
	AutonomyP50  float64 `csv:"autonomy_p50"`
	AutonomyP90  float64 `csv:"autonomy_p90"`

	// Fraction of ants locked onto a goal or trail
	FoundFrac float64 `csv:"found_frac"`

	// Map contents
	FoodCells     int     `csv:"food_cells"`
	MapFood       int     `csv:"map_food"`
	TrailToHome   int     `csv:"trail_to_home"` // Cells with a to-home trail
	TrailToFood   int     `csv:"trail_to_food"` // Cells with a to-food trail
	TrailCoverage float64 `csv:"trail_coverage"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// ComputeDistribution calculates the population mean, standard deviation and
// percentiles of values. An empty sample yields all zeros.
func ComputeDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	mean, std := stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Distribution{
		Mean: mean,
		Std:  std,
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("map_seed", s.MapSeed),
		slog.Int("ants", s.Ants),
		slog.Int("to_food", s.ToFood),
		slog.Int("to_home", s.ToHome),
		slog.Int("refill", s.Refill),
		slog.Int("spawns", s.Spawns),
		slog.Int("starved", s.Starved),
		slog.Int("picks", s.Picks),
		slog.Int("food_delivered", s.FoodDelivered),
		slog.Int("refills_granted", s.RefillsGranted),
		slog.Int("refills_refused", s.RefillsRefused),
		slog.Int("markers", s.Markers),
		slog.Int("colony_food", s.ColonyFood),
		slog.Int("total_food", s.TotalFood),
		slog.Float64("autonomy_mean", s.AutonomyMean),
		slog.Float64("found_frac", s.FoundFrac),
		slog.Int("map_food", s.MapFood),
		slog.Float64("trail_coverage", s.TrailCoverage),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"ants", s.Ants,
		"to_food", s.ToFood,
		"to_home", s.ToHome,
		"refill", s.Refill,
		"spawns", s.Spawns,
		"starved", s.Starved,
		"picks", s.Picks,
		"deliveries", s.Deliveries,
		"food_delivered", s.FoodDelivered,
		"refills_granted", s.RefillsGranted,
		"refills_refused", s.RefillsRefused,
		"colony_food", s.ColonyFood,
		"autonomy_p50", s.AutonomyP50,
		"found_frac", s.FoundFrac,
		"map_food", s.MapFood,
		"trail_coverage", s.TrailCoverage,
	)
}
