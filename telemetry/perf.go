package telemetry

import (
	"log/slog"
	"time"
)

// StepPhase identifies a timed part of a simulation step.
type StepPhase int

// Step phases in execution order.
const (
	PhaseMapSwap StepPhase = iota
	PhaseGridDecay
	PhaseAgents
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{
	PhaseMapSwap:   "map_swap",
	PhaseGridDecay: "grid_decay",
	PhaseAgents:    "agents",
	PhaseTelemetry: "telemetry",
}

func (p StepPhase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

type stepSample struct {
	total  time.Duration
	phases [numPhases]time.Duration
	ants   int
}

// StepProfiler times simulation steps over a rolling window of ticks and
// tracks how long map installs take. It is not safe for concurrent use.
type StepProfiler struct {
	window []stepSample
	next   int
	filled int

	cur        stepSample
	tickStart  time.Time
	phaseStart time.Time
	phase      StepPhase
	inPhase    bool

	swaps    int
	lastSwap time.Duration
	maxSwap  time.Duration
}

// NewStepProfiler returns a profiler averaging over the last window ticks.
func NewStepProfiler(window int) *StepProfiler {
	if window < 1 {
		window = 60
	}
	return &StepProfiler{window: make([]stepSample, window)}
}

// BeginTick starts timing a step.
func (p *StepProfiler) BeginTick() {
	now := time.Now()
	p.cur = stepSample{}
	p.tickStart = now
	p.inPhase = false
}

// Enter closes the running phase, if any, and starts timing phase.
func (p *StepProfiler) Enter(phase StepPhase) {
	now := time.Now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.inPhase = true
}

func (p *StepProfiler) closePhase(now time.Time) {
	if p.inPhase {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
		p.inPhase = false
	}
}

// EndTick closes the step. ants is the number of live ants the agents phase
// updated.
func (p *StepProfiler) EndTick(ants int) {
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)
	p.cur.ants = ants

	p.window[p.next] = p.cur
	p.next = (p.next + 1) % len(p.window)
	if p.filled < len(p.window) {
		p.filled++
	}
}

// RecordSwap records the time taken to install a new map.
func (p *StepProfiler) RecordSwap(d time.Duration) {
	p.swaps++
	p.lastSwap = d
	p.maxSwap = max(p.maxSwap, d)
}

// PerfStats summarises the profiler window.
type PerfStats struct {
	AvgTick time.Duration
	MinTick time.Duration
	MaxTick time.Duration

	// Average time per phase, indexed by StepPhase.
	PhaseAvg [numPhases]time.Duration

	TicksPerSecond float64

	// Agents phase time per live ant, in microseconds. Zero when no tick in
	// the window had ants.
	AntCostUS float64
	AvgAnts   float64

	Swaps    int // Map installs since start
	LastSwap time.Duration
	MaxSwap  time.Duration
}

// PhasePct returns phase's share of the average tick, in percent.
func (s PerfStats) PhasePct(phase StepPhase) float64 {
	if s.AvgTick <= 0 || phase < 0 || phase >= numPhases {
		return 0
	}
	return float64(s.PhaseAvg[phase]) / float64(s.AvgTick) * 100
}

// Stats aggregates the current window.
func (p *StepProfiler) Stats() PerfStats {
	st := PerfStats{Swaps: p.swaps, LastSwap: p.lastSwap, MaxSwap: p.maxSwap}
	if p.filled == 0 {
		return st
	}

	var total, agents time.Duration
	var phases [numPhases]time.Duration
	var ants, antTicks int
	for i, s := range p.window[:p.filled] {
		total += s.total
		if i == 0 || s.total < st.MinTick {
			st.MinTick = s.total
		}
		st.MaxTick = max(st.MaxTick, s.total)
		for ph, d := range s.phases {
			phases[ph] += d
		}
		ants += s.ants
		if s.ants > 0 {
			agents += s.phases[PhaseAgents]
			antTicks += s.ants
		}
	}

	n := time.Duration(p.filled)
	st.AvgTick = total / n
	for ph := range phases {
		st.PhaseAvg[ph] = phases[ph] / n
	}
	if st.AvgTick > 0 {
		st.TicksPerSecond = float64(time.Second) / float64(st.AvgTick)
	}
	st.AvgAnts = float64(ants) / float64(p.filled)
	if antTicks > 0 {
		st.AntCostUS = float64(agents) / float64(time.Microsecond) / float64(antTicks)
	}
	return st
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
		slog.Float64("ant_cost_us", s.AntCostUS),
	}
	for ph := StepPhase(0); ph < numPhases; ph++ {
		if pct := s.PhasePct(ph); pct >= 0.1 {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(pct*10))/10))
		}
	}
	if s.Swaps > 0 {
		attrs = append(attrs,
			slog.Int("map_swaps", s.Swaps),
			slog.Int64("last_swap_us", s.LastSwap.Microseconds()),
		)
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	MapSwapPct   float64 `csv:"map_swap_pct"`
	GridDecayPct float64 `csv:"grid_decay_pct"`
	AgentsPct    float64 `csv:"agents_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
	AvgAnts      float64 `csv:"avg_ants"`
	AntCostUS    float64 `csv:"ant_cost_us"`
	MapSwaps     int     `csv:"map_swaps"`
	LastSwapUS   int64   `csv:"last_swap_us"`
	MaxSwapUS    int64   `csv:"max_swap_us"`
}

// ToCSV flattens the stats into a perf.csv row.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTick.Microseconds(),
		MinTickUS:    s.MinTick.Microseconds(),
		MaxTickUS:    s.MaxTick.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		MapSwapPct:   s.PhasePct(PhaseMapSwap),
		GridDecayPct: s.PhasePct(PhaseGridDecay),
		AgentsPct:    s.PhasePct(PhaseAgents),
		TelemetryPct: s.PhasePct(PhaseTelemetry),
		AvgAnts:      s.AvgAnts,
		AntCostUS:    s.AntCostUS,
		MapSwaps:     s.Swaps,
		LastSwapUS:   s.LastSwap.Microseconds(),
		MaxSwapUS:    s.MaxSwap.Microseconds(),
	}
}
