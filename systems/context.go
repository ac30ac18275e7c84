package systems

import (
	"math/rand"

	"github.com/pthm-cable/anthill/config"
	"github.com/pthm-cable/anthill/world"
)

// Nest is the colony as seen by an ant: a food store it can deposit into and
// draw rations from, plus its footprint in world space. Withdrawals are
// refused, not failed, when the store is short.
type Nest interface {
	AddFood(qty int)
	UseFood(qty int) bool
	OnFootprint(wx, wy float32) bool
}

// Recorder receives behaviour and colony events for telemetry. All methods
// must be cheap.
type Recorder interface {
	RecordPick(amount int)
	RecordDelivery(amount int)
	RecordRefill(granted bool)
	RecordMarker()
	RecordStarvation()
	RecordSpawn()
}

// NopRecorder discards all events.
type NopRecorder struct{}

func (NopRecorder) RecordPick(int)     {}
func (NopRecorder) RecordDelivery(int) {}
func (NopRecorder) RecordRefill(bool)  {}
func (NopRecorder) RecordMarker()      {}
func (NopRecorder) RecordStarvation()  {}
func (NopRecorder) RecordSpawn()       {}

// AntParams holds ant behaviour constants in simulation units.
type AntParams struct {
	Speed          float32 // World units per second
	AutonomyRefill float32

	MarkerIntensity float32
	MarkerDecay     float32
	MarkerMin       float32

	Noise              float32
	PerceptionSamples  int
	PerceptionSpread   float32
	PerceptionDistance float32 // World units

	ProbeLength  float32 // World units
	HitMirror    int
	HitCorner    int
	HitIncrement int

	RefillAmount int
}

// AntParamsFromConfig converts configuration to ant parameters.
func AntParamsFromConfig(cfg *config.Config) AntParams {
	a := cfg.Ant
	return AntParams{
		Speed:              float32(a.Speed),
		AutonomyRefill:     float32(a.AutonomyRefill),
		MarkerIntensity:    float32(a.MarkerIntensity),
		MarkerDecay:        float32(a.MarkerDecay),
		MarkerMin:          float32(a.MarkerMin),
		Noise:              float32(a.Noise),
		PerceptionSamples:  a.PerceptionSamples,
		PerceptionSpread:   float32(a.PerceptionSpread),
		PerceptionDistance: float32(a.PerceptionCells * cfg.World.CellSize),
		ProbeLength:        float32(a.ProbeLength),
		HitMirror:          a.HitMirror,
		HitCorner:          a.HitCorner,
		HitIncrement:       a.HitIncrement,
		RefillAmount:       cfg.Colony.RefillAmount,
	}
}

// Context carries everything an ant update needs. It is rebuilt by the
// simulation every tick, so ants never keep a reference to a replaced grid.
type Context struct {
	Grid     *world.Grid
	Nest     Nest
	Rng      *rand.Rand
	DT       float32
	Params   AntParams
	Recorder Recorder
}

// Events returns the context's recorder, or a NopRecorder if none is set.
func (ctx *Context) Events() Recorder {
	if ctx.Recorder == nil {
		return NopRecorder{}
	}
	return ctx.Recorder
}

func (ctx *Context) uniform(lo, hi float32) float32 {
	return lo + ctx.Rng.Float32()*(hi-lo)
}
