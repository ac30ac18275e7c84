// Package mapgen generates cave maps with cellular automata, region analysis
// and corridor carving. Output maps are indexed [y][x].
package mapgen

import (
	"hash/fnv"
	"math/rand"

	"github.com/pthm-cable/anthill/config"
)

// FoodQuantity is the default amount stored in a freshly generated food
// cell, used when Options.FoodQuantity is unset.
const FoodQuantity = 100

// Options controls a generation run.
type Options struct {
	Width, Height int

	FillRatio     float64
	FillRatioFood float64
	Threshold     int // Min wall/room region size; <= 0 means (Width+Height)/2
	ThresholdFood int

	BorderSize      int
	ColonyClearance int
	PassageRadius   int

	SmoothIterations     int
	ResmoothIterations   int
	FoodSeedSmoothing    int
	FoodSmoothIterations int

	FoodSmallRoom int // Rooms below this are seeded with p=1
	FoodLargeRoom int // Rooms below this are seeded with p=0.75

	FoodPockets      int // Food discs placed in open ground away from the colony
	FoodPocketRadius int
	FoodQuantity     int // Quantity per food cell (<= 0 means FoodQuantity)
}

// OptionsFromConfig builds generator options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	gc := cfg.Generator
	return Options{
		Width:                cfg.World.Width,
		Height:               cfg.World.Height,
		FillRatio:            gc.FillRatio,
		FillRatioFood:        gc.FillRatioFood,
		Threshold:            cfg.Derived.Threshold,
		ThresholdFood:        gc.ThresholdFood,
		BorderSize:           gc.BorderSize,
		ColonyClearance:      gc.ColonyClearance,
		PassageRadius:        gc.PassageRadius,
		SmoothIterations:     gc.SmoothIterations,
		ResmoothIterations:   gc.ResmoothIterations,
		FoodSeedSmoothing:    gc.FoodSeedSmoothing,
		FoodSmoothIterations: gc.FoodSmoothIterations,
		FoodSmallRoom:        gc.FoodSmallRoom,
		FoodLargeRoom:        gc.FoodLargeRoom,
		FoodPockets:          gc.FoodPockets,
		FoodPocketRadius:     gc.FoodPocketRadius,
		FoodQuantity:         cfg.Food.MaxPerCell,
	}
}

func (o Options) foodQuantity() int {
	if o.FoodQuantity > 0 {
		return o.FoodQuantity
	}
	return FoodQuantity
}

func (o Options) threshold() int {
	if o.Threshold > 0 {
		return o.Threshold
	}
	return (o.Width + o.Height) / 2
}

// Phase identifies a generation step.
type Phase uint8

const (
	PhaseFill Phase = iota
	PhaseColonySpace
	PhaseSmooth
	PhaseBorder
	PhaseRegions
	PhaseResmooth
	PhaseFood
)

var phaseNames = [...]string{
	PhaseFill:        "fill",
	PhaseColonySpace: "colony_space",
	PhaseSmooth:      "smooth",
	PhaseBorder:      "border",
	PhaseRegions:     "regions",
	PhaseResmooth:    "resmooth",
	PhaseFood:        "food",
}

// String returns the phase name.
func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Result is a map snapshot. Intermediate results are emitted by stepwise
// generation; the one with Final set is the finished map.
type Result struct {
	Seed      string
	Walls     [][]bool
	Food      [][]int
	Phase     Phase
	Final     bool
	RequestID uint64 // Set by Worker
}

// Width returns the map width in cells.
func (r Result) Width() int {
	if len(r.Walls) == 0 {
		return 0
	}
	return len(r.Walls[0])
}

// Height returns the map height in cells.
func (r Result) Height() int {
	return len(r.Walls)
}

// newRand returns a deterministic source for a string seed.
func newRand(seed string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

const seedAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandomSeed returns a five-character seed drawn from rng.
func RandomSeed(rng *rand.Rand) string {
	b := make([]byte, 5)
	for i := range b {
		b[i] = seedAlphabet[rng.Intn(len(seedAlphabet))]
	}
	return string(b)
}
