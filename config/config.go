// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Generator GeneratorConfig `yaml:"generator"`
	Pheromone PheromoneConfig `yaml:"pheromone"`
	Density   DensityConfig   `yaml:"density"`
	Food      FoodConfig      `yaml:"food"`
	Distance  DistanceConfig  `yaml:"distance"`
	Ant       AntConfig       `yaml:"ant"`
	Colony    ColonyConfig    `yaml:"colony"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds the grid dimensions. The world is Width*CellSize by
// Height*CellSize world units.
type WorldConfig struct {
	Width    int     `yaml:"width"`     // Grid width in cells
	Height   int     `yaml:"height"`    // Grid height in cells
	CellSize float64 `yaml:"cell_size"` // World units per cell
}

// PhysicsConfig holds simulation timing parameters.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"`
}

// GeneratorConfig holds cave generation parameters.
type GeneratorConfig struct {
	FillRatio            float64 `yaml:"fill_ratio"`             // Initial wall probability
	FillRatioFood        float64 `yaml:"fill_ratio_food"`        // Top-up food probability on open cells
	Threshold            int     `yaml:"threshold"`              // Min region size (0 = (w+h)/2)
	ThresholdFood        int     `yaml:"threshold_food"`         // Min food region size
	BorderSize           int     `yaml:"border_size"`            // Border wall thickness in cells
	ColonyClearance      int     `yaml:"colony_clearance"`       // Open disc radius at map centre, in cells
	PassageRadius        int     `yaml:"passage_radius"`         // Corridor brush radius
	SmoothIterations     int     `yaml:"smooth_iterations"`      // CA passes before region analysis
	ResmoothIterations   int     `yaml:"resmooth_iterations"`    // CA passes after corridor carving
	FoodSeedSmoothing    int     `yaml:"food_seed_smoothing"`    // CA passes on seeded rooms, walls counted
	FoodSmoothIterations int     `yaml:"food_smooth_iterations"` // CA passes after the random top-up
	FoodSmallRoom        int     `yaml:"food_small_room"`        // Rooms below this are filled with p=1
	FoodLargeRoom        int     `yaml:"food_large_room"`        // Rooms below this are filled with p=0.75
	FoodPockets          int     `yaml:"food_pockets"`           // Food discs dropped away from the colony
	FoodPocketRadius     int     `yaml:"food_pocket_radius"`     // Pocket disc radius in cells
}

// PheromoneConfig holds scent trail evaporation parameters.
type PheromoneConfig struct {
	EvaporateAmount float64 `yaml:"evaporate_amount"` // Subtracted per tick
	Epsilon         float64 `yaml:"epsilon"`          // At or below this a channel is zeroed
}

// DensityConfig holds visit-density decay parameters.
type DensityConfig struct {
	Decay   float64 `yaml:"decay"`   // Multiplier per tick
	Epsilon float64 `yaml:"epsilon"` // At or below this a counter is zeroed
}

// FoodConfig holds food cell parameters.
type FoodConfig struct {
	PickAmount  int `yaml:"pick_amount"`  // Units removed per pick
	MaxPerCell  int `yaml:"max_per_cell"` // Cell capacity and generated quantity
	PaintAmount int `yaml:"paint_amount"` // Units added by the food brush
}

// DistanceConfig holds the bounded search radii of the distance field.
type DistanceConfig struct {
	WallRadius int `yaml:"wall_radius"` // Wall cells: search radius for open
	OpenRadius int `yaml:"open_radius"` // Open cells: search radius for wall
	FoodRadius int `yaml:"food_radius"` // Food recode: search radius for open non-food
}

// AntConfig holds per-agent behaviour parameters.
type AntConfig struct {
	Speed          float64 `yaml:"speed"`           // World units per second
	RotationSpeed  float64 `yaml:"rotation_speed"`  // Steering gain
	AutonomyMax    float64 `yaml:"autonomy_max"`    // Seconds away from home before starving
	AutonomyJitter float64 `yaml:"autonomy_jitter"` // MaxAutonomy -= U(0, jitter)
	AutonomyRefill float64 `yaml:"autonomy_refill"` // Seconds before a ToFood ant turns back to refill

	MarkerPeriod    float64 `yaml:"marker_period"`    // Seconds between deposits
	MarkerIntensity float64 `yaml:"marker_intensity"` // Base deposit intensity
	MarkerDecay     float64 `yaml:"marker_decay"`     // Exponential fade over the marker-intensity clock
	MarkerMin       float64 `yaml:"marker_min"`       // Deposits below this are skipped

	DirectionPeriod float64 `yaml:"direction_period"` // Seconds between perception passes
	PeriodJitter    float64 `yaml:"period_jitter"`    // Relative jitter on marker/direction periods
	Noise           float64 `yaml:"noise"`            // Angular noise range (radians)

	PerceptionSamples int     `yaml:"perception_samples"`
	PerceptionSpread  float64 `yaml:"perception_spread"` // Half-angle of the sampling cone (radians)
	PerceptionCells   float64 `yaml:"perception_cells"`  // Max sample distance in cells

	ProbeLength  float64 `yaml:"probe_length"`  // Collision probe length beyond the per-tick step
	HitMirror    int     `yaml:"hit_mirror"`    // Up to this, mirror the normal component
	HitCorner    int     `yaml:"hit_corner"`    // Up to this, mirror the tangential component; beyond, quarter turn
	HitIncrement int     `yaml:"hit_increment"` // Hit counter increase per collision
}

// ColonyConfig holds colony economy parameters.
type ColonyConfig struct {
	Radius         float64 `yaml:"radius"` // Footprint radius in world units
	StartingAnts   int     `yaml:"starting_ants"`
	MaxAnts        int     `yaml:"max_ants"`
	CreationPeriod float64 `yaml:"creation_period"` // Seconds between spawn attempts
	AntCost        int     `yaml:"ant_cost"`
	RefillAmount   int     `yaml:"refill_amount"` // Food withdrawn per refill
	MaxFood        int     `yaml:"max_food"`
	StartingFood   int     `yaml:"starting_food"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32       float32 // Physics.DT as float32
	CellSize32 float32 // World.CellSize as float32
	WorldW32   float32 // World width in world units
	WorldH32   float32 // World height in world units
	Threshold  int     // Effective generator region threshold
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	if c.World.CellSize <= 0 {
		c.World.CellSize = 1
	}
	c.Derived.CellSize32 = float32(c.World.CellSize)
	c.Derived.WorldW32 = float32(float64(c.World.Width) * c.World.CellSize)
	c.Derived.WorldH32 = float32(float64(c.World.Height) * c.World.CellSize)

	c.Derived.Threshold = c.Generator.Threshold
	if c.Derived.Threshold <= 0 {
		c.Derived.Threshold = (c.World.Width + c.World.Height) / 2
	}
	if c.Food.MaxPerCell <= 0 {
		c.Food.MaxPerCell = 100
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
