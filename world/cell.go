// Package world holds the discretized simulation grid: walls, food, two
// pheromone channels, visit density and the cached wall-distance field.
package world

// Pheromone channels.
const (
	ToHome = 0 // Trail leading back to the colony
	ToFood = 1 // Trail leading to food

	NumChannels = 2
)

// Density slots, indexed by agent state.
const (
	DensityToFood = 0
	DensityToHome = 1
	DensityRefill = 2

	NumDensity = 3
)

// MaxFood is the default upper bound of a cell's food quantity, used when
// Params.MaxFood is unset.
const MaxFood = 100

// Cell is one grid square.
type Cell struct {
	Wall      bool
	Food      int                  // [0, Params.MaxFood]
	Pheromone [NumChannels]float32 // [0, 1] per channel
	Colony    bool
	Density   [NumDensity]float32
	// WallDistance is the normalized distance to the nearest cell of the
	// opposite category, see ComputeWallDistances.
	WallDistance float32
}

// Open reports whether agents can occupy the cell.
func (c *Cell) Open() bool {
	return !c.Wall
}

// HasFood reports whether the cell holds any food.
func (c *Cell) HasFood() bool {
	return c.Food > 0
}

// addFood adds qty (which may be negative) and clamps to [0, limit].
func (c *Cell) addFood(qty, limit int) {
	c.Food = clampInt(c.Food+qty, 0, limit)
}

// pick removes up to amount food and returns what was actually removed.
func (c *Cell) pick(amount int) int {
	if amount <= 0 || c.Food <= 0 {
		return 0
	}
	if amount > c.Food {
		amount = c.Food
	}
	c.Food -= amount
	return amount
}

// mark max-combines intensity into channel ch.
func (c *Cell) mark(ch int, intensity float32) {
	if intensity > c.Pheromone[ch] {
		c.Pheromone[ch] = intensity
	}
	if c.Pheromone[ch] > 1 {
		c.Pheromone[ch] = 1
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
