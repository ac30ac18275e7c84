package world

import (
	"math"

	"github.com/pthm-cable/anthill/config"
)

// Params holds the per-tick decay and interaction constants of a Grid.
type Params struct {
	EvaporateAmount float32 // Subtracted from each pheromone channel per tick
	Epsilon         float32 // Channels at or below this are zeroed
	DensityDecay    float32 // Density multiplier per tick
	DensityEpsilon  float32 // Density at or below this is zeroed
	PickAmount      int     // Food removed per PickFood
	MaxFood         int     // Food capacity of a cell (<= 0 means MaxFood)
}

// ParamsFromConfig extracts grid parameters from the loaded configuration.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		EvaporateAmount: float32(cfg.Pheromone.EvaporateAmount),
		Epsilon:         float32(cfg.Pheromone.Epsilon),
		DensityDecay:    float32(cfg.Density.Decay),
		DensityEpsilon:  float32(cfg.Density.Epsilon),
		PickAmount:      cfg.Food.PickAmount,
		MaxFood:         cfg.Food.MaxPerCell,
	}
}

// Grid is a fixed-size row-major array of cells. Integer methods take cell
// coordinates; CellAt and CellCoords convert from world coordinates using the
// cell size. Out-of-range access is always a no-op or a nil result.
type Grid struct {
	width, height int
	cellSize      float32
	cells         []Cell
	params        Params
}

// NewGrid creates an all-open grid. Non-positive dimensions produce an empty
// grid on which every lookup misses.
func NewGrid(width, height int, cellSize float32, params Params) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == 0 || height == 0 {
		width, height = 0, 0
	}
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid{
		width:    width,
		height:   height,
		cellSize: cellSize,
		cells:    make([]Cell, width*height),
		params:   params,
	}
}

// FromMaps builds a grid from generator output indexed [y][x]. The food map
// may be nil or smaller than the wall map; missing entries are zero.
func FromMaps(walls [][]bool, food [][]int, cellSize float32, params Params) *Grid {
	h := len(walls)
	w := 0
	if h > 0 {
		w = len(walls[0])
	}
	g := NewGrid(w, h, cellSize, params)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width && x < len(walls[y]); x++ {
			if walls[y][x] {
				g.SetWall(x, y, true)
			}
			if y < len(food) && x < len(food[y]) && food[y][x] > 0 {
				g.AddFood(x, y, food[y][x])
			}
		}
	}
	return g
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.height }

// CellSize returns world units per cell.
func (g *Grid) CellSize() float32 { return g.cellSize }

// Params returns the grid's decay constants.
func (g *Grid) Params() Params { return g.params }

// MaxFood returns the food capacity of a cell.
func (g *Grid) MaxFood() int {
	if g.params.MaxFood > 0 {
		return g.params.MaxFood
	}
	return MaxFood
}

// InBounds reports whether (x, y) is a valid cell coordinate.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// Cell returns the cell at (x, y), or nil if out of range.
func (g *Grid) Cell(x, y int) *Cell {
	if !g.InBounds(x, y) {
		return nil
	}
	return &g.cells[y*g.width+x]
}

// CellCoords converts world coordinates to (possibly out-of-range) cell
// coordinates.
func (g *Grid) CellCoords(wx, wy float32) (int, int) {
	return int(math.Floor(float64(wx / g.cellSize))), int(math.Floor(float64(wy / g.cellSize)))
}

// CellCenter returns the world coordinates of the centre of cell (x, y).
func (g *Grid) CellCenter(x, y int) (float32, float32) {
	return (float32(x) + 0.5) * g.cellSize, (float32(y) + 0.5) * g.cellSize
}

// CellAt returns the cell containing world point (wx, wy), or nil if the
// point lies outside the grid.
func (g *Grid) CellAt(wx, wy float32) *Cell {
	if math.IsNaN(float64(wx)) || math.IsNaN(float64(wy)) {
		return nil
	}
	return g.Cell(g.CellCoords(wx, wy))
}

// IsBlocked reports whether (x, y) is a wall or out of range.
func (g *Grid) IsBlocked(x, y int) bool {
	c := g.Cell(x, y)
	return c == nil || c.Wall
}

// AddMarker max-combines a pheromone deposit into channel ch at (x, y).
// Deposits never sum, so overlapping trails saturate at the strongest one.
func (g *Grid) AddMarker(x, y, ch int, intensity float32) {
	if ch < 0 || ch >= NumChannels || !(intensity > 0) {
		return
	}
	if c := g.Cell(x, y); c != nil {
		c.mark(ch, intensity)
	}
}

// AddDensity records a visit by an agent in the given density slot.
func (g *Grid) AddDensity(x, y, slot int, amount float32) {
	if slot < 0 || slot >= NumDensity {
		return
	}
	if c := g.Cell(x, y); c != nil {
		c.Density[slot] += amount
	}
}

// PickFood removes up to the configured pick amount from (x, y) and returns
// the amount actually removed.
func (g *Grid) PickFood(x, y int) int {
	c := g.Cell(x, y)
	if c == nil {
		return 0
	}
	return c.pick(g.params.PickAmount)
}

// AddFood adds qty food at (x, y), clamped to [0, MaxFood()]. Walls never
// hold food.
func (g *Grid) AddFood(x, y, qty int) {
	c := g.Cell(x, y)
	if c == nil || c.Wall {
		return
	}
	c.addFood(qty, g.MaxFood())
}

// Tick applies one step of pheromone evaporation and density decay.
func (g *Grid) Tick() {
	p := g.params
	for i := range g.cells {
		c := &g.cells[i]
		for ch := range c.Pheromone {
			v := c.Pheromone[ch]
			if v > p.Epsilon {
				v -= p.EvaporateAmount
				if v < 0 {
					v = 0
				}
			} else {
				v = 0
			}
			c.Pheromone[ch] = v
		}
		for s := range c.Density {
			v := c.Density[s]
			if v > p.DensityEpsilon {
				v *= p.DensityDecay
			} else {
				v = 0
			}
			c.Density[s] = v
		}
	}
}
