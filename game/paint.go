package game

import (
	"fmt"

	"github.com/pthm-cable/anthill/world"
)

// Brush selects what Paint does to the cells under it.
type Brush uint8

const (
	BrushWall  Brush = iota // Raise walls
	BrushErase              // Open cells and remove food
	BrushFood               // Add food to open cells
)

var brushNames = [...]string{"wall", "erase", "food"}

// String returns the brush name.
func (b Brush) String() string {
	if int(b) < len(brushNames) {
		return brushNames[b]
	}
	return "unknown"
}

// ParseBrush returns the brush with the given name.
func ParseBrush(name string) (Brush, error) {
	for i, n := range brushNames {
		if n == name {
			return Brush(i), nil
		}
	}
	return 0, fmt.Errorf("unknown brush %q", name)
}

// Paint applies brush to every cell whose centre lies within radius world
// units of (wx, wy), then re-stamps the border walls and recomputes the wall
// distance field. The colony footprint is never walled. Returns the number of
// cells touched.
func (s *Simulation) Paint(wx, wy float32, brush Brush, radius float32) int {
	g := s.grid
	minX, minY := g.CellCoords(wx-radius, wy-radius)
	maxX, maxY := g.CellCoords(wx+radius, wy+radius)
	minX, minY = max(minX, 0), max(minY, 0)
	maxX, maxY = min(maxX, g.Width()-1), min(maxY, g.Height()-1)

	touched := 0
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			cx, cy := g.CellCenter(x, y)
			dx, dy := cx-wx, cy-wy
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			if s.paintCell(x, y, brush) {
				touched++
			}
		}
	}
	// A brush smaller than a cell still paints the cell under it.
	if touched == 0 {
		if x, y := g.CellCoords(wx, wy); s.paintCell(x, y, brush) {
			touched++
		}
	}

	g.AddBorderWalls(s.cfg.Generator.BorderSize)
	world.ComputeWallDistances(g, s.cfg.Distance.WallRadius, s.cfg.Distance.OpenRadius)
	return touched
}

func (s *Simulation) paintCell(x, y int, brush Brush) bool {
	g := s.grid
	c := g.Cell(x, y)
	if c == nil {
		return false
	}
	switch brush {
	case BrushWall:
		if c.Colony || c.Wall {
			return false
		}
		g.SetWall(x, y, true)
	case BrushErase:
		g.ClearCell(x, y)
	case BrushFood:
		if c.Wall || c.Colony {
			return false
		}
		g.AddFood(x, y, s.cfg.Food.PaintAmount)
	default:
		return false
	}
	return true
}
