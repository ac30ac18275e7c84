package world

import (
	"math"

	"github.com/pthm-cable/anthill/gridwalk"
)

// ComputeWallDistances annotates every cell with a normalized distance to the
// nearest cell of the opposite category: wall cells measure the distance to
// open space within wallRadius, open cells the distance to a wall within
// openRadius. Distances are divided by the radius and capped at 1, which is
// also the value reported when nothing is found. Cells outside the grid are
// ignored rather than treated as walls.
func ComputeWallDistances(g *Grid, wallRadius, openRadius int) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := &g.cells[y*g.width+x]
			if c.Wall {
				c.WallDistance = boundedDistance(x, y, wallRadius, func(nx, ny int) bool {
					n := g.Cell(nx, ny)
					return n != nil && !n.Wall
				})
			} else {
				c.WallDistance = boundedDistance(x, y, openRadius, func(nx, ny int) bool {
					n := g.Cell(nx, ny)
					return n != nil && n.Wall
				})
			}
		}
	}
}

// RecodeFood rescales every food cell to MaxFood() × its normalized distance to the
// nearest open cell without food, so patch interiors hold more than their
// edges. Cells that had food keep at least 1.
func RecodeFood(g *Grid, radius int) {
	limit := g.MaxFood()
	qty := make([]int, len(g.cells))
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			i := y*g.width + x
			if g.cells[i].Food <= 0 {
				continue
			}
			d := boundedDistance(x, y, radius, func(nx, ny int) bool {
				n := g.Cell(nx, ny)
				return n != nil && !n.Wall && n.Food == 0
			})
			qty[i] = max(1, int(math.Round(float64(d)*float64(limit))))
		}
	}
	// Applied after the scan so recoded cells do not affect their neighbours.
	for i, q := range qty {
		if q > 0 {
			g.cells[i].Food = min(q, limit)
		}
	}
}

func boundedDistance(x, y, radius int, match func(x, y int) bool) float32 {
	if radius <= 0 {
		return 1
	}
	d, ok := gridwalk.Nearest(x, y, radius, match)
	if !ok {
		return 1
	}
	return float32(math.Min(1, d/float64(radius)))
}
