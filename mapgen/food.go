package mapgen

import (
	"math/rand"

	"github.com/pthm-cable/anthill/gridwalk"
)

// generateFood fills the food layer. Small side rooms are seeded densely and
// grown, a sparse random top-up covers the rest, pockets are dropped into
// open ground reachable from the colony, and patches below ThresholdFood are
// pruned. Food only ever sits on open cells and never inside the colony
// clearance.
func (c *cave) generateFood(rng *rand.Rand, rooms []room) {
	o := c.opts
	q := o.foodQuantity()
	clear(c.food)

	for i := range rooms {
		r := &rooms[i]
		if r.main || r.size() >= o.FoodLargeRoom {
			continue
		}
		p := 0.75
		if r.size() < o.FoodSmallRoom {
			p = 1
		}
		for _, t := range r.tiles {
			if rng.Float64() < p && !c.wall(t.X, t.Y) {
				c.food[c.idx(t.X, t.Y)] = q
			}
		}
	}

	// Walls count as neighbours here so seeded patches hug the room shape.
	for i := 0; i < o.FoodSeedSmoothing; i++ {
		c.smoothFood(func(j int) bool { return c.walls[j] || c.food[j] > 0 })
	}

	for i := range c.food {
		if c.walls[i] || c.food[i] > 0 {
			continue
		}
		if rng.Float64() < o.FillRatioFood {
			c.food[i] = q
		}
	}

	for i := 0; i < o.FoodSmoothIterations; i++ {
		c.smoothFood(func(j int) bool { return c.food[j] > 0 })
	}

	c.placePockets(rng)

	hasFood := func(x, y int) bool { return c.food[c.idx(x, y)] > 0 }
	for _, region := range gridwalk.Regions(c.w, c.h, hasFood) {
		if len(region) < o.ThresholdFood {
			for _, p := range region {
				c.food[c.idx(p.X, p.Y)] = 0
			}
		}
	}

	ctr := c.center()
	gridwalk.Disc(ctr.X, ctr.Y, o.ColonyClearance, func(x, y int) {
		if c.inRange(x, y) {
			c.food[c.idx(x, y)] = 0
		}
	})
}

// placePockets stamps FoodPockets discs of food centred on open cells whose
// whole disc is open, reachable from the colony and clear of its clearance.
// Large caves get no room seeding, so without pockets a map can end up with
// no food at all.
func (c *cave) placePockets(rng *rand.Rand) {
	o := c.opts
	r := o.FoodPocketRadius
	if o.FoodPockets <= 0 || r <= 0 {
		return
	}

	ctr := c.center()
	open := func(x, y int) bool { return c.inRange(x, y) && !c.wall(x, y) }
	reach := gridwalk.Flood(c.w, c.h, ctr.X, ctr.Y, open)

	fits := func(p gridwalk.Point) bool {
		ok := true
		gridwalk.Disc(p.X, p.Y, r, func(x, y int) {
			ok = ok && open(x, y)
		})
		return ok
	}
	candidates := func(margin int) []gridwalk.Point {
		minDist := o.ColonyClearance + r + margin
		var out []gridwalk.Point
		for _, p := range reach {
			dx, dy := p.X-ctr.X, p.Y-ctr.Y
			if dx*dx+dy*dy > minDist*minDist && fits(p) {
				out = append(out, p)
			}
		}
		return out
	}

	cands := candidates(r)
	if len(cands) == 0 {
		cands = candidates(0)
	}

	q := o.foodQuantity()
	for i := 0; i < o.FoodPockets && len(cands) > 0; i++ {
		j := rng.Intn(len(cands))
		p := cands[j]
		cands[j] = cands[len(cands)-1]
		cands = cands[:len(cands)-1]
		gridwalk.Disc(p.X, p.Y, r, func(x, y int) {
			c.food[c.idx(x, y)] = q
		})
	}
}

// smoothFood runs one automata pass over the food layer using counts from
// set. Only open cells can gain food.
func (c *cave) smoothFood(set func(i int) bool) {
	q := c.opts.foodQuantity()
	next := make([]int, len(c.food))
	copy(next, c.food)
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			i := c.idx(x, y)
			n := c.countAround(x, y, set)
			switch {
			case n > 4 && !c.walls[i]:
				next[i] = q
			case n < 4:
				next[i] = 0
			}
		}
	}
	c.food = next
}
