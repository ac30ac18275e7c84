package mapgen

import (
	"iter"
	"math/rand"

	"github.com/pthm-cable/anthill/gridwalk"
)

// Generator produces cave maps. It holds no per-run state and is safe for
// concurrent use.
type Generator struct {
	opts Options
}

// New creates a generator.
func New(opts Options) *Generator {
	return &Generator{opts: opts}
}

// Options returns the generator's options.
func (g *Generator) Options() Options {
	return g.opts
}

// Generate runs the whole pipeline and returns the final map. Equal non-empty
// seeds always produce identical maps. An empty seed yields a map with border
// walls only and no food.
func (g *Generator) Generate(seed string) Result {
	var final Result
	g.run(seed, func(c *cave, phase Phase, last bool) bool {
		if last {
			final = c.result(seed, phase, true)
		}
		return true
	})
	return final
}

// Steps runs the pipeline lazily, yielding a snapshot after every phase. The
// last snapshot has Final set. Breaking out of the loop stops generation.
func (g *Generator) Steps(seed string) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		g.run(seed, func(c *cave, phase Phase, last bool) bool {
			return yield(c.result(seed, phase, last))
		})
	}
}

// emitFunc receives the cave after a phase; returning false aborts the run.
type emitFunc func(c *cave, phase Phase, last bool) bool

func (g *Generator) run(seed string, emit emitFunc) {
	o := g.opts
	c := newCave(o)

	if c.w == 0 || c.h == 0 {
		emit(c, PhaseFill, true)
		return
	}
	if seed == "" {
		c.addBorderWalls()
		emit(c, PhaseBorder, true)
		return
	}

	rng := newRand(seed)

	c.randomFill(rng)
	if !emit(c, PhaseFill, false) {
		return
	}

	c.clearColonySpace()
	if !emit(c, PhaseColonySpace, false) {
		return
	}

	for i := 0; i < o.SmoothIterations; i++ {
		c.smooth()
	}
	if !emit(c, PhaseSmooth, false) {
		return
	}

	c.addBorderWalls()
	if !emit(c, PhaseBorder, false) {
		return
	}

	rooms := c.processRegions()
	if !emit(c, PhaseRegions, false) {
		return
	}

	for i := 0; i < o.ResmoothIterations; i++ {
		c.smooth()
	}
	// Smoothing can pinch corridors shut or leave stray pockets; reprocess so
	// the open area is a single region again. Rooms must sit inside the
	// border before connecting, so passage centre lines survive the restamp.
	c.addBorderWalls()
	c.clearColonySpace()
	c.processRegions()
	c.addBorderWalls()
	if !emit(c, PhaseResmooth, false) {
		return
	}

	c.generateFood(newRand(seed), rooms)
	emit(c, PhaseFood, true)
}

// cave is the mutable state of one generation run. Cells are stored
// row-major.
type cave struct {
	opts  Options
	w, h  int
	walls []bool
	food  []int
}

func newCave(o Options) *cave {
	w, h := o.Width, o.Height
	if w <= 0 || h <= 0 {
		w, h = 0, 0
	}
	return &cave{
		opts:  o,
		w:     w,
		h:     h,
		walls: make([]bool, w*h),
		food:  make([]int, w*h),
	}
}

func (c *cave) inRange(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.w && y < c.h
}

func (c *cave) idx(x, y int) int {
	return y*c.w + x
}

func (c *cave) wall(x, y int) bool {
	return c.walls[c.idx(x, y)]
}

// onBorder reports whether (x, y) lies within the border band.
func (c *cave) onBorder(x, y int) bool {
	b := c.opts.BorderSize
	return x < b || y < b || x >= c.w-b || y >= c.h-b
}

// randomFill walls each cell with probability FillRatio. The border band and
// one extra ring inside it are always wall.
func (c *cave) randomFill(rng *rand.Rand) {
	b := c.opts.BorderSize
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			if x <= b || y <= b || x >= c.w-1-b || y >= c.h-1-b {
				c.walls[c.idx(x, y)] = true
				continue
			}
			c.walls[c.idx(x, y)] = rng.Float64() < c.opts.FillRatio
		}
	}
}

func (c *cave) center() gridwalk.Point {
	return gridwalk.Point{X: c.w / 2, Y: c.h / 2}
}

// clearColonySpace opens a disc at the map centre, leaving the border alone.
func (c *cave) clearColonySpace() {
	p := c.center()
	gridwalk.Disc(p.X, p.Y, c.opts.ColonyClearance, func(x, y int) {
		if c.inRange(x, y) && !c.onBorder(x, y) {
			c.walls[c.idx(x, y)] = false
			c.food[c.idx(x, y)] = 0
		}
	})
}

func (c *cave) addBorderWalls() {
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			if c.onBorder(x, y) {
				i := c.idx(x, y)
				c.walls[i] = true
				c.food[i] = 0
			}
		}
	}
}

// smooth applies one cellular-automata pass: more than four wall neighbours
// makes a wall, fewer than four makes open space, exactly four keeps the
// cell. Out-of-range neighbours count as walls.
func (c *cave) smooth() {
	next := make([]bool, len(c.walls))
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			n := c.countAround(x, y, func(i int) bool { return c.walls[i] })
			i := c.idx(x, y)
			switch {
			case n > 4:
				next[i] = true
			case n < 4:
				next[i] = false
			default:
				next[i] = c.walls[i]
			}
		}
	}
	c.walls = next
}

// countAround counts Moore neighbours of (x, y) matching set, counting
// out-of-range neighbours as matches.
func (c *cave) countAround(x, y int, set func(i int) bool) int {
	n := 0
	for ny := y - 1; ny <= y+1; ny++ {
		for nx := x - 1; nx <= x+1; nx++ {
			if nx == x && ny == y {
				continue
			}
			if !c.inRange(nx, ny) || set(c.idx(nx, ny)) {
				n++
			}
		}
	}
	return n
}

// carve opens a disc of PassageRadius around every point of the line a→b.
func (c *cave) carve(a, b gridwalk.Point) {
	for _, p := range gridwalk.Line(a, b) {
		gridwalk.Disc(p.X, p.Y, c.opts.PassageRadius, func(x, y int) {
			if c.inRange(x, y) {
				c.walls[c.idx(x, y)] = false
			}
		})
	}
}

func (c *cave) result(seed string, phase Phase, final bool) Result {
	walls := make([][]bool, c.h)
	food := make([][]int, c.h)
	for y := 0; y < c.h; y++ {
		walls[y] = make([]bool, c.w)
		copy(walls[y], c.walls[y*c.w:(y+1)*c.w])
		food[y] = make([]int, c.w)
		copy(food[y], c.food[y*c.w:(y+1)*c.w])
	}
	return Result{
		Seed:  seed,
		Walls: walls,
		Food:  food,
		Phase: phase,
		Final: final,
	}
}
