package world

// SetWall turns (x, y) into a wall or opens it. Walling a cell discards its
// food, trails and colony flag.
func (g *Grid) SetWall(x, y int, wall bool) {
	c := g.Cell(x, y)
	if c == nil {
		return
	}
	c.Wall = wall
	if wall {
		c.Food = 0
		c.Pheromone = [NumChannels]float32{}
		c.Colony = false
	}
}

// ClearCell opens (x, y) and removes its food.
func (g *Grid) ClearCell(x, y int) {
	c := g.Cell(x, y)
	if c == nil {
		return
	}
	c.Wall = false
	c.Food = 0
}

// SetColony flags (x, y) as part of a colony footprint.
func (g *Grid) SetColony(x, y int, colony bool) {
	if c := g.Cell(x, y); c != nil {
		c.Colony = colony
	}
}

// ClearColony removes every colony flag.
func (g *Grid) ClearColony() {
	for i := range g.cells {
		g.cells[i].Colony = false
	}
}

// AddBorderWalls walls every cell within size cells of the grid edge.
func (g *Grid) AddBorderWalls(size int) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if x < size || y < size || x >= g.width-size || y >= g.height-size {
				g.SetWall(x, y, true)
			}
		}
	}
}

// Snapshot copies every cell into dst (reallocated if too small) in
// row-major order. Renderers read the copy without touching live state.
func (g *Grid) Snapshot(dst []Cell) []Cell {
	if cap(dst) < len(g.cells) {
		dst = make([]Cell, len(g.cells))
	}
	dst = dst[:len(g.cells)]
	copy(dst, g.cells)
	return dst
}

// WallMap returns the wall layout indexed [y][x].
func (g *Grid) WallMap() [][]bool {
	m := make([][]bool, g.height)
	for y := range m {
		m[y] = make([]bool, g.width)
		for x := range m[y] {
			m[y][x] = g.cells[y*g.width+x].Wall
		}
	}
	return m
}

// FoodMap returns food quantities indexed [y][x].
func (g *Grid) FoodMap() [][]int {
	m := make([][]int, g.height)
	for y := range m {
		m[y] = make([]int, g.width)
		for x := range m[y] {
			m[y][x] = g.cells[y*g.width+x].Food
		}
	}
	return m
}

// Totals summarizes grid contents for telemetry.
type Totals struct {
	OpenCells int
	FoodCells int
	Food      int
	// Trail counts cells with a non-zero channel value.
	Trail [NumChannels]int
	// TrailSum is the sum of channel values over all cells.
	TrailSum [NumChannels]float64
}

// Totals walks the grid once and returns aggregate counts.
func (g *Grid) Totals() Totals {
	var t Totals
	for i := range g.cells {
		c := &g.cells[i]
		if c.Wall {
			continue
		}
		t.OpenCells++
		if c.Food > 0 {
			t.FoodCells++
			t.Food += c.Food
		}
		for ch, v := range c.Pheromone {
			if v > 0 {
				t.Trail[ch]++
				t.TrailSum[ch] += float64(v)
			}
		}
	}
	return t
}
