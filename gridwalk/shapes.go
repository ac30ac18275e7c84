package gridwalk

import "math"

// Point is an integer cell coordinate.
type Point struct {
	X, Y int
}

// Line returns the cells of a Bresenham line from a to b, both inclusive.
func Line(a, b Point) []Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	inverted := false
	step := sign(dx)
	gradientStep := sign(dy)
	longest, shortest := absInt(dx), absInt(dy)

	if longest < shortest {
		inverted = true
		longest, shortest = shortest, longest
		step, gradientStep = gradientStep, step
	}

	line := make([]Point, 0, longest+1)
	x, y := a.X, a.Y
	acc := longest / 2
	for i := 0; i <= longest; i++ {
		line = append(line, Point{x, y})
		if inverted {
			y += step
		} else {
			x += step
		}
		acc += shortest
		if acc >= longest {
			if inverted {
				x += gradientStep
			} else {
				y += gradientStep
			}
			acc -= longest
		}
	}
	return line
}

// Disc calls fn for every cell within radius r of (cx, cy), inclusive.
// Cells may lie outside the grid; fn is responsible for bounds.
func Disc(cx, cy, r int, fn func(x, y int)) {
	if r < 0 {
		return
	}
	rr := r * r
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= rr {
				fn(cx+x, cy+y)
			}
		}
	}
}

// Nearest returns the Euclidean distance from (cx, cy) to the closest cell
// within radius (square window) for which match is true. ok is false when no
// cell matches. The centre cell is included.
func Nearest(cx, cy, radius int, match func(x, y int) bool) (dist float64, ok bool) {
	best := math.MaxInt
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			d := x*x + y*y
			if d >= best {
				continue
			}
			if match(cx+x, cy+y) {
				best = d
			}
		}
	}
	if best == math.MaxInt {
		return 0, false
	}
	return math.Sqrt(float64(best)), true
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
