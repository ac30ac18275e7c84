// Package gridwalk provides stepped queries over integer cell grids: DDA
// raycasts, Bresenham lines, disc brushes, bounded nearest-cell scans and
// 4-connected region flood fills. Callers supply predicates over cell
// coordinates, so the same primitives serve cave generation, the distance
// field and agent perception.
package gridwalk

import "math"

// Blocked reports whether the cell at (x, y) stops a ray. Out-of-range
// cells should report true.
type Blocked func(x, y int) bool

// Hit describes the first blocked cell found by Cast.
type Hit struct {
	X, Y int     // Blocked cell
	Dist float32 // Distance along the ray to the cell boundary, in cells
	// Normal is the face normal of the boundary the ray crossed. It points
	// back toward the ray origin along the axis last stepped.
	NormalX, NormalY float32
}

// Ray is a zero-allocation DDA traversal in cell space. Positions are in
// cell units, so world coordinates must be divided by the cell size first.
type Ray struct {
	cx, cy       int
	stepX, stepY int

	sideX, sideY   float32 // Ray length to the next x / y boundary
	deltaX, deltaY float32 // Ray length to cross one full cell per axis

	maxDist float32
	dist    float32
	axisX   bool // Last step moved along x
	done    bool
}

var inf32 = float32(math.Inf(1))

// NewRay starts a traversal at (ox, oy) heading along (dx, dy). The direction
// does not have to be normalized; maxDist is measured in units of the
// normalized direction.
func NewRay(ox, oy, dx, dy, maxDist float32) Ray {
	r := Ray{
		cx:      floor(ox),
		cy:      floor(oy),
		maxDist: maxDist,
	}

	l := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if l == 0 || maxDist <= 0 {
		r.done = true
		return r
	}
	dx /= l
	dy /= l

	r.stepX, r.stepY = 1, 1
	if dx == 0 {
		r.deltaX, r.sideX = inf32, inf32
	} else {
		r.deltaX = abs(1 / dx)
		if dx < 0 {
			r.stepX = -1
			r.sideX = (ox - float32(r.cx)) * r.deltaX
		} else {
			r.sideX = (float32(r.cx) + 1 - ox) * r.deltaX
		}
	}
	if dy == 0 {
		r.deltaY, r.sideY = inf32, inf32
	} else {
		r.deltaY = abs(1 / dy)
		if dy < 0 {
			r.stepY = -1
			r.sideY = (oy - float32(r.cy)) * r.deltaY
		} else {
			r.sideY = (float32(r.cy) + 1 - oy) * r.deltaY
		}
	}
	return r
}

// Next advances to the next cell crossed by the ray. It returns false once the
// next boundary lies beyond the maximum distance. The origin cell is never
// visited.
func (r *Ray) Next() bool {
	if r.done {
		return false
	}
	if r.sideX < r.sideY {
		if r.sideX > r.maxDist {
			r.done = true
			return false
		}
		r.dist = r.sideX
		r.cx += r.stepX
		r.sideX += r.deltaX
		r.axisX = true
	} else {
		if r.sideY > r.maxDist {
			r.done = true
			return false
		}
		r.dist = r.sideY
		r.cy += r.stepY
		r.sideY += r.deltaY
		r.axisX = false
	}
	return true
}

// Pos returns the current cell.
func (r *Ray) Pos() (int, int) {
	return r.cx, r.cy
}

// Dist returns the ray length at which the current cell was entered.
func (r *Ray) Dist() float32 {
	return r.dist
}

// Normal returns the face normal of the boundary crossed into the current cell.
func (r *Ray) Normal() (float32, float32) {
	if r.axisX {
		return float32(-r.stepX), 0
	}
	return 0, float32(-r.stepY)
}

// Cast walks a ray from (ox, oy) along (dx, dy) for at most maxDist cells and
// returns the first blocked cell it enters.
func Cast(ox, oy, dx, dy, maxDist float32, blocked Blocked) (Hit, bool) {
	r := NewRay(ox, oy, dx, dy, maxDist)
	for r.Next() {
		x, y := r.Pos()
		if blocked(x, y) {
			nx, ny := r.Normal()
			return Hit{X: x, Y: y, Dist: r.Dist(), NormalX: nx, NormalY: ny}, true
		}
	}
	return Hit{}, false
}

// Clear reports whether the straight segment between two points in cell
// space crosses no blocked cell. The start cell is not tested; the end cell is.
func Clear(x0, y0, x1, y1 float32, blocked Blocked) bool {
	dx, dy := x1-x0, y1-y0
	l := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if l == 0 {
		return true
	}
	_, hit := Cast(x0, y0, dx, dy, l, blocked)
	return !hit
}

func floor(v float32) int {
	return int(math.Floor(float64(v)))
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
