package gridwalk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wallAt returns a Blocked predicate for a w×h grid with walls at the given
// cells. Out-of-range cells are blocked.
func wallAt(w, h int, walls ...Point) Blocked {
	set := make(map[Point]bool, len(walls))
	for _, p := range walls {
		set[p] = true
	}
	return func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return true
		}
		return set[Point{x, y}]
	}
}

func TestCastHitsWallWithNormal(t *testing.T) {
	tests := []struct {
		name           string
		dx, dy         float32
		wall           Point
		wantNX, wantNY float32
		wantDist       float32
	}{
		{"east", 1, 0, Point{8, 5}, -1, 0, 2.5},
		{"west", -1, 0, Point{2, 5}, 1, 0, 2.5},
		{"south", 0, 1, Point{5, 9}, 0, -1, 3.5},
		{"north", 0, -1, Point{5, 1}, 0, 1, 3.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := Cast(5.5, 5.5, tt.dx, tt.dy, 10, wallAt(12, 12, tt.wall))
			require.True(t, ok)
			assert.Equal(t, tt.wall, Point{hit.X, hit.Y})
			assert.Equal(t, tt.wantNX, hit.NormalX)
			assert.Equal(t, tt.wantNY, hit.NormalY)
			assert.InDelta(t, tt.wantDist, hit.Dist, 1e-5)
		})
	}
}

func TestCastStopsAtMaxDistance(t *testing.T) {
	_, ok := Cast(0.5, 0.5, 1, 0, 3, wallAt(12, 12, Point{6, 0}))
	assert.False(t, ok)

	_, ok = Cast(0.5, 0.5, 1, 0, 6, wallAt(12, 12, Point{6, 0}))
	assert.True(t, ok)
}

func TestCastOutOfBoundsIsBlocked(t *testing.T) {
	hit, ok := Cast(1.5, 1.5, -1, 0, 5, wallAt(4, 4))
	require.True(t, ok)
	assert.Equal(t, -1, hit.X)
}

func TestCastZeroDirection(t *testing.T) {
	_, ok := Cast(1.5, 1.5, 0, 0, 5, wallAt(4, 4))
	assert.False(t, ok)
}

func TestRayVisitsContiguousCells(t *testing.T) {
	r := NewRay(0.5, 0.5, 1, 1, 20)
	px, py := r.Pos()
	for r.Next() {
		x, y := r.Pos()
		// DDA only ever steps one axis at a time.
		step := absInt(x-px) + absInt(y-py)
		assert.Equal(t, 1, step)
		px, py = x, y
	}
	assert.Greater(t, px, 10)
}

func TestClear(t *testing.T) {
	blocked := wallAt(10, 10, Point{5, 5})
	assert.False(t, Clear(2.5, 5.5, 8.5, 5.5, blocked))
	assert.True(t, Clear(2.5, 2.5, 8.5, 2.5, blocked))
	assert.True(t, Clear(2.5, 2.5, 2.5, 2.5, blocked))
}

func TestLineEndpoints(t *testing.T) {
	tests := []struct {
		a, b Point
	}{
		{Point{0, 0}, Point{5, 2}},
		{Point{0, 0}, Point{0, 3}},
		{Point{4, 4}, Point{-3, 1}},
		{Point{2, 2}, Point{2, 2}},
	}
	for _, tt := range tests {
		line := Line(tt.a, tt.b)
		require.NotEmpty(t, line)
		assert.Equal(t, tt.a, line[0])
		assert.Equal(t, tt.b, line[len(line)-1])
		for i := 1; i < len(line); i++ {
			assert.LessOrEqual(t, absInt(line[i].X-line[i-1].X), 1)
			assert.LessOrEqual(t, absInt(line[i].Y-line[i-1].Y), 1)
		}
	}
}

func TestDisc(t *testing.T) {
	var cells []Point
	Disc(0, 0, 1, func(x, y int) { cells = append(cells, Point{x, y}) })
	assert.ElementsMatch(t, []Point{{0, -1}, {-1, 0}, {0, 0}, {1, 0}, {0, 1}}, cells)

	n := 0
	Disc(0, 0, -1, func(x, y int) { n++ })
	assert.Zero(t, n)
}

func TestNearest(t *testing.T) {
	target := map[Point]bool{{3, 4}: true, {10, 10}: true}
	match := func(x, y int) bool { return target[Point{x, y}] }

	d, ok := Nearest(0, 0, 5, match)
	require.True(t, ok)
	assert.InDelta(t, 5.0, d, 1e-9)

	_, ok = Nearest(0, 0, 2, match)
	assert.False(t, ok)

	d, ok = Nearest(10, 10, 1, match)
	require.True(t, ok)
	assert.Zero(t, d)
	assert.False(t, math.IsNaN(d))
}

func TestRegions(t *testing.T) {
	// Two open areas separated by a wall column at x=2.
	open := func(x, y int) bool { return x != 2 }
	regions := Regions(5, 3, open)
	require.Len(t, regions, 2)
	assert.Len(t, regions[0], 6)
	assert.Len(t, regions[1], 6)

	// Diagonal neighbours are not connected.
	diag := func(x, y int) bool { return x == y }
	assert.Len(t, Regions(3, 3, diag), 3)

	assert.Nil(t, Regions(0, 3, open))
}

func TestFlood(t *testing.T) {
	open := func(x, y int) bool { return x != 2 }
	assert.Len(t, Flood(5, 3, 0, 0, open), 6)
	assert.Nil(t, Flood(5, 3, 2, 0, open))
	assert.Nil(t, Flood(5, 3, -1, 0, open))
}
