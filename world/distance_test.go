package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeWallDistances(t *testing.T) {
	// 9x1 corridor: wall at x=0, open elsewhere.
	g := NewGrid(9, 1, 1, testParams())
	g.SetWall(0, 0, true)

	ComputeWallDistances(g, 10, 3)

	// Wall cell: nearest open is 1 away over radius 10.
	assert.InDelta(t, 0.1, g.Cell(0, 0).WallDistance, 1e-6)
	assert.InDelta(t, 1.0/3, g.Cell(1, 0).WallDistance, 1e-6)
	assert.InDelta(t, 2.0/3, g.Cell(2, 0).WallDistance, 1e-6)
	assert.InDelta(t, 1.0, g.Cell(3, 0).WallDistance, 1e-6)
	// Beyond the search radius the distance saturates.
	assert.InDelta(t, 1.0, g.Cell(8, 0).WallDistance, 1e-6)
}

func TestComputeWallDistancesAllWall(t *testing.T) {
	g := NewGrid(3, 3, 1, testParams())
	g.AddBorderWalls(2)

	ComputeWallDistances(g, 10, 3)
	for _, c := range g.Snapshot(nil) {
		assert.Equal(t, float32(1), c.WallDistance)
	}
}

func TestDistancesStayNormalized(t *testing.T) {
	g := NewGrid(20, 20, 1, testParams())
	for i := 0; i < 20; i += 3 {
		g.SetWall(i, (i*7)%20, true)
	}
	ComputeWallDistances(g, 10, 3)
	for _, c := range g.Snapshot(nil) {
		assert.GreaterOrEqual(t, c.WallDistance, float32(0))
		assert.LessOrEqual(t, c.WallDistance, float32(1))
	}
}

func TestRecodeFood(t *testing.T) {
	// A 7-wide food strip in an open row: the middle is furthest from bare
	// ground.
	g := NewGrid(9, 1, 1, testParams())
	for x := 1; x <= 7; x++ {
		g.AddFood(x, 0, 1)
	}

	RecodeFood(g, 3)

	assert.Equal(t, 0, g.Cell(0, 0).Food)
	assert.Equal(t, 33, g.Cell(1, 0).Food)
	assert.Equal(t, 67, g.Cell(2, 0).Food)
	assert.Equal(t, 100, g.Cell(4, 0).Food)
	assert.Equal(t, 33, g.Cell(7, 0).Food)
}

func TestRecodeFoodUsesCellCapacity(t *testing.T) {
	params := testParams()
	params.MaxFood = 60
	g := NewGrid(9, 1, 1, params)
	for x := 1; x <= 7; x++ {
		g.AddFood(x, 0, 1)
	}

	RecodeFood(g, 3)

	assert.Equal(t, 20, g.Cell(1, 0).Food)
	assert.Equal(t, 60, g.Cell(4, 0).Food)
}
