package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/anthill/config"
)

func init() {
	config.MustInit("")
}

func testParams() Params {
	return Params{
		EvaporateAmount: 0.0005,
		Epsilon:         0.01,
		DensityDecay:    0.99,
		DensityEpsilon:  0.01,
		PickAmount:      2,
	}
}

func TestParamsFromConfig(t *testing.T) {
	p := ParamsFromConfig(config.Cfg())
	assert.InDelta(t, 0.0005, p.EvaporateAmount, 1e-9)
	assert.InDelta(t, 0.99, p.DensityDecay, 1e-6)
	assert.Equal(t, config.Cfg().Food.PickAmount, p.PickAmount)
	assert.Equal(t, config.Cfg().Food.MaxPerCell, p.MaxFood)
}

func TestCellCapacityFromParams(t *testing.T) {
	params := testParams()
	params.MaxFood = 40
	g := NewGrid(3, 3, 16, params)
	assert.Equal(t, 40, g.MaxFood())

	g.AddFood(1, 1, 100)
	assert.Equal(t, 40, g.Cell(1, 1).Food)

	// Unset capacity falls back to the default.
	assert.Equal(t, MaxFood, NewGrid(1, 1, 16, testParams()).MaxFood())
}

func TestAddMarkerMaxCombines(t *testing.T) {
	g := NewGrid(10, 10, 16, testParams())

	g.AddMarker(3, 4, ToHome, 0.3)
	g.AddMarker(3, 4, ToHome, 0.1)
	assert.InDelta(t, 0.3, g.Cell(3, 4).Pheromone[ToHome], 1e-6)
	assert.Zero(t, g.Cell(3, 4).Pheromone[ToFood])

	g.AddMarker(3, 4, ToHome, 0.7)
	assert.InDelta(t, 0.7, g.Cell(3, 4).Pheromone[ToHome], 1e-6)

	g.AddMarker(3, 4, ToHome, 5)
	assert.Equal(t, float32(1), g.Cell(3, 4).Pheromone[ToHome])
}

func TestAddMarkerIgnoresInvalid(t *testing.T) {
	g := NewGrid(4, 4, 16, testParams())
	assert.NotPanics(t, func() {
		g.AddMarker(-1, 0, ToHome, 1)
		g.AddMarker(0, 4, ToHome, 1)
		g.AddMarker(0, 0, 7, 1)
		g.AddMarker(0, 0, -1, 1)
	})
	for _, c := range g.Snapshot(nil) {
		assert.Equal(t, [NumChannels]float32{}, c.Pheromone)
	}
}

func TestTickEvaporatesMonotonicallyToZero(t *testing.T) {
	g := NewGrid(2, 2, 16, testParams())
	g.AddMarker(0, 0, ToFood, 1)
	g.AddMarker(1, 1, ToHome, 0.0105)

	prev := g.Cell(0, 0).Pheromone[ToFood]
	for i := 0; i < 3000; i++ {
		g.Tick()
		for _, c := range g.Snapshot(nil) {
			for _, v := range c.Pheromone {
				require.GreaterOrEqual(t, v, float32(0))
				require.LessOrEqual(t, v, float32(1))
			}
		}
		cur := g.Cell(0, 0).Pheromone[ToFood]
		require.LessOrEqual(t, cur, prev)
		prev = cur
	}
	assert.Zero(t, g.Cell(0, 0).Pheromone[ToFood])
	assert.Zero(t, g.Cell(1, 1).Pheromone[ToHome])
}

func TestTickFloorsBelowEpsilon(t *testing.T) {
	g := NewGrid(1, 1, 16, testParams())
	g.AddMarker(0, 0, ToHome, 0.009)
	g.Tick()
	assert.Zero(t, g.Cell(0, 0).Pheromone[ToHome])
}

func TestTickDecaysDensity(t *testing.T) {
	g := NewGrid(1, 1, 16, testParams())
	g.AddDensity(0, 0, DensityRefill, 1)
	g.Tick()
	assert.InDelta(t, 0.99, g.Cell(0, 0).Density[DensityRefill], 1e-6)

	for i := 0; i < 1000; i++ {
		g.Tick()
	}
	assert.Zero(t, g.Cell(0, 0).Density[DensityRefill])
}

func TestPickFood(t *testing.T) {
	g := NewGrid(3, 3, 16, testParams())
	g.AddFood(1, 1, 5)

	assert.Equal(t, 2, g.PickFood(1, 1))
	assert.Equal(t, 3, g.Cell(1, 1).Food)
	assert.Equal(t, 2, g.PickFood(1, 1))
	// Near depletion the pick is clamped to what is left.
	assert.Equal(t, 1, g.PickFood(1, 1))
	for i := 0; i < 3; i++ {
		assert.Equal(t, 0, g.PickFood(1, 1))
	}
	assert.Equal(t, 0, g.Cell(1, 1).Food)

	assert.Equal(t, 0, g.PickFood(-1, 1))
}

func TestAddFoodClamps(t *testing.T) {
	g := NewGrid(3, 3, 16, testParams())
	g.AddFood(0, 0, 80)
	g.AddFood(0, 0, 80)
	assert.Equal(t, MaxFood, g.Cell(0, 0).Food)

	g.AddFood(0, 0, -500)
	assert.Equal(t, 0, g.Cell(0, 0).Food)

	g.SetWall(2, 2, true)
	g.AddFood(2, 2, 10)
	assert.Equal(t, 0, g.Cell(2, 2).Food)

	assert.NotPanics(t, func() { g.AddFood(9, 9, 10) })
}

func TestCellAt(t *testing.T) {
	g := NewGrid(10, 5, 16, testParams())

	c := g.CellAt(16*3+1, 16*2+15)
	require.NotNil(t, c)
	assert.Same(t, g.Cell(3, 2), c)

	assert.Nil(t, g.CellAt(-0.1, 0))
	assert.Nil(t, g.CellAt(160, 0))
	assert.Nil(t, g.CellAt(0, 80))
}

func TestEmptyGrid(t *testing.T) {
	g := NewGrid(0, 7, 16, testParams())
	assert.Equal(t, 0, g.Width())
	assert.Equal(t, 0, g.Height())
	assert.Nil(t, g.CellAt(0, 0))
	assert.NotPanics(t, g.Tick)
	assert.True(t, g.IsBlocked(0, 0))
}

func TestFromMapsRoundTrip(t *testing.T) {
	walls := [][]bool{
		{true, true, true},
		{true, false, true},
		{true, false, true},
		{true, true, true},
	}
	food := [][]int{
		{0, 0, 0},
		{0, 40, 0},
		{0, 0, 0},
		{0, 0, 0},
	}
	g := FromMaps(walls, food, 8, testParams())
	assert.Equal(t, 3, g.Width())
	assert.Equal(t, 4, g.Height())
	assert.Equal(t, walls, g.WallMap())
	assert.Equal(t, food, g.FoodMap())
}

func TestAddBorderWalls(t *testing.T) {
	g := NewGrid(6, 6, 1, testParams())
	g.AddFood(0, 3, 10)
	g.AddBorderWalls(2)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			inner := x >= 2 && x < 4 && y >= 2 && y < 4
			assert.Equal(t, !inner, g.Cell(x, y).Wall, "cell %d,%d", x, y)
		}
	}
	assert.Equal(t, 0, g.Cell(0, 3).Food)
}

func TestTotals(t *testing.T) {
	g := NewGrid(3, 1, 1, testParams())
	g.SetWall(2, 0, true)
	g.AddFood(0, 0, 7)
	g.AddMarker(1, 0, ToFood, 0.5)

	tot := g.Totals()
	assert.Equal(t, 2, tot.OpenCells)
	assert.Equal(t, 1, tot.FoodCells)
	assert.Equal(t, 7, tot.Food)
	assert.Equal(t, 1, tot.Trail[ToFood])
	assert.InDelta(t, 0.5, tot.TrailSum[ToFood], 1e-6)
}
