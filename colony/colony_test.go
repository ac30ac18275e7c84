package colony

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/anthill/components"
	"github.com/pthm-cable/anthill/config"
	"github.com/pthm-cable/anthill/systems"
	"github.com/pthm-cable/anthill/world"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Colony.StartingAnts = 5
	cfg.Colony.MaxAnts = 8
	cfg.Colony.StartingFood = 0
	cfg.Colony.MaxFood = 100
	cfg.Colony.AntCost = 5
	cfg.Colony.CreationPeriod = 0.15
	return cfg
}

// walledGrid returns a w×h grid that is solid wall everywhere.
func walledGrid(cfg *config.Config, w, h int) *world.Grid {
	g := world.NewGrid(w, h, 16, world.ParamsFromConfig(cfg))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.SetWall(x, y, true)
		}
	}
	return g
}

func newTestColony(t *testing.T, cfg *config.Config, g *world.Grid) *Colony {
	t.Helper()
	x := float32(g.Width()) * g.CellSize() / 2
	y := float32(g.Height()) * g.CellSize() / 2
	return New(cfg, g, rand.New(rand.NewSource(1)), x, y)
}

func tickContext(cfg *config.Config, g *world.Grid, dt float32) *systems.Context {
	return &systems.Context{
		Grid:   g,
		Rng:    rand.New(rand.NewSource(2)),
		DT:     dt,
		Params: systems.AntParamsFromConfig(cfg),
	}
}

func TestNewCarvesFootprint(t *testing.T) {
	cfg := testConfig(t)
	g := walledGrid(cfg, 20, 20)
	c := newTestColony(t, cfg, g)

	cx, cy := g.CellCoords(c.X, c.Y)
	centre := g.Cell(cx, cy)
	require.NotNil(t, centre)
	assert.False(t, centre.Wall)
	assert.True(t, centre.Colony)

	corner := g.Cell(0, 0)
	assert.True(t, corner.Wall)
	assert.False(t, corner.Colony)

	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			cell := g.Cell(x, y)
			if cell.Colony {
				wx, wy := g.CellCenter(x, y)
				if x != cx || y != cy {
					assert.True(t, c.OnFootprint(wx, wy), "colony cell (%d,%d) outside radius", x, y)
				}
				assert.False(t, cell.Wall)
				assert.Zero(t, cell.Food)
			}
		}
	}
	assert.Equal(t, 5, c.Count())
	assert.Equal(t, 5, c.TotalAnts())
	assert.Equal(t, 0, c.Food())
}

func TestStartingAntsCappedByMax(t *testing.T) {
	cfg := testConfig(t)
	cfg.Colony.StartingAnts = 20
	g := world.NewGrid(20, 20, 16, world.ParamsFromConfig(cfg))
	c := newTestColony(t, cfg, g)
	assert.Equal(t, 8, c.Count())
}

func TestAddFoodClamps(t *testing.T) {
	cfg := testConfig(t)
	cfg.Colony.MaxFood = 10
	g := world.NewGrid(20, 20, 16, world.ParamsFromConfig(cfg))
	c := newTestColony(t, cfg, g)

	c.AddFood(8)
	c.AddFood(5)
	assert.Equal(t, 10, c.Food())
	assert.Equal(t, 13, c.TotalFood())

	c.AddFood(0)
	c.AddFood(-3)
	assert.Equal(t, 10, c.Food())
	assert.Equal(t, 13, c.TotalFood())
}

func TestUseFoodRefusesWhenShort(t *testing.T) {
	cfg := testConfig(t)
	g := world.NewGrid(20, 20, 16, world.ParamsFromConfig(cfg))
	c := newTestColony(t, cfg, g)

	c.AddFood(3)
	assert.False(t, c.UseFood(5))
	assert.Equal(t, 3, c.Food())
	assert.True(t, c.UseFood(3))
	assert.Equal(t, 0, c.Food())
	assert.True(t, c.UseFood(0))
	assert.False(t, c.UseFood(-1))
}

func TestSpawnEconomy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Colony.StartingAnts = 0
	cfg.Colony.MaxAnts = 2
	g := world.NewGrid(20, 20, 16, world.ParamsFromConfig(cfg))
	c := newTestColony(t, cfg, g)
	ctx := tickContext(cfg, g, 0.2)

	// Clock elapsed but the store is empty.
	c.Update(ctx)
	assert.Equal(t, 0, c.Count())

	c.AddFood(5)
	c.Update(ctx)
	assert.Equal(t, 1, c.Count())
	assert.Equal(t, 0, c.Food())

	// Clock has not elapsed yet.
	c.AddFood(20)
	short := tickContext(cfg, g, 0.05)
	c.Update(short)
	assert.Equal(t, 1, c.Count())

	c.Update(ctx)
	c.Update(ctx)
	c.Update(ctx)
	assert.Equal(t, 2, c.Count(), "population capped at MaxAnts")
	assert.Equal(t, 15, c.Food(), "no charge once capped")
	assert.Equal(t, 2, c.TotalAnts())
}

func TestStarvedAntsRemoved(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ant.AutonomyMax = 0.01
	cfg.Ant.AutonomyJitter = 0
	g := world.NewGrid(20, 20, 16, world.ParamsFromConfig(cfg))
	c := newTestColony(t, cfg, g)
	require.Equal(t, 5, c.Count())

	c.Update(tickContext(cfg, g, 0.02))
	assert.Equal(t, 0, c.Count())
	assert.Equal(t, 5, c.TotalStarved())
	assert.Empty(t, c.Agents())
}

func TestRemove(t *testing.T) {
	cfg := testConfig(t)
	g := world.NewGrid(20, 20, 16, world.ParamsFromConfig(cfg))
	c := newTestColony(t, cfg, g)

	assert.True(t, c.Remove(1))
	assert.Equal(t, 4, c.Count())
	assert.False(t, c.Remove(1))
	assert.False(t, c.Remove(999))
	for _, a := range c.Agents() {
		assert.NotEqual(t, uint32(1), a.ID)
	}
}

func TestAgentsReflectPopulation(t *testing.T) {
	cfg := testConfig(t)
	g := world.NewGrid(20, 20, 16, world.ParamsFromConfig(cfg))
	c := newTestColony(t, cfg, g)

	agents := c.Agents()
	require.Len(t, agents, c.Count())
	seen := map[uint32]bool{}
	for _, a := range agents {
		assert.False(t, seen[a.ID], "duplicate id %d", a.ID)
		seen[a.ID] = true
		assert.Equal(t, c.X, a.X)
		assert.Equal(t, c.Y, a.Y)
		assert.Equal(t, components.StateToFood, a.State)
	}

	counts := c.StateCounts()
	assert.Equal(t, 5, counts[components.StateToFood])
	assert.Equal(t, 0, counts[components.StateToHome])
	assert.Equal(t, 0, counts[components.StateRefill])
}

func TestSpawnJitter(t *testing.T) {
	cfg := testConfig(t)
	cfg.Colony.StartingAnts = 8
	g := world.NewGrid(20, 20, 16, world.ParamsFromConfig(cfg))
	c := newTestColony(t, cfg, g)
	a := cfg.Ant

	query := c.entityFilter.Query()
	for query.Next() {
		_, steer, ant := query.Get()
		assert.True(t, ant.Alive)
		assert.LessOrEqual(t, float64(ant.MaxAutonomy), a.AutonomyMax+1e-3)
		assert.GreaterOrEqual(t, float64(ant.MaxAutonomy), a.AutonomyMax-a.AutonomyJitter-1e-3)
		assert.InDelta(t, a.MarkerPeriod, ant.MarkerPeriod, a.MarkerPeriod*a.PeriodJitter+1e-6)
		assert.InDelta(t, a.DirectionPeriod, ant.DirectionPeriod, a.DirectionPeriod*a.PeriodJitter+1e-6)
		assert.Less(t, ant.MarkerClock, ant.MarkerPeriod+1e-6)
		assert.Less(t, ant.DirectionClock, ant.DirectionPeriod+1e-6)
		assert.InDelta(t, a.RotationSpeed, steer.TurnRate, 1e-6)
	}
}

func TestResetRestoresStartingState(t *testing.T) {
	cfg := testConfig(t)
	cfg.Colony.StartingFood = 7
	g := world.NewGrid(20, 20, 16, world.ParamsFromConfig(cfg))
	c := newTestColony(t, cfg, g)

	c.AddFood(40)
	c.Remove(2)
	c.Remove(3)

	next := walledGrid(cfg, 30, 10)
	c.Reset(next)

	assert.Equal(t, 5, c.Count())
	assert.Equal(t, 7, c.Food())
	assert.Equal(t, 0, c.TotalFood())
	assert.Equal(t, 5, c.TotalAnts())
	assert.InDelta(t, 30*16/2, c.X, 1e-3)
	assert.InDelta(t, 10*16/2, c.Y, 1e-3)

	cx, cy := next.CellCoords(c.X, c.Y)
	assert.True(t, next.Cell(cx, cy).Colony)
	assert.False(t, next.Cell(cx, cy).Wall)
	for _, a := range c.Agents() {
		assert.LessOrEqual(t, a.ID, uint32(5), "ids restart after reset")
	}
}

func TestOnFootprint(t *testing.T) {
	cfg := testConfig(t)
	g := world.NewGrid(20, 20, 16, world.ParamsFromConfig(cfg))
	c := newTestColony(t, cfg, g)

	assert.True(t, c.OnFootprint(c.X, c.Y))
	assert.True(t, c.OnFootprint(c.X+49, c.Y))
	assert.False(t, c.OnFootprint(c.X+51, c.Y))
	assert.False(t, c.OnFootprint(0, 0))
}
