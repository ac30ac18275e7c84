// Package colony owns the ant population and the nest's food economy.
package colony

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/anthill/components"
	"github.com/pthm-cable/anthill/config"
	"github.com/pthm-cable/anthill/systems"
	"github.com/pthm-cable/anthill/world"
)

// Colony is the nest: a footprint carved into the grid, a food store and the
// ECS world holding every ant.
type Colony struct {
	X, Y float32 // Nest centre in world units

	cfg    config.ColonyConfig
	antCfg config.AntConfig
	rng    *rand.Rand

	world        *ecs.World
	entityMapper *ecs.Map3[components.Position, components.Steering, components.Ant]
	entityFilter *ecs.Filter3[components.Position, components.Steering, components.Ant]
	ants         *systems.AntSystem

	food       int
	spawnClock float32
	nextID     uint32
	count      int

	// Lifetime counters
	totalAnts    int
	totalFood    int
	totalStarved int
}

// New creates a colony at world point (x, y), carves its footprint into g and
// spawns the starting ants free of charge.
func New(cfg *config.Config, g *world.Grid, rng *rand.Rand, x, y float32) *Colony {
	w := ecs.NewWorld()
	c := &Colony{
		cfg:          cfg.Colony,
		antCfg:       cfg.Ant,
		rng:          rng,
		world:        w,
		entityMapper: ecs.NewMap3[components.Position, components.Steering, components.Ant](w),
		entityFilter: ecs.NewFilter3[components.Position, components.Steering, components.Ant](w),
		ants:         systems.NewAntSystem(w),
	}
	c.reset(g, x, y)
	return c
}

// Reset clears every ant, moves the nest to the centre of g, carves the
// footprint and restores the starting food and population. Lifetime counters
// restart as well. Generated maps always clear space at their centre.
func (c *Colony) Reset(g *world.Grid) {
	c.reset(g, float32(g.Width())*g.CellSize()/2, float32(g.Height())*g.CellSize()/2)
}

func (c *Colony) reset(g *world.Grid, x, y float32) {
	var all []ecs.Entity
	query := c.entityFilter.Query()
	for query.Next() {
		all = append(all, query.Entity())
	}
	for _, e := range all {
		c.world.RemoveEntity(e)
	}

	c.X, c.Y = x, y
	c.count = 0
	c.nextID = 0
	c.spawnClock = 0
	c.totalAnts = 0
	c.totalFood = 0
	c.totalStarved = 0
	c.food = min(max(c.cfg.StartingFood, 0), c.cfg.MaxFood)

	c.carve(g)
	for i := 0; i < c.cfg.StartingAnts && c.count < c.cfg.MaxAnts; i++ {
		c.spawn()
	}
}

// carve clears walls and food under the footprint and flags its cells.
func (c *Colony) carve(g *world.Grid) {
	g.ClearColony()
	r := float32(c.cfg.Radius)
	minX, minY := g.CellCoords(c.X-r, c.Y-r)
	maxX, maxY := g.CellCoords(c.X+r, c.Y+r)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			cx, cy := g.CellCenter(x, y)
			dx, dy := cx-c.X, cy-c.Y
			if dx*dx+dy*dy > r*r {
				continue
			}
			g.ClearCell(x, y)
			g.SetColony(x, y, true)
		}
	}
	// A footprint smaller than a cell still claims the centre cell.
	cx, cy := g.CellCoords(c.X, c.Y)
	g.ClearCell(cx, cy)
	g.SetColony(cx, cy, true)
}

// OnFootprint reports whether world point (wx, wy) lies within the footprint
// radius.
func (c *Colony) OnFootprint(wx, wy float32) bool {
	dx, dy := wx-c.X, wy-c.Y
	r := float32(c.cfg.Radius)
	return dx*dx+dy*dy <= r*r
}

// Update runs every ant, removes the dead and spawns a new ant when the
// spawn clock elapses, the population is under the cap and the store can pay
// for it. ctx.Nest is set to the colony.
func (c *Colony) Update(ctx *systems.Context) {
	ctx.Nest = c
	c.ants.Update(ctx)
	c.cleanupDead()

	c.spawnClock += ctx.DT
	if c.spawnClock < float32(c.cfg.CreationPeriod) {
		return
	}
	c.spawnClock = 0
	if c.count >= c.cfg.MaxAnts {
		return
	}
	if c.UseFood(c.cfg.AntCost) {
		c.spawn()
		ctx.Events().RecordSpawn()
	}
}

// cleanupDead removes starved ants.
func (c *Colony) cleanupDead() {
	// First pass: collect dead entities (must complete before modifying)
	var toRemove []ecs.Entity
	query := c.entityFilter.Query()
	for query.Next() {
		_, _, ant := query.Get()
		if !ant.Alive {
			toRemove = append(toRemove, query.Entity())
		}
	}

	// Second pass: remove entities (query iteration complete)
	for _, e := range toRemove {
		c.world.RemoveEntity(e)
		c.count--
		c.totalStarved++
	}
}

// Remove deletes the ant with the given ID. It returns false if no live ant
// has that ID.
func (c *Colony) Remove(id uint32) bool {
	var target ecs.Entity
	found := false
	query := c.entityFilter.Query()
	for query.Next() {
		_, _, ant := query.Get()
		if ant.ID == id {
			target = query.Entity()
			found = true
		}
	}
	if !found {
		return false
	}
	c.world.RemoveEntity(target)
	c.count--
	return true
}

// spawn creates one ant at the nest with jittered tuning.
func (c *Colony) spawn() {
	a := c.antCfg
	jitter := func(base float64) float32 {
		return float32(base * (1 + (c.rng.Float64()*2-1)*a.PeriodJitter))
	}

	c.nextID++
	ant := components.Ant{
		ID:              c.nextID,
		State:           components.StateToFood,
		Alive:           true,
		MaxAutonomy:     float32(a.AutonomyMax - c.rng.Float64()*a.AutonomyJitter),
		MarkerPeriod:    jitter(a.MarkerPeriod),
		DirectionPeriod: jitter(a.DirectionPeriod),
	}
	// Start clocks out of phase so a fresh population does not act in lockstep.
	ant.MarkerClock = c.rng.Float32() * ant.MarkerPeriod
	ant.DirectionClock = c.rng.Float32() * ant.DirectionPeriod

	pos := components.Position{X: c.X, Y: c.Y}
	steer := components.NewSteering(c.rng.Float32()*2*math.Pi, float32(a.RotationSpeed))
	c.entityMapper.NewEntity(&pos, &steer, &ant)

	c.count++
	c.totalAnts++
}

// AddFood deposits qty into the store, clamped to the maximum. The full qty
// counts toward the lifetime harvest.
func (c *Colony) AddFood(qty int) {
	if qty <= 0 {
		return
	}
	c.totalFood += qty
	c.food = min(c.food+qty, c.cfg.MaxFood)
}

// UseFood withdraws qty if the store holds enough and reports whether it did.
func (c *Colony) UseFood(qty int) bool {
	if qty < 0 || c.food < qty {
		return false
	}
	c.food -= qty
	return true
}

// Food returns the current store.
func (c *Colony) Food() int { return c.food }

// Count returns the number of live ants.
func (c *Colony) Count() int { return c.count }

// TotalAnts returns the number of ants ever spawned.
func (c *Colony) TotalAnts() int { return c.totalAnts }

// TotalFood returns the food ever delivered.
func (c *Colony) TotalFood() int { return c.totalFood }

// TotalStarved returns the number of ants removed after starving.
func (c *Colony) TotalStarved() int { return c.totalStarved }

// AgentView is a read-only copy of an ant for renderers and telemetry.
type AgentView struct {
	ID       uint32
	X, Y     float32
	Heading  float32
	State    components.State
	Food     int
	Autonomy float32
	Found    bool
}

// Agents returns a view of every live ant.
func (c *Colony) Agents() []AgentView {
	dst := make([]AgentView, 0, c.count)
	query := c.entityFilter.Query()
	for query.Next() {
		pos, steer, ant := query.Get()
		dst = append(dst, AgentView{
			ID:       ant.ID,
			X:        pos.X,
			Y:        pos.Y,
			Heading:  steer.Angle,
			State:    ant.State,
			Food:     ant.Food,
			Autonomy: ant.Autonomy,
			Found:    ant.Found,
		})
	}
	return dst
}

// StateCounts returns the number of live ants per state.
func (c *Colony) StateCounts() [components.NumStates]int {
	var counts [components.NumStates]int
	query := c.entityFilter.Query()
	for query.Next() {
		_, _, ant := query.Get()
		if ant.State < components.NumStates {
			counts[ant.State]++
		}
	}
	return counts
}
