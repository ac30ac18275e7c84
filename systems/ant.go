package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/anthill/components"
	"github.com/pthm-cable/anthill/world"
)

// AntSystem runs the per-ant state machine over every ant entity.
type AntSystem struct {
	filter ecs.Filter3[components.Position, components.Steering, components.Ant]
}

// NewAntSystem creates an ant system bound to the given world.
func NewAntSystem(w *ecs.World) *AntSystem {
	return &AntSystem{
		filter: *ecs.NewFilter3[components.Position, components.Steering, components.Ant](w),
	}
}

// Update advances every live ant by one tick.
func (s *AntSystem) Update(ctx *Context) {
	query := s.filter.Query()
	for query.Next() {
		pos, steer, ant := query.Get()
		UpdateAnt(ctx, pos, steer, ant)
	}
}

// UpdateAnt advances one ant by ctx.DT: clocks, refill and starvation checks,
// perception when the direction clock elapses, steering with noise, movement,
// density, resource interaction and trail deposition, in that order.
// Starved ants are marked dead once and otherwise left untouched.
func UpdateAnt(ctx *Context, pos *components.Position, steer *components.Steering, ant *components.Ant) {
	if !ant.Alive {
		return
	}
	dt := ctx.DT
	p := &ctx.Params

	ant.Autonomy += dt
	ant.MarkerClock += dt
	ant.MarkerIntensityClock += dt
	ant.DirectionClock += dt

	if ant.State == components.StateToFood && ant.Autonomy >= p.AutonomyRefill {
		ant.State = components.StateRefill
	}
	if ant.Autonomy >= ant.MaxAutonomy {
		ant.Alive = false
		ctx.Events().RecordStarvation()
		return
	}

	if ant.DirectionClock >= ant.DirectionPeriod {
		ant.DirectionClock = 0
		perceive(ctx, pos, steer, ant)
	}

	noise := p.Noise
	if ant.Found {
		noise /= 5
	}
	steer.AddTarget(ctx.uniform(-noise, noise))
	steer.Update(dt)

	move(ctx, pos, steer, ant)

	g := ctx.Grid
	cx, cy := g.CellCoords(pos.X, pos.Y)
	g.AddDensity(cx, cy, int(ant.State), 1)

	interact(ctx, pos, cx, cy, steer, ant)
	deposit(ctx, cx, cy, ant)
}

// interact handles food pickup, delivery and refills on the ant's own cell.
// Without a nest, delivery and refills are skipped.
func interact(ctx *Context, pos *components.Position, cx, cy int, steer *components.Steering, ant *components.Ant) {
	cell := ctx.Grid.Cell(cx, cy)
	if cell == nil {
		return
	}

	switch ant.State {
	case components.StateToFood, components.StateRefill:
		if cell.HasFood() {
			if n := ctx.Grid.PickFood(cx, cy); n > 0 {
				ant.Food = n
				ant.State = components.StateToHome
				ant.Found = false
				ant.ResetClocks()
				steer.AddImmediate(math.Pi)
				ctx.Events().RecordPick(n)
				return
			}
		}
	}

	if ctx.Nest == nil || !(cell.Colony || ctx.Nest.OnFootprint(pos.X, pos.Y)) {
		return
	}
	switch ant.State {
	case components.StateToHome:
		ctx.Nest.AddFood(ant.Food)
		ctx.Events().RecordDelivery(ant.Food)
		ant.Food = 0
		ant.State = components.StateToFood
		ant.Found = false
		ant.ResetClocks()
		steer.AddImmediate(math.Pi)
	case components.StateRefill:
		ok := ctx.Nest.UseFood(ctx.Params.RefillAmount)
		ctx.Events().RecordRefill(ok)
		if ok {
			ant.State = components.StateToFood
			ant.Found = false
			ant.ResetClocks()
		}
	}
}

// depositChannel is the trail an ant leaves: the way back to where it came
// from, opposite to the channel it follows.
func depositChannel(s components.State) int {
	if s == components.StateToHome {
		return world.ToFood
	}
	return world.ToHome
}

// goalChannel is the trail an ant follows during perception.
func goalChannel(s components.State) int {
	if s == components.StateToHome {
		return world.ToHome
	}
	return world.ToFood
}

// deposit lays a trail marker when the marker clock elapses. Intensity fades
// with time since the last resource contact; faint deposits are skipped but
// still reset the clock.
func deposit(ctx *Context, cx, cy int, ant *components.Ant) {
	if ant.MarkerClock < ant.MarkerPeriod {
		return
	}
	ant.MarkerClock = 0

	p := &ctx.Params
	intensity := p.MarkerIntensity * float32(math.Exp(float64(-p.MarkerDecay*ant.MarkerIntensityClock)))
	if intensity < p.MarkerMin || !ctx.Grid.InBounds(cx, cy) {
		return
	}
	ctx.Grid.AddMarker(cx, cy, depositChannel(ant.State), intensity)
	ctx.Events().RecordMarker()
}
