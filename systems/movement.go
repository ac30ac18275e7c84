package systems

import (
	"math"

	"github.com/pthm-cable/anthill/components"
	"github.com/pthm-cable/anthill/gridwalk"
)

// move probes ahead along the heading and either advances the ant or
// deflects it off the wall it would hit. The hit counter ratchets up on every
// hit and bleeds off by one per clear tick, escalating the deflection when an
// ant keeps bumping into the same corner.
func move(ctx *Context, pos *components.Position, steer *components.Steering, ant *components.Ant) {
	g := ctx.Grid
	p := &ctx.Params
	cs := g.CellSize()
	step := p.Speed * ctx.DT

	vx, vy := steer.Vec()
	hit, blocked := gridwalk.Cast(pos.X/cs, pos.Y/cs, vx, vy, (p.ProbeLength+step)/cs, g.IsBlocked)
	if blocked {
		deflect(ctx, steer, ant, hit)
		ant.Hits += p.HitIncrement
		vx, vy = steer.Vec()
	} else if ant.Hits > 0 {
		ant.Hits--
	}

	nx, ny := pos.X+vx*step, pos.Y+vy*step
	if !gridwalk.Clear(pos.X/cs, pos.Y/cs, nx/cs, ny/cs, g.IsBlocked) {
		return
	}
	pos.X, pos.Y = nx, ny
}

// deflect turns the heading away from a wall hit. A fresh hit reflects off
// the wall; repeated hits reverse the ant; a stuck ant takes a quarter turn.
func deflect(ctx *Context, steer *components.Steering, ant *components.Ant, hit gridwalk.Hit) {
	p := &ctx.Params
	vx, vy := steer.Vec()

	switch {
	case ant.Hits <= p.HitMirror:
		// Mirror the component along the normal.
		d := vx*hit.NormalX + vy*hit.NormalY
		vx -= 2 * d * hit.NormalX
		vy -= 2 * d * hit.NormalY
		steer.SetImmediate(float32(math.Atan2(float64(vy), float64(vx))))
	case ant.Hits <= p.HitCorner:
		// Mirror the tangential component as well: head back out.
		steer.AddImmediate(math.Pi)
	default:
		turn := float32(math.Pi / 2)
		if ctx.Rng.Intn(2) == 0 {
			turn = -turn
		}
		steer.AddImmediate(turn)
	}
}
