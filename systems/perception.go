package systems

import (
	"math"

	"github.com/pthm-cable/anthill/components"
	"github.com/pthm-cable/anthill/gridwalk"
)

// scoreEpsilon separates a real best score from a field of equal scores.
const scoreEpsilon = 1e-6

// perceive samples candidate headings in a cone ahead of the ant and retargets
// its steering. A visible goal cell wins outright; otherwise the sample with
// the strongest wall-weighted trail on the goal channel is followed. When all
// samples score alike the ant keeps its heading and Found is cleared.
func perceive(ctx *Context, pos *components.Position, steer *components.Steering, ant *components.Ant) {
	g := ctx.Grid
	p := &ctx.Params
	cs := g.CellSize()

	wantFood := ant.State == components.StateToFood || ant.State == components.StateRefill
	wantHome := ant.State == components.StateToHome || ant.State == components.StateRefill
	ch := goalChannel(ant.State)

	ox, oy := pos.X/cs, pos.Y/cs

	var (
		bestAngle float32
		bestScore = float32(-1)
		minScore  = float32(math.MaxFloat32)
		valid     int
	)
	for i := 0; i < p.PerceptionSamples; i++ {
		angle := steer.Angle + ctx.uniform(-p.PerceptionSpread, p.PerceptionSpread)
		dist := ctx.uniform(0, p.PerceptionDistance)
		sin, cos := math.Sincos(float64(angle))
		sx := pos.X + float32(cos)*dist
		sy := pos.Y + float32(sin)*dist

		cell := g.CellAt(sx, sy)
		if cell == nil || cell.Wall {
			continue
		}
		if !gridwalk.Clear(ox, oy, sx/cs, sy/cs, g.IsBlocked) {
			continue
		}

		if (wantFood && cell.HasFood()) || (wantHome && cell.Colony) {
			steer.SetTarget(angle)
			ant.Found = true
			return
		}

		score := cell.Pheromone[ch] * cell.WallDistance * cell.WallDistance
		valid++
		if score > bestScore {
			bestScore = score
			bestAngle = angle
		}
		if score < minScore {
			minScore = score
		}
	}

	if valid > 0 && bestScore > 0 && (valid == 1 || bestScore-minScore > scoreEpsilon) {
		steer.SetTarget(bestAngle)
		ant.Found = true
		return
	}
	ant.Found = false
}
