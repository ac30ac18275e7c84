package components

import "math"

// Position represents an entity's world position.
type Position struct {
	X, Y float32
}

// Steering is a heading that turns smoothly toward a target heading.
// Each Update turns by TurnRate times the projection of the target direction
// onto the current heading's normal, i.e. sin(Target-Angle), so large
// misalignments turn fast and small ones settle without overshoot.
type Steering struct {
	Angle    float32 // Current heading (radians)
	Target   float32 // Desired heading (radians)
	TurnRate float32 // Proportional gain (per second)
}

// NewSteering returns a steering state pointing at angle.
func NewSteering(angle, turnRate float32) Steering {
	a := WrapAngle(angle)
	return Steering{Angle: a, Target: a, TurnRate: turnRate}
}

// Update advances the heading by dt seconds.
func (s *Steering) Update(dt float32) {
	sinA, cosA := math.Sincos(float64(s.Angle))
	sinT, cosT := math.Sincos(float64(s.Target))
	// Target direction dotted with the heading normal (-sin a, cos a).
	dot := float32(-cosT*sinA + sinT*cosA)
	s.Angle = WrapAngle(s.Angle + s.TurnRate*dot*dt)
}

// SetTarget sets the desired heading.
func (s *Steering) SetTarget(angle float32) {
	s.Target = WrapAngle(angle)
}

// AddTarget rotates the desired heading by delta.
func (s *Steering) AddTarget(delta float32) {
	s.Target = WrapAngle(s.Target + delta)
}

// SetImmediate snaps both heading and target to angle.
func (s *Steering) SetImmediate(angle float32) {
	s.Angle = WrapAngle(angle)
	s.Target = s.Angle
}

// AddImmediate rotates both heading and target by delta.
func (s *Steering) AddImmediate(delta float32) {
	s.SetImmediate(s.Angle + delta)
}

// Vec returns the unit vector of the current heading.
func (s *Steering) Vec() (float32, float32) {
	sin, cos := math.Sincos(float64(s.Angle))
	return float32(cos), float32(sin)
}

// WrapAngle wraps a to [-pi, pi].
func WrapAngle(a float32) float32 {
	if a >= -math.Pi && a <= math.Pi {
		return a
	}
	return float32(math.Remainder(float64(a), 2*math.Pi))
}
