package components

import (
	"math"
	"testing"
)

func TestSteeringConvergesToTarget(t *testing.T) {
	s := NewSteering(0, 7.5)
	s.SetTarget(math.Pi / 2)

	prev := float32(math.Pi / 2)
	for i := 0; i < 120; i++ {
		s.Update(1.0 / 60)
		diff := float32(math.Abs(float64(s.Target - s.Angle)))
		if diff > prev+1e-5 {
			t.Fatalf("step %d: misalignment grew from %f to %f", i, prev, diff)
		}
		prev = diff
	}
	if prev > 0.01 {
		t.Errorf("expected heading to settle on target, still off by %f", prev)
	}
}

func TestSteeringTurnsBoundedPerTick(t *testing.T) {
	s := NewSteering(0, 7.5)
	s.SetTarget(math.Pi / 2)
	s.Update(1.0 / 60)

	// Max turn per tick is TurnRate*dt.
	if s.Angle <= 0 || s.Angle > 7.5/60+1e-6 {
		t.Errorf("unexpected first step angle %f", s.Angle)
	}
}

func TestSteeringImmediate(t *testing.T) {
	s := NewSteering(0.5, 7.5)
	s.SetImmediate(2)
	if s.Angle != 2 || s.Target != 2 {
		t.Errorf("SetImmediate: got angle %f target %f", s.Angle, s.Target)
	}

	s.AddImmediate(math.Pi)
	want := WrapAngle(2 + math.Pi)
	if math.Abs(float64(s.Angle-want)) > 1e-5 || s.Target != s.Angle {
		t.Errorf("AddImmediate: got angle %f target %f, want %f", s.Angle, s.Target, want)
	}
}

func TestSteeringAddTarget(t *testing.T) {
	s := NewSteering(0, 7.5)
	s.AddTarget(0.25)
	s.AddTarget(0.25)
	if math.Abs(float64(s.Target-0.5)) > 1e-6 {
		t.Errorf("expected target 0.5, got %f", s.Target)
	}
	if s.Angle != 0 {
		t.Errorf("AddTarget must not move the heading, got %f", s.Angle)
	}
}

func TestSteeringVec(t *testing.T) {
	tests := []struct {
		name   string
		angle  float32
		wx, wy float32
	}{
		{"east", 0, 1, 0},
		{"south", math.Pi / 2, 0, 1},
		{"west", math.Pi, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSteering(tt.angle, 1)
			x, y := s.Vec()
			if math.Abs(float64(x-tt.wx)) > 1e-5 || math.Abs(float64(y-tt.wy)) > 1e-5 {
				t.Errorf("Vec() = (%f, %f), want (%f, %f)", x, y, tt.wx, tt.wy)
			}
		})
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{7 * math.Pi, math.Pi},
	}
	for _, tt := range tests {
		got := float64(WrapAngle(float32(tt.in)))
		if math.Abs(math.Abs(got)-math.Abs(tt.want)) > 1e-4 {
			t.Errorf("WrapAngle(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestStateString(t *testing.T) {
	if StateRefill.String() != "Refill" {
		t.Errorf("got %q", StateRefill.String())
	}
	if State(9).String() != "Unknown" {
		t.Errorf("got %q", State(9).String())
	}
}
