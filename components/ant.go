// Package components defines ECS components for the simulation.
package components

// State is an ant's behavioural goal.
type State uint8

const (
	StateToFood State = iota // Searching for food
	StateToHome              // Carrying food home
	StateRefill              // Out too long, heading home for a ration
	NumStates
)

var stateNames = [...]string{"ToFood", "ToHome", "Refill"}

// String returns the display name for a State.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// Ant holds per-agent behaviour state. All clocks are in seconds.
type Ant struct {
	ID    uint32
	State State
	Alive bool

	// Autonomy counts time since the ant was last fed or last found food.
	Autonomy    float32
	MaxAutonomy float32 // Starvation limit, jittered per ant

	MarkerClock          float32
	MarkerPeriod         float32 // Jittered per ant
	MarkerIntensityClock float32 // Time since last resource contact

	DirectionClock  float32
	DirectionPeriod float32 // Jittered per ant

	Food  int  // Carried food
	Found bool // Perception locked onto a goal or trail
	Hits  int  // Collision ratchet
}

// ResetClocks zeroes the autonomy and deposit-intensity clocks after a
// resource contact.
func (a *Ant) ResetClocks() {
	a.Autonomy = 0
	a.MarkerIntensityClock = 0
}
