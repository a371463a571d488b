package physics

import "math"

// SimulationRequest is the trusted entry point's input: a structurally valid
// world plus optional actions and stepping parameters. Zero DtMs/Steps fall
// back to the defaults; out-of-range values are clamped.
type SimulationRequest struct {
	World   WorldState
	Actions []Action
	DtMs    float64
	Steps   int
}

// SimulationResult is the new world and every collision event resolved during
// the call, in resolution order across all sub-steps.
type SimulationResult struct {
	World      WorldState       `json:"world"`
	Collisions []CollisionEvent `json:"collisions"`
}

// RunSimulation advances the world by Steps sub-steps of DtMs milliseconds
// each. The caller's action list is applied only on the first sub-step;
// later sub-steps run with no actions. The input world is never mutated.
//
// Cost is O(Steps × len(Bodies)²) from the pairwise collision pass; there is
// no spatial partitioning, which is fine at the 300-body cap.
func RunSimulation(req SimulationRequest) SimulationResult {
	dtMs := req.DtMs
	if dtMs == 0 || math.IsNaN(dtMs) || math.IsInf(dtMs, 0) {
		dtMs = DefaultDtMs
	}
	if dtMs < MinDtMs {
		dtMs = MinDtMs
	} else if dtMs > MaxDtMs {
		dtMs = MaxDtMs
	}
	steps := req.Steps
	if steps < MinSteps {
		steps = MinSteps
	} else if steps > MaxSteps {
		steps = MaxSteps
	}

	world := req.World
	collisions := make([]CollisionEvent, 0)
	for i := 0; i < steps; i++ {
		actions := req.Actions
		if i > 0 {
			actions = nil
		}
		var events []CollisionEvent
		world, events = step(world, actions, dtMs)
		collisions = append(collisions, events...)
	}
	return SimulationResult{World: world, Collisions: collisions}
}
