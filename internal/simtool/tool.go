package simtool

import "game-sim/internal/physics"

// Run is the untrusted entry point: it normalizes an arbitrary payload and,
// when that succeeds, runs the simulation. Validation errors are returned to
// the caller verbatim; the stepper itself cannot fail on normalized input.
func Run(payload interface{}) (*physics.SimulationResult, error) {
	req, err := ParseRequest(payload)
	if err != nil {
		return nil, err
	}
	result := physics.RunSimulation(physics.SimulationRequest{
		World:   req.World,
		Actions: req.Actions,
		DtMs:    req.DtMs,
		Steps:   req.Steps,
	})
	return &result, nil
}
