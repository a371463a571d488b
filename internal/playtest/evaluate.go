// Package playtest runs automated heuristics over a candidate demo world by
// driving the simulation and summarizing what happened. It is a pure consumer
// of the trusted simulation entry point and never mutates its input.
package playtest

import (
	"game-sim/internal/physics"
)

// Options controls one evaluation run. Zero values fall back to sane defaults
// (60 ticks of the default step size). ScriptedActions maps a tick index to
// the actions submitted on that tick, mirroring how a player or agent would
// poke the demo mid-run.
type Options struct {
	Ticks           int
	DtMs            float64
	Steps           int
	SettleSpeed     float64
	ScriptedActions map[int][]physics.Action
}

// Report summarizes an evaluation run.
type Report struct {
	Ticks          int
	Collisions     int
	BodyCollisions int
	BoundaryHits   int
	PeakSpeed      float64
	Escaped        []string
	Settled        bool
	Final          physics.WorldState
}

const (
	defaultTicks       = 60
	defaultSettleSpeed = 0.05
)

// Evaluate advances the world tick by tick, collecting collision statistics,
// the peak body speed, any body whose center escaped the bounds (a tunneling
// symptom at high speed), and whether every dynamic body ended below the
// settle threshold.
func Evaluate(world physics.WorldState, opts Options) Report {
	ticks := opts.Ticks
	if ticks <= 0 {
		ticks = defaultTicks
	}
	settle := opts.SettleSpeed
	if settle <= 0 {
		settle = defaultSettleSpeed
	}

	report := Report{Ticks: ticks}
	current := world
	for tick := 0; tick < ticks; tick++ {
		// Sample speeds before the step so the initial state counts too.
		for i := range current.Bodies {
			if speed := current.Bodies[i].Velocity.Length(); speed > report.PeakSpeed {
				report.PeakSpeed = speed
			}
		}
		result := physics.RunSimulation(physics.SimulationRequest{
			World:   current,
			Actions: opts.ScriptedActions[tick],
			DtMs:    opts.DtMs,
			Steps:   opts.Steps,
		})
		current = result.World
		for _, ev := range result.Collisions {
			report.Collisions++
			if ev.BID == physics.WorldBoundaryID {
				report.BoundaryHits++
			} else {
				report.BodyCollisions++
			}
		}
	}
	for i := range current.Bodies {
		if speed := current.Bodies[i].Velocity.Length(); speed > report.PeakSpeed {
			report.PeakSpeed = speed
		}
	}

	report.Settled = true
	escaped := make(map[string]bool)
	for i := range current.Bodies {
		b := &current.Bodies[i]
		if !b.IsStatic && b.Velocity.Length() > settle {
			report.Settled = false
		}
		if outOfBounds(b, current.Bounds) && !escaped[b.ID] {
			escaped[b.ID] = true
			report.Escaped = append(report.Escaped, b.ID)
		}
	}
	report.Final = current
	return report
}

// outOfBounds reports whether the body's center lies outside the world
// rectangle. After boundary resolution this should never hold; it catches
// tunneling through thin walls at extreme speeds.
func outOfBounds(b *physics.Body, bounds physics.Bounds) bool {
	return b.Position.X < bounds.Min.X || b.Position.X > bounds.Max.X ||
		b.Position.Y < bounds.Min.Y || b.Position.Y > bounds.Max.Y
}
