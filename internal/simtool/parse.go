// Package simtool is the boundary between untrusted wire payloads and the
// simulation core. ParseRequest turns an arbitrary JSON-shaped value into a
// well-formed request or fails with a stable, descriptive message; out-of-range
// numeric fields are silently repaired to the documented defaults instead.
package simtool

import (
	"errors"
	"fmt"
	"math"

	"game-sim/internal/physics"
	"game-sim/internal/vec"
)

// Request is a normalized simulation request, safe to hand to the stepper.
type Request struct {
	World   physics.WorldState
	Actions []physics.Action
	DtMs    float64
	Steps   int
}

// ParseRequest validates and normalizes an untrusted payload. Structural
// problems (wrong shapes, duplicate ids, unknown action types, invalid bounds,
// limit violations) fail with a specific message; missing or non-finite
// numeric fields are replaced with their defaults and never reported.
func ParseRequest(payload interface{}) (*Request, error) {
	root, ok := payload.(map[string]interface{})
	if !ok {
		return nil, errors.New("request must be an object.")
	}
	world, err := parseWorld(root["world"])
	if err != nil {
		return nil, err
	}
	actions, err := parseActions(root["actions"])
	if err != nil {
		return nil, err
	}
	return &Request{
		World:   world,
		Actions: actions,
		DtMs:    clampFloat(numberOr(root["dtMs"], physics.DefaultDtMs), physics.MinDtMs, physics.MaxDtMs),
		Steps:   clampInt(intOr(root["steps"], physics.DefaultSteps), physics.MinSteps, physics.MaxSteps),
	}, nil
}

func parseWorld(v interface{}) (physics.WorldState, error) {
	var zero physics.WorldState
	m, ok := v.(map[string]interface{})
	if !ok {
		return zero, errors.New("world must be an object.")
	}

	world := physics.WorldState{
		Tick:                 maxInt(intOr(m["tick"], 0), 0),
		ElapsedMs:            math.Max(numberOr(m["elapsedMs"], 0), 0),
		Gravity:              vectorOr(m["gravity"], physics.DefaultGravity()),
		Bounds:               parseBounds(m["bounds"]),
		DefaultRestitution:   numberOr(m["defaultRestitution"], physics.DefaultRestitution),
		DefaultFriction:      numberOr(m["defaultFriction"], physics.DefaultFriction),
		DefaultLinearDamping: numberOr(m["defaultLinearDamping"], physics.DefaultLinearDamping),
	}
	if world.Bounds.Max.X <= world.Bounds.Min.X || world.Bounds.Max.Y <= world.Bounds.Min.Y {
		return zero, errors.New("world.bounds.max must be greater than world.bounds.min.")
	}

	raw := m["bodies"]
	if raw == nil {
		world.Bodies = []physics.Body{}
		return world, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return zero, errors.New("world.bodies must be an array.")
	}
	if len(list) > physics.MaxBodies {
		return zero, fmt.Errorf("world.bodies exceeds limit of %d.", physics.MaxBodies)
	}
	world.Bodies = make([]physics.Body, 0, len(list))
	seen := make(map[string]bool, len(list))
	for i, item := range list {
		bm, ok := item.(map[string]interface{})
		if !ok {
			return zero, fmt.Errorf("world.bodies[%d] must be an object.", i)
		}
		body := parseBody(bm)
		if body.ID == "" {
			return zero, fmt.Errorf("world.bodies[%d] must have a non-empty string id.", i)
		}
		if seen[body.ID] {
			return zero, fmt.Errorf("Duplicate body id %q in world.bodies.", body.ID)
		}
		seen[body.ID] = true
		world.Bodies = append(world.Bodies, body)
	}
	return world, nil
}

// parseBody normalizes one body-shaped object. The id may be empty here;
// world.bodies entries are checked by the caller, while spawnBody payloads
// legitimately carry ids the stepper may ignore.
func parseBody(m map[string]interface{}) physics.Body {
	id, _ := m["id"].(string)
	isStatic, _ := m["isStatic"].(bool)
	tag, _ := m["tag"].(string)
	half := vectorOr(m["halfSize"], vec.Vector2{X: physics.DefaultHalfExtent, Y: physics.DefaultHalfExtent})
	return physics.Body{
		ID:            id,
		Position:      vectorOr(m["position"], vec.Vector2{}),
		Velocity:      vectorOr(m["velocity"], vec.Vector2{}),
		HalfSize:      vec.Vector2{X: positiveExtent(half.X), Y: positiveExtent(half.Y)},
		Mass:          math.Max(numberOr(m["mass"], physics.DefaultMass), physics.MinScalar),
		IsStatic:      isStatic,
		Restitution:   optionalNumber(m["restitution"]),
		Friction:      optionalNumber(m["friction"]),
		LinearDamping: optionalNumber(m["linearDamping"]),
		Tag:           tag,
	}
}

func parseActions(v interface{}) ([]physics.Action, error) {
	if v == nil {
		return []physics.Action{}, nil
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, errors.New("actions must be an array.")
	}
	if len(list) > physics.MaxActions {
		return nil, fmt.Errorf("actions exceeds limit of %d.", physics.MaxActions)
	}
	actions := make([]physics.Action, 0, len(list))
	for i, item := range list {
		am, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("actions[%d] must be an object.", i)
		}
		typ, _ := am["type"].(string)
		action, err := parseAction(typ, am, i)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, nil
}

func parseAction(typ string, m map[string]interface{}, index int) (physics.Action, error) {
	switch typ {
	case "applyImpulse":
		id, err := actionBodyID(typ, m, index)
		if err != nil {
			return nil, err
		}
		return physics.ApplyImpulse{BodyID: id, Impulse: vectorOr(m["impulse"], vec.Vector2{})}, nil
	case "applyForce":
		id, err := actionBodyID(typ, m, index)
		if err != nil {
			return nil, err
		}
		return physics.ApplyForce{BodyID: id, Force: vectorOr(m["force"], vec.Vector2{})}, nil
	case "setVelocity":
		id, err := actionBodyID(typ, m, index)
		if err != nil {
			return nil, err
		}
		return physics.SetVelocity{BodyID: id, Velocity: vectorOr(m["velocity"], vec.Vector2{})}, nil
	case "teleport":
		id, err := actionBodyID(typ, m, index)
		if err != nil {
			return nil, err
		}
		return physics.Teleport{BodyID: id, Position: vectorOr(m["position"], vec.Vector2{})}, nil
	case "spawnBody":
		bm, ok := m["body"].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("Action %q at index %d requires a body object.", typ, index)
		}
		return physics.SpawnBody{Body: parseBody(bm)}, nil
	case "removeBody":
		id, err := actionBodyID(typ, m, index)
		if err != nil {
			return nil, err
		}
		return physics.RemoveBody{BodyID: id}, nil
	default:
		return nil, fmt.Errorf("Unknown action type %q at index %d.", typ, index)
	}
}

func actionBodyID(typ string, m map[string]interface{}, index int) (string, error) {
	id, _ := m["id"].(string)
	if id == "" {
		return "", fmt.Errorf("Action %q at index %d requires a body id.", typ, index)
	}
	return id, nil
}

// defaultBoundsMax is the world rectangle used when a request omits bounds.
const defaultBoundsMax = 100.0

func parseBounds(v interface{}) physics.Bounds {
	fallback := physics.Bounds{Max: vec.Vector2{X: defaultBoundsMax, Y: defaultBoundsMax}}
	m, ok := v.(map[string]interface{})
	if !ok {
		return fallback
	}
	return physics.Bounds{
		Min: vectorOr(m["min"], fallback.Min),
		Max: vectorOr(m["max"], fallback.Max),
	}
}

// numberOr returns v as a finite float64, or the fallback when v is missing,
// of the wrong type, or non-finite.
func numberOr(v interface{}, fallback float64) float64 {
	n, ok := v.(float64)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return fallback
	}
	return n
}

// intOr rounds v to the nearest integer, or returns the fallback.
func intOr(v interface{}, fallback int) int {
	n, ok := v.(float64)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return fallback
	}
	return int(math.Round(n))
}

// optionalNumber returns a pointer to v when it is a finite number and nil
// otherwise, so absent per-body overrides fall through to the world defaults.
func optionalNumber(v interface{}) *float64 {
	n, ok := v.(float64)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

func vectorOr(v interface{}, fallback vec.Vector2) vec.Vector2 {
	m, ok := v.(map[string]interface{})
	if !ok {
		return fallback
	}
	return vec.Vector2{
		X: numberOr(m["x"], fallback.X),
		Y: numberOr(m["y"], fallback.Y),
	}
}

// positiveExtent makes a half-extent component strictly positive: absolute
// value first, then the floor.
func positiveExtent(v float64) float64 {
	v = math.Abs(v)
	if v < physics.MinScalar {
		return physics.MinScalar
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
