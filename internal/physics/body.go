package physics

import "game-sim/internal/vec"

// Default and limit constants for the simulation. The normalization layer
// falls back to these when a numeric field is missing or non-finite; the
// stepper clamps material parameters to [0,1] at use time. Keeping them in
// one place keeps the wire contract auditable.
const (
	DefaultMass          = 1.0
	DefaultRestitution   = 0.25
	DefaultFriction      = 0.2
	DefaultLinearDamping = 0.02
	DefaultHalfExtent    = 0.5
	DefaultDtMs          = 16.667
	DefaultSteps         = 1

	// MinScalar floors mass and half-extent components so inverse mass and
	// AABB extents stay finite and positive.
	MinScalar = 0.0001

	MinDtMs  = 1.0
	MaxDtMs  = 100.0
	MinSteps = 1
	MaxSteps = 32

	MaxBodies  = 300
	MaxActions = 100
)

// DefaultGravity is the world gravity used when a request does not supply one.
// Positive Y points down, matching the canvas renderer.
func DefaultGravity() vec.Vector2 {
	return vec.Vector2{X: 0, Y: 12}
}

// Body is one simulated axis-aligned rigid body. Static bodies never move and
// never gain velocity, but dynamic bodies still collide against them.
//
// Restitution, Friction, and LinearDamping are optional per-body overrides of
// the world defaults; nil means "use the world value". Tag is an opaque
// passthrough for callers (e.g. the renderer); the core never reads it.
type Body struct {
	ID            string      `json:"id"`
	Position      vec.Vector2 `json:"position"`
	Velocity      vec.Vector2 `json:"velocity"`
	HalfSize      vec.Vector2 `json:"halfSize"`
	Mass          float64     `json:"mass"`
	IsStatic      bool        `json:"isStatic"`
	Restitution   *float64    `json:"restitution,omitempty"`
	Friction      *float64    `json:"friction,omitempty"`
	LinearDamping *float64    `json:"linearDamping,omitempty"`
	Tag           string      `json:"tag,omitempty"`
}

// InverseMass returns 1/mass for dynamic bodies and 0 for static bodies.
// Normalization guarantees mass > 0, so the division is safe.
func (b *Body) InverseMass() float64 {
	if b.IsStatic {
		return 0
	}
	return 1.0 / b.Mass
}

// restitutionOr returns the body override clamped to [0,1], or the given
// world default (also clamped) when the body has none.
func (b *Body) restitutionOr(def float64) float64 {
	if b.Restitution != nil {
		return clamp01(*b.Restitution)
	}
	return clamp01(def)
}

func (b *Body) frictionOr(def float64) float64 {
	if b.Friction != nil {
		return clamp01(*b.Friction)
	}
	return clamp01(def)
}

func (b *Body) dampingOr(def float64) float64 {
	if b.LinearDamping != nil {
		return clamp01(*b.LinearDamping)
	}
	return clamp01(def)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
