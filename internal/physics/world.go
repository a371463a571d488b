package physics

import "game-sim/internal/vec"

// WorldBoundaryID is the sentinel BID on collision events produced by the
// world boundary rather than by another body.
const WorldBoundaryID = "__world__"

// Bounds is the axis-aligned rectangle the world is confined to. Normalization
// guarantees Max exceeds Min on both axes.
type Bounds struct {
	Min vec.Vector2 `json:"min"`
	Max vec.Vector2 `json:"max"`
}

// WorldState is the whole simulated universe at one instant. It is a plain
// value: the stepper never mutates its input and returns a fresh state.
type WorldState struct {
	Tick                 int         `json:"tick"`
	ElapsedMs            float64     `json:"elapsedMs"`
	Gravity              vec.Vector2 `json:"gravity"`
	Bounds               Bounds      `json:"bounds"`
	DefaultRestitution   float64     `json:"defaultRestitution"`
	DefaultFriction      float64     `json:"defaultFriction"`
	DefaultLinearDamping float64     `json:"defaultLinearDamping"`
	Bodies               []Body      `json:"bodies"`
}

// CollisionEvent describes one resolved contact during a step. BID is
// WorldBoundaryID for boundary contacts. Normal points from A toward B (for
// boundary contacts, from the wall into the world). RelativeSpeed is the
// closing speed along the normal measured before any impulse was applied.
type CollisionEvent struct {
	AID           string      `json:"aId"`
	BID           string      `json:"bId"`
	Normal        vec.Vector2 `json:"normal"`
	Depth         float64     `json:"depth"`
	RelativeSpeed float64     `json:"relativeSpeed"`
}

// Clone returns a fully independent copy of the world. Body fields are value
// types except the optional material overrides, whose pointees are duplicated
// so neither world can reach into the other.
func (w WorldState) Clone() WorldState {
	out := w
	out.Bodies = make([]Body, len(w.Bodies))
	for i := range w.Bodies {
		out.Bodies[i] = cloneBody(w.Bodies[i])
	}
	return out
}

func cloneBody(b Body) Body {
	b.Restitution = clonePtr(b.Restitution)
	b.Friction = clonePtr(b.Friction)
	b.LinearDamping = clonePtr(b.LinearDamping)
	return b
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// FindBody returns a pointer to the body with the given id, or nil.
func (w *WorldState) FindBody(id string) *Body {
	for i := range w.Bodies {
		if w.Bodies[i].ID == id {
			return &w.Bodies[i]
		}
	}
	return nil
}
