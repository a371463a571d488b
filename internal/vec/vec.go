package vec

import "math"

// Vector2 is a 2D vector. Used for positions, velocities, half-extents,
// gravity, impulses, and forces throughout the simulation.
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// New returns a vector with the given components.
func New(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Add returns v + o.
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by a scalar.
func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}

// Dot returns the dot product of v and o.
func (v Vector2) Dot(o Vector2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Length returns the magnitude of v.
func (v Vector2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Epsilon is IEEE-754 double-precision machine epsilon, the threshold below
// which a vector is treated as zero-length.
const Epsilon = 2.220446049250313e-16

// Normalize returns v scaled to unit length. A vector with magnitude at or
// below machine epsilon normalizes to the zero vector; callers rely on this
// to skip friction response when relative tangential velocity is ~0.
func (v Vector2) Normalize() Vector2 {
	mag := v.Length()
	if mag <= Epsilon {
		return Vector2{}
	}
	inv := 1.0 / mag
	return Vector2{X: v.X * inv, Y: v.Y * inv}
}
