// pkg/physics/vector.go
package physics

import (
	"cmp"
	"math"
)

// Vector2D is a 2D vector. It is a plain value: assigning it copies it, so
// ship state built from Vector2D fields never aliases between clones.
type Vector2D struct {
	X float64
	Y float64
}

// Add returns v + other.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns v - other.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale multiplies both components by factor.
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{X: v.X * factor, Y: v.Y * factor}
}

// AddScaled returns v + other*factor.
func (v Vector2D) AddScaled(other Vector2D, factor float64) Vector2D {
	return Vector2D{X: v.X + other.X*factor, Y: v.Y + other.Y*factor}
}

// Length returns the magnitude of the vector.
func (v Vector2D) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// LengthSquared returns the squared magnitude.
func (v Vector2D) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns a unit vector with the same heading. The zero vector
// normalizes to itself.
func (v Vector2D) Normalize() Vector2D {
	length := v.Length()
	if length == 0 {
		return Vector2D{}
	}
	return Vector2D{X: v.X / length, Y: v.Y / length}
}

// Distance returns the Euclidean distance between two points.
func (v Vector2D) Distance(other Vector2D) float64 {
	return other.Sub(v).Length()
}

// Dot returns the dot product.
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Angle returns the heading of the vector in radians.
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Rotate rotates the vector counter-clockwise by angle radians
// (clockwise on screen, where Y grows downwards).
func (v Vector2D) Rotate(angle float64) Vector2D {
	cos, sin := math.Cos(angle), math.Sin(angle)
	return Vector2D{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// FromAngle creates a vector from a heading and magnitude.
func FromAngle(angle, magnitude float64) Vector2D {
	return Vector2D{X: magnitude * math.Cos(angle), Y: magnitude * math.Sin(angle)}
}

// Clamp bounds value to [lo, hi].
func Clamp[T cmp.Ordered](value, lo, hi T) T {
	return max(lo, min(value, hi))
}

// ClampAxes bounds each component of v to [-limit, limit] independently.
func ClampAxes(v Vector2D, limit float64) Vector2D {
	return Vector2D{
		X: Clamp(v.X, -limit, limit),
		Y: Clamp(v.Y, -limit, limit),
	}
}
