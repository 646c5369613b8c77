// Package math provides float32 vector types for mesh processing.
package math

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product.
func (v Vec2) Dot(other Vec2) float32 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the z component of the 3D cross product of v and other,
// which is twice the signed area of the triangle they span.
func (v Vec2) Cross(other Vec2) float32 {
	return v.X*other.Y - v.Y*other.X
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Normalize returns a unit vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// ApproxEqual reports whether every component of v is within Epsilon of other.
func (v Vec2) ApproxEqual(other Vec2) bool {
	return ApproxEq(v.X, other.X) && ApproxEq(v.Y, other.Y)
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vec2) IsFinite() bool {
	return IsFinite(v.X) && IsFinite(v.Y)
}

// String formats the vector as (x,y).
func (v Vec2) String() string {
	return fmt.Sprintf("(%g,%g)", v.X, v.Y)
}
