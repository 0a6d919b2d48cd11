// Package vmath provides the small float32 vector and color math the
// scene graph needs. Float32 matches what a GPU-facing frontend
// consumes, so positions round-trip without narrowing.
package vmath

import "github.com/chewxy/math32"

// Vector3 is a 3D point or direction.
type Vector3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// V3 is shorthand for constructing a Vector3.
func V3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Add returns v + w.
func (v Vector3) Add(w Vector3) Vector3 {
	return Vector3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v - w.
func (v Vector3) Sub(w Vector3) Vector3 {
	return Vector3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v scaled by s.
func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the euclidean magnitude of v.
func (v Vector3) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Distance returns the euclidean distance between v and w.
func (v Vector3) Distance(w Vector3) float32 {
	return v.Sub(w).Length()
}

// Normalized returns v scaled to unit length, or the zero vector when
// v has no magnitude.
func (v Vector3) Normalized() Vector3 {
	mag := v.Length()
	if mag == 0 {
		return Vector3{}
	}
	return v.Scale(1 / mag)
}

// Midpoint returns the point halfway between v and w.
func (v Vector3) Midpoint(w Vector3) Vector3 {
	return Vector3{(v.X + w.X) / 2, (v.Y + w.Y) / 2, (v.Z + w.Z) / 2}
}

// Lerp returns the linear interpolation from v to w at t in [0,1].
func (v Vector3) Lerp(w Vector3, t float32) Vector3 {
	return v.Add(w.Sub(v).Scale(t))
}
