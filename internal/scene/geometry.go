package scene

import "topovista/internal/vmath"

// GeometryKind identifies the primitive a Geometry describes.
type GeometryKind string

const (
	GeometryBox      GeometryKind = "box"
	GeometryCylinder GeometryKind = "cylinder"
	GeometrySphere   GeometryKind = "sphere"
	GeometryPlane    GeometryKind = "plane"
	GeometryLines    GeometryKind = "lines"
)

// Geometry is a parametric primitive description. Only the fields
// relevant to Kind are meaningful; a lines geometry carries its points
// explicitly.
type Geometry struct {
	Kind GeometryKind

	// Box and plane extents.
	Width  float32
	Height float32
	Depth  float32

	// Cylinder and sphere sizing.
	Diameter    float32
	DiameterTop float32

	// Polyline points for GeometryLines, in world coordinates.
	Points []vmath.Vector3
}

// Box returns a box geometry with the given extents.
func Box(width, height, depth float32) Geometry {
	return Geometry{Kind: GeometryBox, Width: width, Height: height, Depth: depth}
}

// Cylinder returns a cylinder geometry. A zero diameterTop yields a
// cone.
func Cylinder(height, diameter, diameterTop float32) Geometry {
	return Geometry{Kind: GeometryCylinder, Height: height, Diameter: diameter, DiameterTop: diameterTop}
}

// Sphere returns a sphere geometry.
func Sphere(diameter float32) Geometry {
	return Geometry{Kind: GeometrySphere, Diameter: diameter}
}

// Plane returns a flat rectangle geometry.
func Plane(width, height float32) Geometry {
	return Geometry{Kind: GeometryPlane, Width: width, Height: height}
}

// Lines returns a polyline geometry through the given points.
func Lines(points ...vmath.Vector3) Geometry {
	return Geometry{Kind: GeometryLines, Points: points}
}

// clone deep-copies the geometry so instances never share point
// slices.
func (g Geometry) clone() Geometry {
	out := g
	if g.Points != nil {
		out.Points = make([]vmath.Vector3, len(g.Points))
		copy(out.Points, g.Points)
	}
	return out
}
