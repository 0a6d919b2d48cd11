// Package procedural synthesizes substitute visuals for device types
// that have no authentic asset. Every category maps to a distinct
// primitive shape and a fixed tint; unknown categories get a neutral
// gray placeholder, never an error.
package procedural

import (
	"topovista/internal/domain"
	"topovista/internal/scene"
	"topovista/internal/vmath"
)

// modelSpec pairs a shape builder with the category tint. Extending
// the factory means adding a table entry.
type modelSpec struct {
	build func(name string) *scene.Mesh
	tint  vmath.Color
}

var categorySpecs = map[domain.Category]modelSpec{
	domain.CategoryFirewall: {
		build: buildFirewall,
		tint:  vmath.RGB(0.80, 0.22, 0.20),
	},
	domain.CategorySwitch: {
		build: buildSwitch,
		tint:  vmath.RGB(0.18, 0.45, 0.85),
	},
	domain.CategoryAccessPoint: {
		build: buildAccessPoint,
		tint:  vmath.RGB(0.20, 0.70, 0.40),
	},
	domain.CategoryRouter: {
		build: buildRouter,
		tint:  vmath.RGB(0.90, 0.55, 0.15),
	},
	domain.CategoryUnknown: {
		build: buildUnknown,
		tint:  neutralTint,
	},
}

// neutralTint is the fallback gray for anything outside the table.
var neutralTint = vmath.RGB(0.60, 0.60, 0.60)

// endpointTint is shared by all endpoint subtypes; the subtype varies
// the shape, not the color.
var endpointTint = vmath.RGB(0.45, 0.50, 0.85)

// Build synthesizes a visual for the category, consulting the
// descriptor only for endpoint subtyping. It is total: every input
// yields a non-nil mesh.
func Build(cat domain.Category, desc domain.DeviceDescriptor) *scene.Mesh {
	if cat == domain.CategoryEndpoint {
		return buildEndpoint(desc)
	}
	spec, ok := categorySpecs[cat]
	if !ok {
		spec = categorySpecs[domain.CategoryUnknown]
	}
	mesh := spec.build(desc.Name)
	mesh.Material = materialFor(desc.Name, spec.tint)
	return mesh
}

// Tint returns the fixed color for a category, neutral gray for
// anything unrecognized.
func Tint(cat domain.Category) vmath.Color {
	if cat == domain.CategoryEndpoint {
		return endpointTint
	}
	spec, ok := categorySpecs[cat]
	if !ok {
		return neutralTint
	}
	return spec.tint
}

func materialFor(name string, tint vmath.Color) scene.Material {
	return scene.Material{
		Name:    name + "-mat",
		Diffuse: tint,
	}
}

// buildFirewall yields a wide rack chassis.
func buildFirewall(name string) *scene.Mesh {
	return scene.NewMesh(name, scene.Box(2.0, 0.6, 1.2), scene.Material{})
}

// buildSwitch yields a flat 1U-style slab.
func buildSwitch(name string) *scene.Mesh {
	return scene.NewMesh(name, scene.Box(1.8, 0.3, 1.0), scene.Material{})
}

// buildAccessPoint yields a squat dome-like cone.
func buildAccessPoint(name string) *scene.Mesh {
	return scene.NewMesh(name, scene.Cylinder(0.5, 1.0, 0.2), scene.Material{})
}

// buildRouter yields an upright cylinder.
func buildRouter(name string) *scene.Mesh {
	return scene.NewMesh(name, scene.Cylinder(0.8, 1.0, 1.0), scene.Material{})
}

// buildUnknown yields the neutral placeholder sphere.
func buildUnknown(name string) *scene.Mesh {
	return scene.NewMesh(name, scene.Sphere(0.9), scene.Material{})
}

// buildEndpoint dispatches on the detected subtype.
func buildEndpoint(desc domain.DeviceDescriptor) *scene.Mesh {
	var mesh *scene.Mesh
	switch DetectEndpointType(desc) {
	case EndpointLaptop:
		mesh = buildLaptop(desc.Name)
	case EndpointMobile:
		mesh = buildMobile(desc.Name)
	default:
		mesh = buildDesktop(desc.Name)
	}
	mesh.Material = materialFor(desc.Name, endpointTint)
	return mesh
}

// buildLaptop yields a thin base with a raised screen child.
func buildLaptop(name string) *scene.Mesh {
	base := scene.NewMesh(name, scene.Box(0.9, 0.08, 0.65), scene.Material{})
	screen := scene.NewMesh(name+"-screen", scene.Box(0.9, 0.6, 0.05), scene.Material{})
	screen.Position = vmath.V3(0, 0.34, -0.3)
	base.AddChild(screen)
	return base
}

// buildDesktop yields a tower.
func buildDesktop(name string) *scene.Mesh {
	return scene.NewMesh(name, scene.Box(0.5, 1.0, 0.9), scene.Material{})
}

// buildMobile yields a slim handset slab.
func buildMobile(name string) *scene.Mesh {
	return scene.NewMesh(name, scene.Box(0.3, 0.6, 0.06), scene.Material{})
}
