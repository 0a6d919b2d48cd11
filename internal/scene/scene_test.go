package scene

import (
	"testing"

	"topovista/internal/vmath"
)

func TestNodeEnablement(t *testing.T) {
	t.Run("new node is enabled with unit scale", func(t *testing.T) {
		n := NewNode("n")
		if !n.Enabled() {
			t.Error("new node not enabled")
		}
		if n.Scaling != vmath.V3(1, 1, 1) {
			t.Errorf("Scaling = %v, want unit", n.Scaling)
		}
	})

	t.Run("disabled parent hides subtree", func(t *testing.T) {
		parent := NewNode("parent")
		child := NewNode("child")
		child.SetParent(parent)

		if !child.EffectiveEnabled() {
			t.Error("child not effectively enabled under enabled parent")
		}
		parent.SetEnabled(false)
		if child.EffectiveEnabled() {
			t.Error("child effectively enabled under disabled parent")
		}
		if !child.Enabled() {
			t.Error("child own flag changed by parent toggle")
		}
	})

	t.Run("own flag gates visibility", func(t *testing.T) {
		n := NewNode("n")
		n.SetEnabled(false)
		if n.EffectiveEnabled() {
			t.Error("disabled root reports effectively enabled")
		}
	})
}

func TestMeshClone(t *testing.T) {
	base := NewMesh("tmpl", Box(1, 2, 3), Material{Name: "m", Diffuse: vmath.RGB(1, 0, 0)})
	screen := NewMesh("tmpl-screen", Plane(1, 0.5), Material{})
	screen.Position = vmath.V3(0, 0.3, 0)
	base.AddChild(screen)

	clone := base.Clone("dev-1")

	t.Run("renamed and detached", func(t *testing.T) {
		if clone.Name != "dev-1" {
			t.Errorf("clone name = %q, want %q", clone.Name, "dev-1")
		}
		if clone.Parent() != nil {
			t.Error("clone has a parent")
		}
		if !clone.Enabled() {
			t.Error("clone not enabled")
		}
	})

	t.Run("children copied and reparented", func(t *testing.T) {
		if len(clone.Children()) != 1 {
			t.Fatalf("clone has %d children, want 1", len(clone.Children()))
		}
		child := clone.Children()[0]
		if child == screen {
			t.Error("clone shares child with template")
		}
		if child.Parent() != &clone.Node {
			t.Error("clone child not parented to clone")
		}
		if child.Position != screen.Position {
			t.Errorf("clone child position = %v, want %v", child.Position, screen.Position)
		}
	})

	t.Run("mutating clone leaves template intact", func(t *testing.T) {
		clone.Material.Diffuse = vmath.RGB(0, 1, 0)
		clone.Position = vmath.V3(9, 9, 9)
		if base.Material.Diffuse != vmath.RGB(1, 0, 0) {
			t.Error("template material mutated through clone")
		}
		if base.Position != (vmath.Vector3{}) {
			t.Error("template position mutated through clone")
		}
	})
}

func TestLinesGeometryClone(t *testing.T) {
	g := Lines(vmath.V3(0, 0, 0), vmath.V3(1, 1, 1))
	c := g.clone()
	c.Points[0] = vmath.V3(5, 5, 5)
	if g.Points[0] != vmath.V3(0, 0, 0) {
		t.Error("clone shares point slice with original")
	}
}
