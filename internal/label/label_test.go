package label

import (
	"testing"

	"topovista/internal/scene"
)

func deviceMesh(name string) *scene.Mesh {
	return scene.NewMesh(name, scene.Box(1, 1, 1), scene.Material{})
}

func TestAttach(t *testing.T) {
	s := NewSystem()
	visual := deviceMesh("fw-1")
	l := s.Attach("fw-1", "Edge Firewall", visual)

	if l.Text != "Edge Firewall" {
		t.Errorf("label text = %q, want %q", l.Text, "Edge Firewall")
	}
	if !l.Mesh.Billboard {
		t.Error("label plate is not billboarded")
	}
	if l.Mesh.Parent() != &visual.Node {
		t.Error("label not parented under the device visual")
	}
	if l.Mesh.Position.Y <= 0 {
		t.Errorf("label offset Y = %v, want above the device", l.Mesh.Position.Y)
	}
	if s.Count() != 1 {
		t.Errorf("Count() = %d, want 1", s.Count())
	}
}

func TestEffectiveVisibility(t *testing.T) {
	s := NewSystem()
	visual := deviceMesh("sw-1")
	l := s.Attach("sw-1", "Core Switch", visual)

	t.Run("visible by default", func(t *testing.T) {
		if !l.EffectiveVisible() {
			t.Error("fresh label not effectively visible")
		}
	})

	t.Run("hidden device hides label", func(t *testing.T) {
		visual.SetEnabled(false)
		if l.EffectiveVisible() {
			t.Error("label effectively visible while device hidden")
		}
		if !l.Visible() {
			t.Error("label own flag cleared by device toggle")
		}
	})

	t.Run("own flag restored with device", func(t *testing.T) {
		visual.SetEnabled(true)
		if !l.EffectiveVisible() {
			t.Error("label not visible after device re-enabled")
		}
	})
}

func TestSetAllVisibleRoundTrip(t *testing.T) {
	s := NewSystem()
	visuals := []*scene.Mesh{deviceMesh("a"), deviceMesh("b"), deviceMesh("c")}
	for _, v := range visuals {
		s.Attach(v.Name, v.Name, v)
	}

	s.SetAllVisible(false)
	for _, v := range visuals {
		l, _ := s.Get(v.Name)
		if l.Visible() || l.EffectiveVisible() {
			t.Errorf("label %q still visible after hide-all", v.Name)
		}
	}

	s.SetAllVisible(true)
	for _, v := range visuals {
		l, _ := s.Get(v.Name)
		if !l.EffectiveVisible() {
			t.Errorf("label %q not visible after show-all", v.Name)
		}
	}
}

func TestReattachReplaces(t *testing.T) {
	s := NewSystem()
	first := s.Attach("fw-1", "Old", deviceMesh("fw-1"))
	second := s.Attach("fw-1", "New", deviceMesh("fw-1"))
	if s.Count() != 1 {
		t.Errorf("Count() = %d after re-attach, want 1", s.Count())
	}
	got, _ := s.Get("fw-1")
	if got != second || got == first {
		t.Error("re-attach did not replace the label")
	}
}

func TestRemove(t *testing.T) {
	s := NewSystem()
	s.Attach("ap-1", "AP", deviceMesh("ap-1"))
	s.Remove("ap-1")
	if _, ok := s.Get("ap-1"); ok {
		t.Error("label still present after Remove")
	}
	if s.Count() != 0 {
		t.Errorf("Count() = %d after Remove, want 0", s.Count())
	}
}
