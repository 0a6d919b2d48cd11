package registry

import (
	"context"
	"fmt"
	"testing"

	"topovista/internal/asset"
	"topovista/internal/domain"
	"topovista/internal/interact"
	"topovista/internal/label"
	"topovista/internal/scene"
	"topovista/internal/vmath"
)

func newTestRegistry() *Registry {
	resolver := asset.NewResolver(asset.Manifest{Assets: map[string]string{}}, nil)
	return New(resolver, label.NewSystem(), interact.NewController(nil))
}

func desc(name string, cat domain.Category) domain.DeviceDescriptor {
	return domain.DeviceDescriptor{Name: name, Category: string(cat)}
}

func TestLoadCommitsInOrder(t *testing.T) {
	r := newTestRegistry()
	committed := r.Load(context.Background(), []domain.DeviceDescriptor{
		desc("fw-1", domain.CategoryFirewall),
		desc("sw-1", domain.CategorySwitch),
		desc("ap-1", domain.CategoryAccessPoint),
	})
	if committed != 3 {
		t.Fatalf("Load committed %d, want 3", committed)
	}
	all := r.All()
	wantOrder := []string{"fw-1", "sw-1", "ap-1"}
	for i, name := range wantOrder {
		if all[i].Descriptor.Name != name {
			t.Errorf("All()[%d] = %q, want %q", i, all[i].Descriptor.Name, name)
		}
	}
}

func TestLoadSkipsMalformedDescriptor(t *testing.T) {
	r := newTestRegistry()
	committed := r.Load(context.Background(), []domain.DeviceDescriptor{
		desc("fw-1", domain.CategoryFirewall),
		{Name: "", Category: "switch"},
		{Name: "no-category"},
		desc("ap-1", domain.CategoryAccessPoint),
	})
	if committed != 2 {
		t.Errorf("Load committed %d, want 2", committed)
	}
	if r.Count() != 2 {
		t.Errorf("Count() = %d, want 2", r.Count())
	}
	if _, ok := r.Get("fw-1"); !ok {
		t.Error("valid device before the bad one was not committed")
	}
	if _, ok := r.Get("ap-1"); !ok {
		t.Error("valid device after the bad one was not committed")
	}
}

func TestLoadUnknownCategoryStillCommits(t *testing.T) {
	r := newTestRegistry()
	committed := r.Load(context.Background(), []domain.DeviceDescriptor{
		desc("weird-1", domain.Category("quantum_router")),
	})
	if committed != 1 {
		t.Fatalf("Load committed %d, want 1", committed)
	}
	d, _ := r.Get("weird-1")
	if d.Category != domain.CategoryUnknown {
		t.Errorf("resolved category = %q, want unknown", d.Category)
	}
	if !d.Procedural {
		t.Error("device without an asset is not marked procedural")
	}
}

func TestExplicitPositionRespected(t *testing.T) {
	r := newTestRegistry()
	pos := vmath.V3(7, 1, -3)
	r.Load(context.Background(), []domain.DeviceDescriptor{{
		Name:     "fw-1",
		Category: "firewall",
		Position: &pos,
	}})
	d, _ := r.Get("fw-1")
	if d.Position() != pos {
		t.Errorf("Position() = %v, want %v", d.Position(), pos)
	}
	if d.Home != pos {
		t.Errorf("Home = %v, want %v", d.Home, pos)
	}
}

func TestAutoLayoutDistinctPositions(t *testing.T) {
	r := newTestRegistry()
	var descs []domain.DeviceDescriptor
	for i := 0; i < 17; i++ {
		descs = append(descs, desc(fmt.Sprintf("dev-%d", i), domain.CategoryEndpoint))
	}
	r.Load(context.Background(), descs)

	seen := make(map[vmath.Vector3]string)
	for _, d := range r.All() {
		pos := d.Position()
		if prior, dup := seen[pos]; dup {
			t.Errorf("devices %q and %q share auto position %v", prior, d.Descriptor.Name, pos)
		}
		seen[pos] = d.Descriptor.Name
		if pos.Y != 0.5 {
			t.Errorf("device %q elevation = %v, want 0.5", d.Descriptor.Name, pos.Y)
		}
	}
}

func TestAutoLayoutDistinctAcrossBatches(t *testing.T) {
	r := newTestRegistry()
	r.Load(context.Background(), []domain.DeviceDescriptor{
		desc("a-0", domain.CategoryEndpoint),
		desc("a-1", domain.CategoryEndpoint),
		desc("a-2", domain.CategoryEndpoint),
	})
	r.Load(context.Background(), []domain.DeviceDescriptor{
		desc("b-0", domain.CategoryEndpoint),
		desc("b-1", domain.CategoryEndpoint),
		desc("b-2", domain.CategoryEndpoint),
		desc("b-3", domain.CategoryEndpoint),
		desc("b-4", domain.CategoryEndpoint),
	})

	seen := make(map[vmath.Vector3]string)
	for _, d := range r.All() {
		pos := d.Position()
		if prior, dup := seen[pos]; dup {
			t.Errorf("devices %q and %q share position %v across batches", prior, d.Descriptor.Name, pos)
		}
		seen[pos] = d.Descriptor.Name
	}
}

func TestDuplicateNameReplaces(t *testing.T) {
	r := newTestRegistry()
	r.Load(context.Background(), []domain.DeviceDescriptor{{
		Name:     "fw-1",
		Category: "firewall",
		IP:       "10.0.0.1",
	}})
	first, _ := r.Get("fw-1")

	r.Load(context.Background(), []domain.DeviceDescriptor{{
		Name:     "fw-1",
		Category: "firewall",
		IP:       "10.0.0.99",
	}})

	if r.Count() != 1 {
		t.Fatalf("Count() = %d after replace, want 1", r.Count())
	}
	second, _ := r.Get("fw-1")
	if second == first {
		t.Error("replacement kept the prior entity")
	}
	if second.Descriptor.IP != "10.0.0.99" {
		t.Errorf("replacement IP = %q, want 10.0.0.99", second.Descriptor.IP)
	}
	if first.Visual.Enabled() {
		t.Error("replaced visual still enabled")
	}
	if len(r.All()) != 1 {
		t.Errorf("All() has %d entries after replace, want 1", len(r.All()))
	}
}

func TestResolveVisualUsesAssetTemplate(t *testing.T) {
	resolver := asset.NewResolver(
		asset.Manifest{Assets: map[string]string{"firewall": "fw.glb"}},
		func(_ context.Context, key, path string) (*scene.Mesh, error) {
			return scene.NewMesh(key, scene.Box(2, 2, 2), scene.Material{Name: "asset-mat"}), nil
		})
	r := New(resolver, label.NewSystem(), interact.NewController(nil))

	r.Load(context.Background(), []domain.DeviceDescriptor{
		desc("fw-1", domain.CategoryFirewall),
		desc("sw-1", domain.CategorySwitch),
	})

	fw, _ := r.Get("fw-1")
	if fw.Procedural {
		t.Error("asset-backed device marked procedural")
	}
	if fw.Visual.Name != "fw-1" {
		t.Errorf("asset clone name = %q, want fw-1", fw.Visual.Name)
	}

	sw, _ := r.Get("sw-1")
	if !sw.Procedural {
		t.Error("device without manifest entry not marked procedural")
	}
}

func TestFilterByCategories(t *testing.T) {
	r := newTestRegistry()
	r.Load(context.Background(), []domain.DeviceDescriptor{
		desc("fw-1", domain.CategoryFirewall),
		desc("fw-2", domain.CategoryFirewall),
		desc("sw-1", domain.CategorySwitch),
		desc("sw-2", domain.CategorySwitch),
		desc("sw-3", domain.CategorySwitch),
	})

	t.Run("single category", func(t *testing.T) {
		r.FilterByCategories(map[domain.Category]bool{domain.CategoryFirewall: true})
		if got := r.VisibleCount(); got != 2 {
			t.Errorf("VisibleCount() = %d, want 2", got)
		}
		sw, _ := r.Get("sw-1")
		if sw.Visible || sw.Visual.Enabled() {
			t.Error("filtered-out switch still visible")
		}
	})

	t.Run("filter is idempotent", func(t *testing.T) {
		r.FilterByCategories(map[domain.Category]bool{domain.CategoryFirewall: true})
		if got := r.VisibleCount(); got != 2 {
			t.Errorf("VisibleCount() after repeat = %d, want 2", got)
		}
	})

	t.Run("all wildcard restores everything", func(t *testing.T) {
		r.FilterByCategories(map[domain.Category]bool{domain.CategoryAll: true})
		if got := r.VisibleCount(); got != 5 {
			t.Errorf("VisibleCount() = %d, want 5", got)
		}
	})

	t.Run("empty selection hides everything", func(t *testing.T) {
		r.FilterByCategories(map[domain.Category]bool{})
		if got := r.VisibleCount(); got != 0 {
			t.Errorf("VisibleCount() = %d, want 0", got)
		}
		r.FilterByCategories(map[domain.Category]bool{domain.CategoryAll: true})
	})
}

func TestCountsByCategory(t *testing.T) {
	r := newTestRegistry()
	r.Load(context.Background(), []domain.DeviceDescriptor{
		desc("fw-1", domain.CategoryFirewall),
		desc("sw-1", domain.CategorySwitch),
		desc("sw-2", domain.CategorySwitch),
	})
	counts := r.CountsByCategory()
	if counts[domain.CategoryFirewall] != 1 {
		t.Errorf("firewall count = %d, want 1", counts[domain.CategoryFirewall])
	}
	if counts[domain.CategorySwitch] != 2 {
		t.Errorf("switch count = %d, want 2", counts[domain.CategorySwitch])
	}
}

func TestByCategory(t *testing.T) {
	r := newTestRegistry()
	r.Load(context.Background(), []domain.DeviceDescriptor{
		desc("sw-1", domain.CategorySwitch),
		desc("fw-1", domain.CategoryFirewall),
		desc("sw-2", domain.CategorySwitch),
	})
	switches := r.ByCategory(domain.CategorySwitch)
	if len(switches) != 2 {
		t.Fatalf("ByCategory(switch) has %d entries, want 2", len(switches))
	}
	if switches[0].Descriptor.Name != "sw-1" || switches[1].Descriptor.Name != "sw-2" {
		t.Error("ByCategory does not preserve insertion order")
	}
}
