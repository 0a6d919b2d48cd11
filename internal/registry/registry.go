// Package registry owns the live device entities of a scene session:
// their visuals, visibility flags and spatial placement. Bulk loading
// is best-effort per descriptor and commits devices in input order.
package registry

import (
	"context"
	"fmt"
	"log"
	"math"

	"topovista/internal/asset"
	"topovista/internal/domain"
	"topovista/internal/interact"
	"topovista/internal/label"
	"topovista/internal/procedural"
	"topovista/internal/scene"
	"topovista/internal/vmath"
)

// Auto-layout constants: fixed cell spacing on an origin-anchored
// square grid, all devices at a fixed elevation.
const (
	gridSpacing   = 3.0
	gridElevation = 0.5
)

// Device is one live entity: the originating descriptor, its
// instantiated visual and the resolved state.
type Device struct {
	Descriptor domain.DeviceDescriptor
	Category   domain.Category
	Visual     *scene.Mesh
	Label      *label.Label
	Visible    bool
	Procedural bool

	// Home is the resolved position at load time; idle animation
	// drifts around it.
	Home vmath.Vector3
}

// Position returns the device's resolved world position.
func (d *Device) Position() vmath.Vector3 {
	return d.Visual.Position
}

// Registry resolves descriptors to entities and owns the result. All
// mutation happens on the session's single control thread.
type Registry struct {
	resolver *asset.Resolver
	labels   *label.System
	interact *interact.Controller

	devices map[string]*Device
	order   []string

	autoIndex int
	usedCells map[[2]int]bool
}

// New creates an empty registry wired to its collaborators.
func New(resolver *asset.Resolver, labels *label.System, ic *interact.Controller) *Registry {
	return &Registry{
		resolver:  resolver,
		labels:    labels,
		interact:  ic,
		devices:   make(map[string]*Device),
		usedCells: make(map[[2]int]bool),
	}
}

// Load commits descriptors in input order and returns the committed
// count. A descriptor that fails to resolve is logged and skipped;
// the batch continues. Loading a name that already exists replaces
// the prior entity atomically.
func (r *Registry) Load(ctx context.Context, descs []domain.DeviceDescriptor) int {
	expected := len(r.devices) + len(descs)
	committed := 0
	for _, desc := range descs {
		if err := r.loadOne(ctx, desc, expected); err != nil {
			log.Printf("registry: skipping device %q: %v", desc.Name, err)
			continue
		}
		committed++
	}
	return committed
}

func (r *Registry) loadOne(ctx context.Context, desc domain.DeviceDescriptor, expected int) error {
	if desc.Name == "" {
		return fmt.Errorf("descriptor has no name")
	}
	if desc.Category == "" {
		return fmt.Errorf("descriptor has no category")
	}
	cat := desc.ResolvedCategory()

	visual, fromAsset := r.resolveVisual(ctx, cat, desc)

	if desc.Position != nil {
		visual.Position = *desc.Position
	} else {
		visual.Position = r.nextAutoPosition(expected)
	}

	prior, replacing := r.devices[desc.Name]
	if replacing {
		r.dispose(prior)
	}

	dev := &Device{
		Descriptor: desc,
		Category:   cat,
		Visual:     visual,
		Visible:    true,
		Procedural: !fromAsset,
		Home:       visual.Position,
	}
	dev.Label = r.labels.Attach(desc.Name, desc.Label(), visual)
	r.interact.Attach(desc, visual)

	r.devices[desc.Name] = dev
	if !replacing {
		r.order = append(r.order, desc.Name)
	}
	return nil
}

// resolveVisual tries the asset template first and falls back to a
// procedural substitute. The asset cache key carries the endpoint
// subtype so a laptop and a handset can ship distinct assets.
func (r *Registry) resolveVisual(ctx context.Context, cat domain.Category, desc domain.DeviceDescriptor) (*scene.Mesh, bool) {
	key := string(cat)
	if cat == domain.CategoryEndpoint {
		key = key + "_" + string(procedural.DetectEndpointType(desc))
	}
	if res := r.resolver.Resolve(ctx, key); res.Loaded() {
		return res.Template.Clone(desc.Name), true
	}
	return procedural.Build(cat, desc), false
}

// dispose tears down a replaced entity so no two visuals stay alive
// under one name.
func (r *Registry) dispose(d *Device) {
	d.Visual.SetEnabled(false)
	r.labels.Remove(d.Descriptor.Name)
	r.interact.Detach(d.Descriptor.Name)
}

// nextAutoPosition places the next auto-laid-out device on the grid.
// The grid side is the smallest square holding one more than the
// expected device count; row and column derive from the running
// auto-placement index. Already-used cells are skipped so placements
// from successive load batches never coincide.
func (r *Registry) nextAutoPosition(expected int) vmath.Vector3 {
	side := int(math.Ceil(math.Sqrt(float64(expected + 1))))
	if side < 1 {
		side = 1
	}
	for {
		idx := r.autoIndex
		r.autoIndex++
		cell := [2]int{idx / side, idx % side}
		if r.usedCells[cell] {
			continue
		}
		r.usedCells[cell] = true
		return vmath.V3(
			float32(cell[1])*gridSpacing,
			gridElevation,
			float32(cell[0])*gridSpacing,
		)
	}
}

// Get returns the device entity for a name.
func (r *Registry) Get(name string) (*Device, bool) {
	d, ok := r.devices[name]
	return d, ok
}

// All returns every device in insertion order.
func (r *Registry) All() []*Device {
	out := make([]*Device, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.devices[name])
	}
	return out
}

// ByCategory returns devices whose resolved category matches exactly.
func (r *Registry) ByCategory(cat domain.Category) []*Device {
	var out []*Device
	for _, name := range r.order {
		if d := r.devices[name]; d.Category == cat {
			out = append(out, d)
		}
	}
	return out
}

// Count returns the number of live devices.
func (r *Registry) Count() int {
	return len(r.devices)
}

// VisibleCount returns the number of devices passing the current
// filter.
func (r *Registry) VisibleCount() int {
	n := 0
	for _, d := range r.devices {
		if d.Visible {
			n++
		}
	}
	return n
}

// CountsByCategory returns the device tally per category.
func (r *Registry) CountsByCategory() map[domain.Category]int {
	counts := make(map[domain.Category]int)
	for _, d := range r.devices {
		counts[d.Category]++
	}
	return counts
}

// FilterByCategories shows exactly the devices whose category is in
// selected; the CategoryAll wildcard shows everything. Enablement
// propagates to the visual and, through parenting, to its label.
// Applying the same selection twice yields the same visible set.
func (r *Registry) FilterByCategories(selected map[domain.Category]bool) {
	all := selected[domain.CategoryAll]
	for _, name := range r.order {
		d := r.devices[name]
		show := all || selected[d.Category]
		d.Visible = show
		d.Visual.SetEnabled(show)
	}
}
