// Package interact wires pointer events on device visuals to an
// explicit per-device state machine and a detail-display callback.
// The controller knows nothing about how details are rendered; the
// sink decides.
package interact

import (
	"sync"

	"topovista/internal/domain"
	"topovista/internal/scene"
	"topovista/internal/vmath"
)

// State is the hover state of one device visual.
type State string

const (
	StateIdle    State = "idle"
	StateHovered State = "hovered"
)

// Hover feedback constants: visuals grow and glow on enter, both
// fully restored on leave.
const (
	hoverScaleFactor  = 1.15
	hoverEmissiveGain = 0.6
)

// DetailSink receives the click payload for external display.
type DetailSink interface {
	ShowDetail(detail domain.Detail)
}

// DetailSinkFunc adapts a function to DetailSink.
type DetailSinkFunc func(detail domain.Detail)

// ShowDetail implements DetailSink.
func (f DetailSinkFunc) ShowDetail(detail domain.Detail) {
	f(detail)
}

type binding struct {
	desc      domain.DeviceDescriptor
	visual    *scene.Mesh
	state     State
	baseScale vmath.Vector3
}

// Controller owns the hover/click bindings for all device visuals.
type Controller struct {
	mu       sync.Mutex
	bindings map[string]*binding
	sink     DetailSink
}

// NewController creates a controller routing clicks to sink. A nil
// sink makes clicks a no-op beyond returning the payload.
func NewController(sink DetailSink) *Controller {
	return &Controller{
		bindings: make(map[string]*binding),
		sink:     sink,
	}
}

// Attach wires hover and click handling for a device visual.
// Re-attaching the same device replaces the binding rather than
// stacking handlers; any in-flight hover on the old visual is
// discarded.
func (c *Controller) Attach(desc domain.DeviceDescriptor, visual *scene.Mesh) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings[desc.Name] = &binding{
		desc:      desc,
		visual:    visual,
		state:     StateIdle,
		baseScale: visual.Scaling,
	}
}

// Detach removes the binding for a device.
func (c *Controller) Detach(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.bindings, name)
}

// PointerEnter transitions Idle → Hovered: the visual scales up and
// its emissive tint brightens. Entering an already-hovered or unknown
// device is a no-op.
func (c *Controller) PointerEnter(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.bindings[name]
	if !ok || b.state == StateHovered {
		return false
	}
	b.state = StateHovered
	b.visual.Scaling = b.baseScale.Scale(hoverScaleFactor)
	b.visual.Material.Emissive = b.visual.Material.Diffuse.Scale(hoverEmissiveGain)
	return true
}

// PointerLeave transitions Hovered → Idle: unit scale and zero
// emissive are restored.
func (c *Controller) PointerLeave(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.bindings[name]
	if !ok || b.state == StateIdle {
		return false
	}
	b.state = StateIdle
	b.visual.Scaling = b.baseScale
	b.visual.Material.Emissive = vmath.Black
	return true
}

// Click builds the detail payload for a device and forwards it to the
// sink. Click is independent of hover state.
func (c *Controller) Click(name string) (domain.Detail, bool) {
	c.mu.Lock()
	b, ok := c.bindings[name]
	c.mu.Unlock()
	if !ok {
		return domain.Detail{}, false
	}
	detail := domain.DetailFor(b.desc)
	if c.sink != nil {
		c.sink.ShowDetail(detail)
	}
	return detail, true
}

// State returns the hover state for a device, Idle for unknown names.
func (c *Controller) State(name string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.bindings[name]; ok {
		return b.state
	}
	return StateIdle
}
