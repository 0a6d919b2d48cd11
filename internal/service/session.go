// Package service hosts the scene session: the composition root that
// owns the device registry, label system, interaction controller and
// topology linker for one scene's lifetime. There is no ambient
// state; every container lives here and dies with the session.
package service

import (
	"context"
	"sync"

	"github.com/chewxy/math32"

	"topovista/internal/asset"
	"topovista/internal/domain"
	"topovista/internal/interact"
	"topovista/internal/label"
	"topovista/internal/registry"
	"topovista/internal/topology"
	"topovista/internal/vmath"
)

// Idle animation tuning: slow yaw plus a gentle vertical bob around
// each device's home position.
const (
	idleSpinRate = 0.35 // radians per second
	idleBobAmp   = 0.12
	idleBobRate  = 1.1
	idlePhase    = 0.7 // per-device phase stagger
)

// LoadSummary reports the outcome of loading one topology document.
type LoadSummary struct {
	DevicesCommitted int `json:"devices_committed"`
	DevicesSkipped   int `json:"devices_skipped"`
	Connections      int `json:"connections"`
	Inferred         bool `json:"inferred"`
}

// Metrics is the on-demand scene tally; nothing here is a hidden
// counter, everything recomputes from registry and linker state.
type Metrics struct {
	TotalDevices   int                     `json:"total_devices"`
	VisibleDevices int                     `json:"visible_devices"`
	Connections    int                     `json:"connections"`
	ByCategory     map[domain.Category]int `json:"by_category"`
}

// DeviceState is the wire form of one device for scene consumers.
type DeviceState struct {
	Name         string          `json:"name"`
	Label        string          `json:"label"`
	Category     domain.Category `json:"category"`
	Position     vmath.Vector3   `json:"position"`
	Visible      bool            `json:"visible"`
	LabelVisible bool            `json:"label_visible"`
	Procedural   bool            `json:"procedural"`
	Hover        interact.State  `json:"hover"`
}

// LinkState is the wire form of one connection.
type LinkState struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Bandwidth int             `json:"bandwidth,omitempty"`
	Points    []vmath.Vector3 `json:"points"`
	Visible   bool            `json:"visible"`
}

// SceneState is the complete render-facing snapshot.
type SceneState struct {
	Devices []DeviceState `json:"devices"`
	Links   []LinkState   `json:"links"`
}

// SceneSession composes the engine for one scene lifetime. All
// mutation funnels through the session lock, preserving the
// single-control-thread model against concurrent HTTP callers.
type SceneSession struct {
	mu sync.Mutex

	resolver *asset.Resolver
	labels   *label.System
	interact *interact.Controller
	registry *registry.Registry
	linker   *topology.Linker
	events   *EventBus

	animate bool
	elapsed float32
}

// NewSceneSession builds an empty session. Clicks route to sink; a
// nil bus disables event publication.
func NewSceneSession(resolver *asset.Resolver, sink interact.DetailSink, bus *EventBus) *SceneSession {
	if bus == nil {
		bus = NewEventBus()
	}
	s := &SceneSession{
		resolver: resolver,
		labels:   label.NewSystem(),
		events:   bus,
		animate:  true,
	}
	s.interact = interact.NewController(interact.DetailSinkFunc(func(d domain.Detail) {
		if sink != nil {
			sink.ShowDetail(d)
		}
		bus.Publish(Event{Type: EventDetailShown, Payload: d})
	}))
	s.registry = registry.New(resolver, s.labels, s.interact)
	s.linker = topology.New(s.registry)
	return s
}

// Events returns the session's event bus.
func (s *SceneSession) Events() *EventBus {
	return s.events
}

// LoadDocument loads a topology document: devices first, in input
// order, then connections. When the document carries no explicit
// connections the topology is inferred from device roles.
func (s *SceneSession) LoadDocument(ctx context.Context, doc *domain.Document) LoadSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	committed := s.registry.Load(ctx, doc.Models)
	summary := LoadSummary{
		DevicesCommitted: committed,
		DevicesSkipped:   len(doc.Models) - committed,
	}

	if len(doc.Connections) > 0 {
		summary.Connections = s.linker.LoadConnections(doc.Connections)
	} else {
		summary.Connections = s.linker.InferFromRoles()
		summary.Inferred = true
	}

	s.events.Publish(Event{Type: EventDevicesLoaded, Payload: summary})
	s.events.Publish(Event{Type: EventConnectionsLoaded, Payload: map[string]int{"connections": s.linker.Count()}})
	return summary
}

// MergeDevices commits additional descriptors (e.g. from discovery)
// into the live session and extends the inferred topology around
// them. Existing links are preserved; the bipartite join only adds
// pairs that do not exist yet.
func (s *SceneSession) MergeDevices(ctx context.Context, descs []domain.DeviceDescriptor) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	committed := s.registry.Load(ctx, descs)
	added := s.linker.InferFromRoles()
	s.events.Publish(Event{Type: EventDiscoveryComplete, Payload: map[string]int{
		"devices": committed,
		"links":   added,
	}})
	return committed
}

// FilterByCategories applies a category selection; the "all" wildcard
// shows every device.
func (s *SceneSession) FilterByCategories(cats []string) {
	selected := make(map[domain.Category]bool, len(cats))
	for _, c := range cats {
		if domain.Category(c) == domain.CategoryAll {
			selected[domain.CategoryAll] = true
			continue
		}
		selected[domain.ParseCategory(c)] = true
	}

	s.mu.Lock()
	s.registry.FilterByCategories(selected)
	visible := s.registry.VisibleCount()
	s.mu.Unlock()

	s.events.Publish(Event{Type: EventFilterApplied, Payload: map[string]interface{}{
		"categories": cats,
		"visible":    visible,
	}})
}

// SetLabelsVisible toggles every label's own flag. Labels on hidden
// devices remain effectively hidden.
func (s *SceneSession) SetLabelsVisible(show bool) {
	s.mu.Lock()
	s.labels.SetAllVisible(show)
	s.mu.Unlock()
	s.events.Publish(Event{Type: EventLabelsToggled, Payload: map[string]bool{"visible": show}})
}

// SetLinksVisible toggles every link uniformly.
func (s *SceneSession) SetLinksVisible(show bool) {
	s.mu.Lock()
	s.linker.ToggleVisibility(show)
	s.mu.Unlock()
	s.events.Publish(Event{Type: EventLinksToggled, Payload: map[string]bool{"visible": show}})
}

// SetAnimate enables or disables the idle animation drift.
func (s *SceneSession) SetAnimate(on bool) {
	s.mu.Lock()
	s.animate = on
	s.mu.Unlock()
}

// PointerEnter forwards a hover-enter event for a device.
func (s *SceneSession) PointerEnter(name string) bool {
	return s.interact.PointerEnter(name)
}

// PointerLeave forwards a hover-leave event for a device.
func (s *SceneSession) PointerLeave(name string) bool {
	return s.interact.PointerLeave(name)
}

// Click forwards a click event and returns the detail payload.
func (s *SceneSession) Click(name string) (domain.Detail, bool) {
	return s.interact.Click(name)
}

// Tick advances the idle animation by dt seconds: a slow yaw and a
// vertical bob around each device's home position, then an in-place
// refresh of link geometry so links track the drift. O(n) in device
// and link count; mutates existing entities only, allocates nothing.
func (s *SceneSession) Tick(dt float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.animate {
		return
	}
	s.elapsed += dt

	for i, d := range s.registry.All() {
		phase := float32(i) * idlePhase
		d.Visual.Rotation.Y += dt * idleSpinRate
		d.Visual.Position.Y = d.Home.Y + idleBobAmp*math32.Sin(s.elapsed*idleBobRate+phase)
	}

	s.linker.RefreshGeometry()
}

// Metrics recomputes the scene tally on demand.
func (s *SceneSession) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Metrics{
		TotalDevices:   s.registry.Count(),
		VisibleDevices: s.registry.VisibleCount(),
		Connections:    s.linker.Count(),
		ByCategory:     s.registry.CountsByCategory(),
	}
}

// Snapshot returns the full render-facing scene state.
func (s *SceneSession) Snapshot() SceneState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := SceneState{
		Devices: make([]DeviceState, 0, s.registry.Count()),
		Links:   make([]LinkState, 0, s.linker.Count()),
	}
	for _, d := range s.registry.All() {
		state.Devices = append(state.Devices, DeviceState{
			Name:         d.Descriptor.Name,
			Label:        d.Descriptor.Label(),
			Category:     d.Category,
			Position:     d.Visual.Position,
			Visible:      d.Visible,
			LabelVisible: d.Label.EffectiveVisible(),
			Procedural:   d.Procedural,
			Hover:        s.interact.State(d.Descriptor.Name),
		})
	}
	for _, link := range s.linker.All() {
		// Copy the polyline so later ticks cannot mutate a snapshot
		// being serialized.
		points := make([]vmath.Vector3, len(link.Mesh.Geometry.Points))
		copy(points, link.Mesh.Geometry.Points)
		state.Links = append(state.Links, LinkState{
			From:      link.From,
			To:        link.To,
			Bandwidth: link.Bandwidth,
			Points:    points,
			Visible:   link.Mesh.Enabled(),
		})
	}
	return state
}

// Registry exposes the device registry for read-side collaborators.
func (s *SceneSession) Registry() *registry.Registry {
	return s.registry
}
