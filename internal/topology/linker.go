// Package topology materializes visual links between device entities,
// either from an explicit connection list or inferred from device
// roles. Link geometry is derived from device positions and can be
// recomputed in place at any time.
package topology

import (
	"log"

	"topovista/internal/domain"
	"topovista/internal/registry"
	"topovista/internal/scene"
	"topovista/internal/vmath"
)

// linkLift raises the polyline midpoint above the straight line
// between endpoints so links arc over the ground plane.
const linkLift = 1.0

var linkColor = vmath.RGB(0.35, 0.78, 0.95)

// roleAdjacency lists the upstream→downstream role pairs joined by
// inference. Each pair is a complete bipartite join.
var roleAdjacency = [][2]domain.Category{
	{domain.CategoryRouter, domain.CategoryFirewall},
	{domain.CategoryFirewall, domain.CategorySwitch},
	{domain.CategorySwitch, domain.CategoryAccessPoint},
	{domain.CategoryAccessPoint, domain.CategoryEndpoint},
}

// Link is one rendered connection: the unordered endpoint pair and
// its polyline mesh.
type Link struct {
	From      string
	To        string
	Bandwidth int
	Mesh      *scene.Mesh
}

// Linker derives and owns the connection entities of a session.
type Linker struct {
	reg   *registry.Registry
	links map[string]*Link
	order []string
}

// New creates an empty linker over the populated registry.
func New(reg *registry.Registry) *Linker {
	return &Linker{
		reg:   reg,
		links: make(map[string]*Link),
	}
}

// LoadConnections materializes the explicit connection list. Pairs
// referencing an unknown device name are logged and skipped; the rest
// of the batch proceeds. Returns the number of links created.
func (l *Linker) LoadConnections(conns []domain.Connection) int {
	created := 0
	for _, conn := range conns {
		from, ok := l.reg.Get(conn.From)
		if !ok {
			log.Printf("topology: skipping connection %s-%s: unknown device %q", conn.From, conn.To, conn.From)
			continue
		}
		to, ok := l.reg.Get(conn.To)
		if !ok {
			log.Printf("topology: skipping connection %s-%s: unknown device %q", conn.From, conn.To, conn.To)
			continue
		}
		if l.addLink(conn, from, to) {
			created++
		}
	}
	return created
}

// InferFromRoles connects every device of an upstream role to every
// device of its adjacent downstream role: a complete bipartite join
// per adjacent pair, nothing capacity-aware. Returns the number of
// links created.
func (l *Linker) InferFromRoles() int {
	created := 0
	for _, pair := range roleAdjacency {
		upstream := l.reg.ByCategory(pair[0])
		downstream := l.reg.ByCategory(pair[1])
		for _, up := range upstream {
			for _, down := range downstream {
				conn := domain.Connection{
					From: up.Descriptor.Name,
					To:   down.Descriptor.Name,
				}
				if l.addLink(conn, up, down) {
					created++
				}
			}
		}
	}
	return created
}

// addLink creates the link mesh unless the pair already exists.
func (l *Linker) addLink(conn domain.Connection, from, to *registry.Device) bool {
	key := conn.Key()
	if _, exists := l.links[key]; exists {
		return false
	}
	mesh := scene.NewMesh("link-"+key, linkGeometry(from.Position(), to.Position()), scene.Material{
		Name:    "link-mat",
		Diffuse: linkColor,
	})
	l.links[key] = &Link{
		From:      conn.From,
		To:        conn.To,
		Bandwidth: conn.Bandwidth,
		Mesh:      mesh,
	}
	l.order = append(l.order, key)
	return true
}

// linkGeometry builds the 3-point polyline: endpoint, lifted
// midpoint, endpoint.
func linkGeometry(a, b vmath.Vector3) scene.Geometry {
	mid := a.Midpoint(b)
	mid.Y += linkLift
	return scene.Lines(a, mid, b)
}

// RefreshGeometry recomputes every link's polyline from the current
// endpoint positions, mutating the existing points in place. The
// recomputation is idempotent for unmoved devices.
func (l *Linker) RefreshGeometry() {
	for _, key := range l.order {
		link := l.links[key]
		from, okFrom := l.reg.Get(link.From)
		to, okTo := l.reg.Get(link.To)
		if !okFrom || !okTo {
			continue
		}
		a, b := from.Position(), to.Position()
		mid := a.Midpoint(b)
		mid.Y += linkLift
		pts := link.Mesh.Geometry.Points
		pts[0], pts[1], pts[2] = a, mid, b
	}
}

// ToggleVisibility sets every link's enabled flag uniformly.
func (l *Linker) ToggleVisibility(show bool) {
	for _, link := range l.links {
		link.Mesh.SetEnabled(show)
	}
}

// Count returns the number of live links.
func (l *Linker) Count() int {
	return len(l.links)
}

// All returns every link in creation order.
func (l *Linker) All() []*Link {
	out := make([]*Link, 0, len(l.order))
	for _, key := range l.order {
		out = append(out, l.links[key])
	}
	return out
}
