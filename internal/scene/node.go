// Package scene implements the retained scene graph the composition
// engine builds against. It models transforms, visibility and geometry
// as plain data; rendering backends consume the graph, they never own
// it.
package scene

import "topovista/internal/vmath"

// Node is the base scene-graph element: a named transform with an
// enabled flag and an optional parent. A disabled node hides its whole
// subtree regardless of child flags.
type Node struct {
	Name     string
	Position vmath.Vector3
	Rotation vmath.Vector3 // euler radians
	Scaling  vmath.Vector3

	enabled bool
	parent  *Node
}

// NewNode creates an enabled node at the origin with unit scale.
func NewNode(name string) *Node {
	return &Node{
		Name:    name,
		Scaling: vmath.V3(1, 1, 1),
		enabled: true,
	}
}

// SetEnabled sets the node's own enabled flag.
func (n *Node) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// Enabled returns the node's own flag, ignoring ancestors.
func (n *Node) Enabled() bool {
	return n.enabled
}

// EffectiveEnabled reports whether the node is actually visible: its
// own flag and every ancestor's flag must be set.
func (n *Node) EffectiveEnabled() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if !cur.enabled {
			return false
		}
	}
	return true
}

// SetParent attaches the node under parent. Position stays expressed
// in parent-local coordinates.
func (n *Node) SetParent(parent *Node) {
	n.parent = parent
}

// Parent returns the node's parent, or nil for a root node.
func (n *Node) Parent() *Node {
	return n.parent
}
