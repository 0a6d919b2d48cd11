// Package label attaches readable name tags to device visuals. A
// label's lifecycle is tied to its device: parented under the visual,
// it can never be effectively visible while the device is hidden.
package label

import (
	"topovista/internal/scene"
	"topovista/internal/vmath"
)

// Plate dimensions and placement of the tag above its device.
const (
	plateWidth  = 1.6
	plateHeight = 0.4
	plateOffset = 1.2
)

// Label is one name tag: a billboard plane parented to the device
// visual.
type Label struct {
	Device string
	Text   string
	Mesh   *scene.Mesh
}

// SetVisible sets the label's own flag. Effective visibility still
// requires the parent device to be enabled.
func (l *Label) SetVisible(show bool) {
	l.Mesh.SetEnabled(show)
}

// Visible returns the label's own flag.
func (l *Label) Visible() bool {
	return l.Mesh.Enabled()
}

// EffectiveVisible reports whether the label actually renders:
// its own flag and the device's enablement combined.
func (l *Label) EffectiveVisible() bool {
	return l.Mesh.EffectiveEnabled()
}

// System owns all labels keyed by device name.
type System struct {
	labels map[string]*Label
}

// NewSystem creates an empty label system.
func NewSystem() *System {
	return &System{labels: make(map[string]*Label)}
}

// Attach creates the label for a device and parents it to the visual,
// offset above and billboarded to face the viewer. Attaching again
// for the same device replaces the previous label.
func (s *System) Attach(device, text string, visual *scene.Mesh) *Label {
	plate := scene.NewMesh(device+"-label", scene.Plane(plateWidth, plateHeight), scene.Material{
		Name:    device + "-label-mat",
		Diffuse: vmath.RGB(1, 1, 1),
	})
	plate.Position = vmath.V3(0, plateOffset, 0)
	plate.Billboard = true
	visual.AddChild(plate)

	l := &Label{Device: device, Text: text, Mesh: plate}
	s.labels[device] = l
	return l
}

// Get returns the label for a device.
func (s *System) Get(device string) (*Label, bool) {
	l, ok := s.labels[device]
	return l, ok
}

// Remove drops the label for a device.
func (s *System) Remove(device string) {
	delete(s.labels, device)
}

// SetAllVisible sets every label's own flag. Labels on hidden devices
// stay effectively invisible regardless.
func (s *System) SetAllVisible(show bool) {
	for _, l := range s.labels {
		l.SetVisible(show)
	}
}

// Count returns the number of attached labels.
func (s *System) Count() int {
	return len(s.labels)
}
