// Package domain defines the topology data model: device descriptors,
// categories, connections and the topology document that carries them.
package domain

import (
	"strings"

	"topovista/internal/vmath"
)

// Category classifies a device for shape, tint and filtering.
type Category string

const (
	CategoryFirewall    Category = "firewall"
	CategorySwitch      Category = "switch"
	CategoryAccessPoint Category = "access_point"
	CategoryRouter      Category = "router"
	CategoryEndpoint    Category = "endpoint"
	CategoryUnknown     Category = "unknown"
)

// CategoryAll is the filter wildcard that selects every device.
const CategoryAll Category = "all"

// Categories lists every concrete category in display order.
var Categories = []Category{
	CategoryFirewall,
	CategorySwitch,
	CategoryAccessPoint,
	CategoryRouter,
	CategoryEndpoint,
	CategoryUnknown,
}

// ParseCategory normalizes a raw category string. Anything outside the
// closed set maps to CategoryUnknown, never an error.
func ParseCategory(raw string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(raw))) {
	case CategoryFirewall:
		return CategoryFirewall
	case CategorySwitch:
		return CategorySwitch
	case CategoryAccessPoint:
		return CategoryAccessPoint
	case CategoryRouter:
		return CategoryRouter
	case CategoryEndpoint:
		return CategoryEndpoint
	default:
		return CategoryUnknown
	}
}

// DeviceDescriptor is the immutable input record for one device. Name
// is the unique key across a load; everything else is optional display
// or classification material.
type DeviceDescriptor struct {
	Name        string         `json:"name" yaml:"name"`
	DisplayName string         `json:"displayName,omitempty" yaml:"display_name,omitempty"`
	Category    string         `json:"category" yaml:"category"`
	Position    *vmath.Vector3 `json:"position,omitempty" yaml:"position,omitempty"`

	// Classification hints for endpoint subtyping.
	MAC string `json:"mac,omitempty" yaml:"mac,omitempty"`

	// Display-only metadata.
	IP     string `json:"ip,omitempty" yaml:"ip,omitempty"`
	Status string `json:"status,omitempty" yaml:"status,omitempty"`
	Model  string `json:"model,omitempty" yaml:"model,omitempty"`
	VLAN   string `json:"vlan,omitempty" yaml:"vlan,omitempty"`
}

// Label returns the human-readable name for the device: the display
// name when present, otherwise the unique name.
func (d DeviceDescriptor) Label() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.Name
}

// ResolvedCategory returns the descriptor's category within the closed
// enum.
func (d DeviceDescriptor) ResolvedCategory() Category {
	return ParseCategory(d.Category)
}

// Detail is the payload handed to the detail-display callback on
// click. Only fields present on the descriptor are set; absent fields
// are omitted from the wire form rather than rendered empty.
type Detail struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	IP       string   `json:"ip,omitempty"`
	Status   string   `json:"status,omitempty"`
	Model    string   `json:"model,omitempty"`
	VLAN     string   `json:"vlan,omitempty"`
	MAC      string   `json:"mac,omitempty"`
}

// DetailFor builds the click payload from a descriptor.
func DetailFor(d DeviceDescriptor) Detail {
	return Detail{
		Name:     d.Label(),
		Category: d.ResolvedCategory(),
		IP:       d.IP,
		Status:   d.Status,
		Model:    d.Model,
		VLAN:     d.VLAN,
		MAC:      d.MAC,
	}
}

// Fields returns the detail as an ordered list of present key/value
// pairs, the shape a detail panel renders directly.
func (d Detail) Fields() [][2]string {
	fields := [][2]string{
		{"name", d.Name},
		{"category", string(d.Category)},
	}
	optional := [][2]string{
		{"ip", d.IP},
		{"status", d.Status},
		{"model", d.Model},
		{"vlan", d.VLAN},
		{"mac", d.MAC},
	}
	for _, f := range optional {
		if f[1] != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
