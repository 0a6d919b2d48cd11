package domain

import "topovista/internal/vmath"

// Connection is an unordered pair of device names with an optional
// bandwidth annotation in Mbps.
type Connection struct {
	From      string `json:"from" yaml:"from"`
	To        string `json:"to" yaml:"to"`
	Bandwidth int    `json:"bandwidth,omitempty" yaml:"bandwidth,omitempty"`
}

// Key returns a normalized identity for the connection so that
// {a,b} and {b,a} collapse to the same pair.
func (c Connection) Key() string {
	if c.From > c.To {
		return c.To + "|" + c.From
	}
	return c.From + "|" + c.To
}

// Document is a topology document: the devices to place and the
// explicit connections between them.
type Document struct {
	Version     string             `json:"version,omitempty" yaml:"version,omitempty"`
	Models      []DeviceDescriptor `json:"models" yaml:"models"`
	Connections []Connection       `json:"connections,omitempty" yaml:"connections,omitempty"`
}

// SampleDocument returns the built-in demo topology used whenever no
// document can be loaded: a firewall fronting a switch, an access
// point and two endpoints. The scene is always populated.
func SampleDocument() *Document {
	pos := func(x, y, z float32) *vmath.Vector3 {
		v := vmath.V3(x, y, z)
		return &v
	}
	return &Document{
		Version: "sample",
		Models: []DeviceDescriptor{
			{
				Name:        "fw-edge",
				DisplayName: "Edge Firewall",
				Category:    string(CategoryFirewall),
				Position:    pos(0, 0.5, 0),
				IP:          "192.168.0.254",
				Status:      "up",
				Model:       "FortiGate-61E",
			},
			{
				Name:        "sw-core",
				DisplayName: "Core Switch",
				Category:    string(CategorySwitch),
				Position:    pos(-4, 0.5, 2),
				IP:          "192.168.0.2",
				Status:      "up",
				VLAN:        "1",
			},
			{
				Name:        "ap-office",
				DisplayName: "Office AP",
				Category:    string(CategoryAccessPoint),
				Position:    pos(4, 0.5, 2),
				IP:          "192.168.0.3",
				Status:      "up",
			},
			{
				Name:        "ws-anna",
				DisplayName: "Anna's Workstation",
				Category:    string(CategoryEndpoint),
				Position:    pos(-4, 0.5, 5),
				IP:          "192.168.0.101",
				MAC:         "D4:81:D7:11:22:33",
			},
			{
				Name:        "phone-ben",
				DisplayName: "Ben's Phone",
				Category:    string(CategoryEndpoint),
				Position:    pos(4, 0.5, 5),
				IP:          "192.168.0.102",
				MAC:         "28:6C:07:44:55:66",
			},
		},
		Connections: []Connection{
			{From: "fw-edge", To: "sw-core", Bandwidth: 10000},
			{From: "fw-edge", To: "ap-office", Bandwidth: 1000},
			{From: "sw-core", To: "ws-anna", Bandwidth: 1000},
			{From: "ap-office", To: "phone-ben", Bandwidth: 866},
		},
	}
}
