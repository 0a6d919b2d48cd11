package domain

import "testing"

func TestParseCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want Category
	}{
		{"firewall", CategoryFirewall},
		{"switch", CategorySwitch},
		{"access_point", CategoryAccessPoint},
		{"router", CategoryRouter},
		{"endpoint", CategoryEndpoint},
		{"Firewall", CategoryFirewall},
		{"  switch  ", CategorySwitch},
		{"toaster", CategoryUnknown},
		{"", CategoryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseCategory(tt.raw); got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDescriptorLabel(t *testing.T) {
	t.Run("display name wins", func(t *testing.T) {
		d := DeviceDescriptor{Name: "sw-1", DisplayName: "Core Switch"}
		if got := d.Label(); got != "Core Switch" {
			t.Errorf("Label() = %q, want %q", got, "Core Switch")
		}
	})

	t.Run("falls back to name", func(t *testing.T) {
		d := DeviceDescriptor{Name: "sw-1"}
		if got := d.Label(); got != "sw-1" {
			t.Errorf("Label() = %q, want %q", got, "sw-1")
		}
	})
}

func TestDetailFields(t *testing.T) {
	t.Run("omits absent fields", func(t *testing.T) {
		d := DetailFor(DeviceDescriptor{
			Name:     "fw-1",
			Category: "firewall",
			IP:       "10.0.0.1",
		})
		fields := d.Fields()
		want := [][2]string{
			{"name", "fw-1"},
			{"category", "firewall"},
			{"ip", "10.0.0.1"},
		}
		if len(fields) != len(want) {
			t.Fatalf("Fields() has %d entries, want %d: %v", len(fields), len(want), fields)
		}
		for i := range want {
			if fields[i] != want[i] {
				t.Errorf("Fields()[%d] = %v, want %v", i, fields[i], want[i])
			}
		}
	})

	t.Run("includes all present fields in order", func(t *testing.T) {
		d := DetailFor(DeviceDescriptor{
			Name:     "ws-1",
			Category: "endpoint",
			IP:       "10.0.0.50",
			Status:   "up",
			Model:    "OptiPlex",
			VLAN:     "20",
			MAC:      "AA:BB:CC:DD:EE:FF",
		})
		fields := d.Fields()
		if len(fields) != 7 {
			t.Fatalf("Fields() has %d entries, want 7", len(fields))
		}
		keys := []string{"name", "category", "ip", "status", "model", "vlan", "mac"}
		for i, key := range keys {
			if fields[i][0] != key {
				t.Errorf("Fields()[%d] key = %q, want %q", i, fields[i][0], key)
			}
		}
	})
}

func TestConnectionKey(t *testing.T) {
	a := Connection{From: "sw-1", To: "fw-1"}
	b := Connection{From: "fw-1", To: "sw-1"}
	if a.Key() != b.Key() {
		t.Errorf("Key() not order-independent: %q vs %q", a.Key(), b.Key())
	}
	if got := a.Key(); got != "fw-1|sw-1" {
		t.Errorf("Key() = %q, want %q", got, "fw-1|sw-1")
	}
}

func TestSampleDocument(t *testing.T) {
	doc := SampleDocument()
	if len(doc.Models) != 5 {
		t.Errorf("sample has %d devices, want 5", len(doc.Models))
	}
	if len(doc.Connections) != 4 {
		t.Errorf("sample has %d connections, want 4", len(doc.Connections))
	}
	names := make(map[string]bool)
	for _, m := range doc.Models {
		if m.Name == "" {
			t.Error("sample device with empty name")
		}
		if names[m.Name] {
			t.Errorf("duplicate sample device name %q", m.Name)
		}
		names[m.Name] = true
		if m.Position == nil {
			t.Errorf("sample device %q has no explicit position", m.Name)
		}
	}
	for _, c := range doc.Connections {
		if !names[c.From] || !names[c.To] {
			t.Errorf("sample connection %s-%s references unknown device", c.From, c.To)
		}
	}
}
