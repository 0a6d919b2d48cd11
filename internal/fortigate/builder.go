package fortigate

import (
	"context"
	"fmt"
	"log"
	"strings"

	"topovista/internal/domain"
	"topovista/internal/vmath"
)

// Result caps, matching the appliance-side view limits of the
// original integration.
const (
	maxSwitches  = 10
	maxAPs       = 20
	maxEndpoints = 50
)

// BuildDocument queries the appliance and assembles a topology
// document with the firewall as hub: switches, access points and
// endpoints fan out as star connections. Peer query failures are
// logged and skipped so a partially reachable appliance still
// produces a scene.
func (c *Client) BuildDocument(ctx context.Context) (*domain.Document, error) {
	status, err := c.GetSystemStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("fortigate unreachable: %w", err)
	}

	hubName := "fortigate_main"
	hubLabel := status.Hostname
	if hubLabel == "" {
		hubLabel = "FortiGate"
	}

	doc := &domain.Document{Version: "fortigate"}
	doc.Models = append(doc.Models, domain.DeviceDescriptor{
		Name:        hubName,
		DisplayName: hubLabel,
		Category:    string(domain.CategoryFirewall),
		Position:    position(0, 0.5, 0),
		IP:          c.host,
		Status:      status.Status,
		Model:       status.Version,
	})

	switches, err := c.GetManagedSwitches(ctx)
	if err != nil {
		log.Printf("fortigate: managed switches unavailable: %v", err)
	}
	for i, sw := range capSlice(switches, maxSwitches) {
		name := deviceName("switch", sw.Name, i)
		doc.Models = append(doc.Models, domain.DeviceDescriptor{
			Name:        name,
			DisplayName: orDefault(sw.Name, fmt.Sprintf("Switch %d", i)),
			Category:    string(domain.CategorySwitch),
			Position:    position(-3, 0.5, float32(i)*2),
			IP:          sw.IP,
			Status:      sw.Status,
			Model:       sw.Model,
		})
		doc.Connections = append(doc.Connections, domain.Connection{
			From: hubName, To: name, Bandwidth: 1000,
		})
	}

	aps, err := c.GetManagedAPs(ctx)
	if err != nil {
		log.Printf("fortigate: managed APs unavailable: %v", err)
	}
	for i, ap := range capSlice(aps, maxAPs) {
		name := deviceName("ap", ap.Name, i)
		doc.Models = append(doc.Models, domain.DeviceDescriptor{
			Name:        name,
			DisplayName: orDefault(ap.Name, fmt.Sprintf("AP %d", i)),
			Category:    string(domain.CategoryAccessPoint),
			Position:    position(3, 0.5, float32(i)*1.5),
			IP:          ap.IP,
			Status:      ap.Status,
			Model:       ap.Model,
		})
		doc.Connections = append(doc.Connections, domain.Connection{
			From: hubName, To: name, Bandwidth: 866,
		})
	}

	endpoints, err := c.GetUserDevices(ctx)
	if err != nil {
		log.Printf("fortigate: user devices unavailable: %v", err)
	}
	for i, dev := range capSlice(endpoints, maxEndpoints) {
		name := endpointName(dev, i)
		doc.Models = append(doc.Models, domain.DeviceDescriptor{
			Name:        name,
			DisplayName: orDefault(dev.Hostname, fmt.Sprintf("Device %d", i)),
			Category:    string(domain.CategoryEndpoint),
			Position:    position(5, 0.5, float32(i)*0.5),
			IP:          dev.IP,
			MAC:         dev.MAC,
			Status:      dev.DevType,
			Model:       dev.OSType,
		})
		doc.Connections = append(doc.Connections, domain.Connection{
			From: hubName, To: name, Bandwidth: 100,
		})
	}

	log.Printf("fortigate: built topology with %d devices and %d connections",
		len(doc.Models), len(doc.Connections))
	return doc, nil
}

func position(x, y, z float32) *vmath.Vector3 {
	v := vmath.V3(x, y, z)
	return &v
}

func capSlice[T any](in []T, max int) []T {
	if len(in) > max {
		return in[:max]
	}
	return in
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func deviceName(prefix, name string, i int) string {
	if name == "" {
		return fmt.Sprintf("%s_%d", prefix, i)
	}
	return prefix + "_" + sanitize(name)
}

func endpointName(dev UserDevice, i int) string {
	if dev.MAC != "" {
		return "device_" + sanitize(dev.MAC)
	}
	return fmt.Sprintf("device_%d", i)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
}
