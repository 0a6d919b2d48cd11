package adapter

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	nmap "github.com/Ullaakut/nmap/v3"

	"topovista/internal/domain"
)

// NmapDiscoverer scans target networks with nmap and reports live
// hosts as endpoint descriptors. Anything it finds joins the scene as
// an endpoint; the operator's topology document remains authoritative
// for infrastructure roles.
type NmapDiscoverer struct {
	targets   []string
	portRange string
	timeout   time.Duration
}

// NmapOption is a functional option for configuring NmapDiscoverer
type NmapOption func(*NmapDiscoverer)

// WithPortRange sets the ports to scan.
// Format: "80,443,8080" or "1-1000" or "22,80-443,8080"
func WithPortRange(ports string) NmapOption {
	return func(n *NmapDiscoverer) {
		n.portRange = ports
	}
}

// WithTimeout sets the timeout for the entire scan.
func WithTimeout(d time.Duration) NmapOption {
	return func(n *NmapDiscoverer) {
		n.timeout = d
	}
}

// NewNmapDiscoverer creates a discoverer for the given CIDR ranges or
// individual IPs.
func NewNmapDiscoverer(targets []string, opts ...NmapOption) *NmapDiscoverer {
	d := &NmapDiscoverer{
		targets:   targets,
		portRange: "22,80,443,445,3389,5900,8080",
		timeout:   10 * time.Minute,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the discoverer identifier.
func (d *NmapDiscoverer) Name() string {
	return "nmap"
}

// Discover scans every target and returns endpoint descriptors for
// the live hosts. Per-target scan failures are logged and skipped.
func (d *NmapDiscoverer) Discover(ctx context.Context) ([]domain.DeviceDescriptor, error) {
	if len(d.targets) == 0 {
		log.Printf("nmap: no targets configured")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var descs []domain.DeviceDescriptor
	for _, target := range d.targets {
		found, err := d.scanTarget(ctx, target)
		if err != nil {
			log.Printf("nmap: error scanning %s: %v", target, err)
			continue
		}
		descs = append(descs, found...)
	}

	log.Printf("nmap: scan complete, discovered %d hosts", len(descs))
	return descs, nil
}

func (d *NmapDiscoverer) scanTarget(ctx context.Context, target string) ([]domain.DeviceDescriptor, error) {
	scanner, err := nmap.NewScanner(
		ctx,
		nmap.WithTargets(target),
		nmap.WithPorts(d.portRange),
	)
	if err != nil {
		return nil, fmt.Errorf("create scanner: %w", err)
	}

	log.Printf("nmap: scanning target %s", target)
	result, warnings, err := scanner.Run()
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	if warnings != nil && len(*warnings) > 0 {
		log.Printf("nmap: warnings for %s: %v", target, *warnings)
	}

	return descriptorsFromRun(result), nil
}

// descriptorsFromRun converts scan results to endpoint descriptors.
func descriptorsFromRun(result *nmap.Run) []domain.DeviceDescriptor {
	if result == nil {
		return nil
	}

	var descs []domain.DeviceDescriptor
	for _, host := range result.Hosts {
		if host.Status.State != "up" || len(host.Addresses) == 0 {
			continue
		}

		var ip, mac string
		for _, addr := range host.Addresses {
			switch addr.AddrType {
			case "ipv4":
				ip = addr.Addr
			case "mac":
				mac = addr.Addr
			}
		}
		if ip == "" {
			ip = host.Addresses[0].Addr
		}

		display := ip
		if len(host.Hostnames) > 0 && host.Hostnames[0].Name != "" {
			display = host.Hostnames[0].Name
			if idx := strings.Index(display, "."); idx > 2 {
				display = display[:idx]
			}
		}

		descs = append(descs, domain.DeviceDescriptor{
			Name:        "scan_" + sanitizeIP(ip),
			DisplayName: display,
			Category:    string(domain.CategoryEndpoint),
			IP:          ip,
			MAC:         mac,
			Status:      "up",
		})
	}
	return descs
}

func sanitizeIP(ip string) string {
	return strings.NewReplacer(".", "_", ":", "_").Replace(ip)
}
