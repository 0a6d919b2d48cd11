package procedural

import (
	"strings"

	"topovista/internal/domain"
)

// EndpointType is the visual subtype of an endpoint device.
type EndpointType string

const (
	EndpointLaptop  EndpointType = "laptop"
	EndpointDesktop EndpointType = "desktop"
	EndpointMobile  EndpointType = "mobile"
)

// vendorPrefixes maps hardware-address OUI prefixes to subtypes.
// Matching is exact-prefix and case-insensitive; the table is the
// authoritative first pass of the classifier.
var vendorPrefixes = map[string]EndpointType{
	// Apple
	"00:1B:63": EndpointLaptop,
	"A4:83:E7": EndpointLaptop,
	"F0:18:98": EndpointLaptop,
	"D4:81:D7": EndpointLaptop,
	// Dell, HP
	"00:14:22": EndpointDesktop,
	"18:60:24": EndpointDesktop,
	"3C:D9:2B": EndpointDesktop,
	// Raspberry Pi
	"B8:27:EB": EndpointDesktop,
	"DC:A6:32": EndpointDesktop,
	// Xiaomi, HTC, OnePlus
	"28:6C:07": EndpointMobile,
	"40:4E:36": EndpointMobile,
	"64:A2:F9": EndpointMobile,
}

// nameKeywords maps device-name substrings to subtypes, checked in
// order so laptop hints win over desktop hints when both occur.
var nameKeywords = []struct {
	substr  string
	subtype EndpointType
}{
	{"laptop", EndpointLaptop},
	{"notebook", EndpointLaptop},
	{"macbook", EndpointLaptop},
	{"desktop", EndpointDesktop},
	{"tower", EndpointDesktop},
	{"pc", EndpointDesktop},
	{"phone", EndpointMobile},
	{"mobile", EndpointMobile},
	{"iphone", EndpointMobile},
	{"android", EndpointMobile},
}

// DetectEndpointType classifies an endpoint descriptor. Priority:
// hardware-address vendor prefix, then name keywords, then the
// desktop default. Deterministic and total.
func DetectEndpointType(desc domain.DeviceDescriptor) EndpointType {
	if mac := strings.ToUpper(strings.TrimSpace(desc.MAC)); len(mac) >= 8 {
		if subtype, ok := vendorPrefixes[mac[:8]]; ok {
			return subtype
		}
	}

	name := strings.ToLower(desc.Label())
	for _, kw := range nameKeywords {
		if strings.Contains(name, kw.substr) {
			return kw.subtype
		}
	}

	return EndpointDesktop
}
