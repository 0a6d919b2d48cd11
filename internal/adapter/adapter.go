// Package adapter integrates external data sources that feed device
// descriptors into the scene. Adapters never touch the registry
// directly; they return descriptors and the session merges them.
package adapter

import (
	"context"

	"topovista/internal/domain"
)

// Discoverer finds devices on the live network.
type Discoverer interface {
	// Name returns the unique identifier for this discoverer
	Name() string

	// Discover scans the configured targets and returns device
	// descriptors for everything found. Partial results with a nil
	// error are valid; per-target failures are logged and skipped.
	Discover(ctx context.Context) ([]domain.DeviceDescriptor, error)
}
