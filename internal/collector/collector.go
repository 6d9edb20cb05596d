// Package collector defines the Source interface and provides one
// implementation per metric domain (CPU load, memory, disks, processes,
// system events). Sources are independent: a failure in one never affects
// the others.
package collector

import "context"

// Source is the interface that all metric sources must implement.
// Each source reads a single metric domain from the host.
type Source interface {
	// Name returns the unique identifier for this source.
	Name() string

	// Collect reads the domain's data and returns it.
	// The context allows for cancellation and timeout control.
	Collect(ctx context.Context) (interface{}, error)

	// IsAvailable checks if this source can run on the current platform.
	// Sources that return false will not be registered.
	IsAvailable() bool
}
