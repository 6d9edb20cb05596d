// Physical memory source — gathers total and used bytes.
// Uses gopsutil for cross-platform memory metrics.
package collector

import (
	"context"

	"github.com/shirou/gopsutil/v3/mem"
)

// MemoryResult holds the collected memory usage data.
type MemoryResult struct {
	TotalBytes uint64
	UsedBytes  uint64
}

// MemorySource collects physical memory usage.
type MemorySource struct{}

// NewMemorySource creates a new memory source.
func NewMemorySource() *MemorySource {
	return &MemorySource{}
}

// Name returns the source identifier.
func (s *MemorySource) Name() string { return "memory" }

// Collect gathers total and used physical memory in bytes.
func (s *MemorySource) Collect(ctx context.Context) (interface{}, error) {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}
	return MemoryResult{
		TotalBytes: v.Total,
		UsedBytes:  v.Used,
	}, nil
}

// IsAvailable returns true — memory metrics are available on all platforms.
func (s *MemorySource) IsAvailable() bool { return true }
