// Host CPU load source — gathers overall CPU utilization.
// Uses gopsutil for cross-platform CPU metrics.
package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
)

// cpuSampleWindow is how long the utilization measurement blocks.
// One second gives a stable reading and is negligible against the
// polling interval.
const cpuSampleWindow = time.Second

// CPUSource collects the host-wide CPU utilization percentage.
type CPUSource struct{}

// NewCPUSource creates a new CPU load source.
func NewCPUSource() *CPUSource {
	return &CPUSource{}
}

// Name returns the source identifier.
func (s *CPUSource) Name() string { return "cpu" }

// Collect measures overall CPU utilization over a short window and
// returns it as a float64 percentage in [0, 100].
func (s *CPUSource) Collect(ctx context.Context) (interface{}, error) {
	percents, err := cpu.PercentWithContext(ctx, cpuSampleWindow, false)
	if err != nil {
		return nil, err
	}
	if len(percents) == 0 {
		return nil, fmt.Errorf("no cpu utilization reported")
	}
	return percents[0], nil
}

// IsAvailable returns true — CPU metrics are available on all platforms.
func (s *CPUSource) IsAvailable() bool { return true }
