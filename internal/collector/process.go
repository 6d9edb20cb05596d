// Process table source — gathers the most CPU-hungry processes with their
// cumulative CPU time, for downstream delta computation.
// Uses gopsutil for cross-platform process listing.
package collector

import (
	"context"
	"sort"

	"github.com/shirou/gopsutil/v3/process"
)

// RawProcess is one process's raw reading for a single cycle.
// CPUSeconds is the cumulative processor time consumed since the process
// started; the utilization percentage is derived later by diffing two
// cycles' readings.
type RawProcess struct {
	PID        int32
	Name       string
	CPUSeconds float64
	RSSBytes   *uint64
}

// ProcessSource collects the top N processes by cumulative CPU time.
type ProcessSource struct {
	maxCount int
}

// NewProcessSource creates a process source that returns at most maxCount
// processes, ordered by cumulative CPU time descending.
func NewProcessSource(maxCount int) *ProcessSource {
	return &ProcessSource{maxCount: maxCount}
}

// Name returns the source identifier.
func (s *ProcessSource) Name() string { return "processes" }

// Collect gathers raw process readings, ranked by CPU time.
// Individual process errors are silently skipped to avoid failing the
// entire listing due to a single inaccessible process.
func (s *ProcessSource) Collect(ctx context.Context) (interface{}, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	raws := make([]RawProcess, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil || name == "" {
			continue
		}
		times, err := p.TimesWithContext(ctx)
		if err != nil {
			continue
		}

		raw := RawProcess{
			PID:        p.Pid,
			Name:       name,
			CPUSeconds: times.User + times.System,
		}
		if mi, err := p.MemoryInfoWithContext(ctx); err == nil && mi != nil {
			rss := mi.RSS
			raw.RSSBytes = &rss
		}
		raws = append(raws, raw)
	}

	return rankProcesses(raws, s.maxCount), nil
}

// rankProcesses orders readings by cumulative CPU time descending, breaking
// ties by PID ascending so the ordering is deterministic, and truncates the
// list to maxCount.
func rankProcesses(raws []RawProcess, maxCount int) []RawProcess {
	sort.Slice(raws, func(i, j int) bool {
		if raws[i].CPUSeconds != raws[j].CPUSeconds {
			return raws[i].CPUSeconds > raws[j].CPUSeconds
		}
		return raws[i].PID < raws[j].PID
	})
	if maxCount >= 0 && len(raws) > maxCount {
		raws = raws[:maxCount]
	}
	return raws
}

// IsAvailable returns true — process listing is available on all platforms.
func (s *ProcessSource) IsAvailable() bool { return true }
