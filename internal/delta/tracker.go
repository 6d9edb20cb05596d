// Package delta converts cumulative per-process CPU time into instantaneous
// utilization percentages by diffing readings across polling cycles.
package delta

// Tracker retains the last-observed cumulative CPU-seconds per PID.
//
// Entries are never evicted: a PID that exits leaves a stale entry behind.
// The map is bounded by the OS PID space rather than by time, and PIDs are
// reused, so long-running growth is capped at the number of distinct PIDs
// the host can hand out. A reused PID diffs against the dead process's
// counter; the non-negative clamp keeps the resulting value valid.
type Tracker struct {
	prev map[int32]float64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{prev: make(map[int32]float64)}
}

// Observe records a process's cumulative CPU-seconds and returns its
// utilization percentage over the elapsed interval, or nil when no value can
// be computed:
//
//   - first observation of a PID (no baseline to diff against)
//   - elapsedSeconds <= 0 (clock skew or a sub-second rapid retry)
//
// The new cumulative value is stored unconditionally so the next cycle has a
// correct baseline. Negative deltas from counter resets clamp to zero, and a
// reported core count below 1 is treated as 1.
func (t *Tracker) Observe(pid int32, cpuSeconds, elapsedSeconds float64, cpuCores int) *float64 {
	previous, seen := t.prev[pid]
	t.prev[pid] = cpuSeconds

	if !seen || elapsedSeconds <= 0 {
		return nil
	}

	d := cpuSeconds - previous
	if d < 0 {
		d = 0
	}
	if cpuCores < 1 {
		cpuCores = 1
	}

	utilization := (d / elapsedSeconds) * 100 / float64(cpuCores)
	return &utilization
}

// Len returns the number of tracked PIDs.
func (t *Tracker) Len() int {
	return len(t.prev)
}
